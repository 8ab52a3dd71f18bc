package zarr

// Array is a handle on an array node: its path, the store it lives in, and
// its decoded .zarray metadata.
type Array struct {
	path  Path
	store Store
	meta  ArrayMeta
}

// OpenArray attaches to an existing array at path, reading and validating
// its .zarray document.
func OpenArray(store Store, path Path) (*Array, error) {
	data, err := store.Get(path.Key(string(ZarrayKey)))
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, notFoundf("no array at %q", path)
		}
		return nil, wrapStoreError(err, "reading %s", path.Key(string(ZarrayKey)))
	}
	meta, err := UnmarshalArrayMeta(data)
	if err != nil {
		return nil, err
	}
	if err := validateArrayMeta(meta); err != nil {
		return nil, err
	}
	return &Array{path: path, store: store, meta: meta}, nil
}

// Meta returns a copy of the array's metadata.
func (a *Array) Meta() ArrayMeta { return a.meta }

// Path returns the array's canonical path.
func (a *Array) Path() Path { return a.path }

func validateArrayMeta(m ArrayMeta) error {
	ndim := len(m.Shape)
	if ndim == 0 {
		if len(m.Chunks) != 0 {
			return invalidMetadataf(".zarray: 0-dimensional array must have an empty chunks list")
		}
	} else if len(m.Chunks) != ndim {
		return invalidMetadataf(".zarray: shape has %d dimensions, chunks has %d", ndim, len(m.Chunks))
	}
	if m.Dtype.ItemSize() <= 0 {
		return invalidMetadataf(".zarray: dtype has non-positive item size")
	}
	return ValidateCompressionOpts(normalizeCompressionName(m.Compression), m.CompressionOpts)
}

func normalizeCompressionName(name string) string {
	if name == "" {
		return CompressionNone
	}
	return name
}

// chunkElementCount returns prod(chunks), the element count of one chunk,
// treating a 0-D array's single chunk as having exactly one element.
func chunkElementCount(chunks []int) int {
	if len(chunks) == 0 {
		return 1
	}
	n := 1
	for _, c := range chunks {
		n *= c
	}
	return n
}

// Read fills out with the decoded contents of sel, synthesizing fill value
// for uninitialized chunks. out must be exactly
// sel.NumElements() * dtype.ItemSize() bytes, laid out contiguously in the
// array's declared Order.
func (a *Array) Read(sel Selection, out []byte) error {
	itemSize := a.meta.Dtype.ItemSize()
	wantLen := sel.NumElements() * itemSize
	if len(out) != wantLen {
		return shapeMismatchf("output buffer is %d bytes, selection needs %d", len(out), wantLen)
	}

	projs, err := PlanSelection(a.meta.Shape, a.meta.Chunks, sel)
	if err != nil {
		return err
	}

	outStrides := stridesFor(rangeLengths(sel), a.meta.Order)

	for _, proj := range projs {
		if err := a.readChunkInto(proj, out, outStrides, itemSize); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) readChunkInto(proj ChunkProjection, out []byte, outStrides []int, itemSize int) error {
	key := a.path.Key(ChunkKey(proj.ChunkCoords))
	data, err := a.store.Get(key)

	chunkLen := chunkElementCount(a.meta.Chunks)
	regionLen := regionLengths(proj.ChunkRegion)

	if err == ErrKeyNotFound {
		fill, ferr := MaterializeFill(a.meta.FillValue, a.meta.Dtype, a.meta.Order, productInts(regionLen))
		if ferr != nil {
			return ferr
		}
		fillStrides := stridesFor(regionLen, a.meta.Order)
		copyRegion(fill, fillStrides, zeroOrigin(len(regionLen)), itemSize,
			out, outStrides, originOf(proj.OutRegion), regionLen)
		return nil
	}
	if err != nil {
		return wrapStoreError(err, "reading %s", key)
	}

	chunkBuf, err := a.decodeChunk(data, chunkLen*itemSize)
	if err != nil {
		return err
	}

	chunkShape := a.chunkShape()
	chunkStrides := stridesFor(chunkShape, a.meta.Order)
	copyRegion(chunkBuf, chunkStrides, originOf(proj.ChunkRegion), itemSize,
		out, outStrides, originOf(proj.OutRegion), regionLen)
	return nil
}

func (a *Array) chunkShape() []int {
	if len(a.meta.Chunks) == 0 {
		return nil
	}
	return a.meta.Chunks
}

func (a *Array) decodeChunk(data []byte, rawSize int) ([]byte, error) {
	name := normalizeCompressionName(a.meta.Compression)
	c, err := LookupCodec(name)
	if err != nil {
		return nil, err
	}
	return c.Decode(a.meta.CompressionOpts, data, rawSize)
}

func (a *Array) encodeChunk(raw []byte) ([]byte, error) {
	name := normalizeCompressionName(a.meta.Compression)
	c, err := LookupCodec(name)
	if err != nil {
		return nil, err
	}
	return c.Encode(a.meta.CompressionOpts, raw)
}

// Write overwrites sel with the contents of src: full-coverage chunks are
// encoded directly from src; partial chunks are read, decoded, merged,
// re-encoded. src must be exactly sel.NumElements() * dtype.ItemSize()
// bytes.
func (a *Array) Write(sel Selection, src []byte) error {
	itemSize := a.meta.Dtype.ItemSize()
	wantLen := sel.NumElements() * itemSize
	if len(src) != wantLen {
		return shapeMismatchf("source buffer is %d bytes, selection needs %d", len(src), wantLen)
	}

	projs, err := PlanSelection(a.meta.Shape, a.meta.Chunks, sel)
	if err != nil {
		return err
	}

	srcStrides := stridesFor(rangeLengths(sel), a.meta.Order)

	for _, proj := range projs {
		if err := a.writeChunkFrom(proj, src, srcStrides, itemSize); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) writeChunkFrom(proj ChunkProjection, src []byte, srcStrides []int, itemSize int) error {
	key := a.path.Key(ChunkKey(proj.ChunkCoords))
	chunkLen := chunkElementCount(a.meta.Chunks)
	chunkShape := a.chunkShape()
	chunkStrides := stridesFor(chunkShape, a.meta.Order)

	var working []byte

	if proj.FullCoverage(a.meta.Chunks) {
		working = make([]byte, chunkLen*itemSize)
	} else {
		existing, err := a.store.Get(key)
		switch {
		case err == ErrKeyNotFound:
			working, err = MaterializeFill(a.meta.FillValue, a.meta.Dtype, a.meta.Order, chunkLen)
			if err != nil {
				return err
			}
		case err != nil:
			return wrapStoreError(err, "reading %s", key)
		default:
			working, err = a.decodeChunk(existing, chunkLen*itemSize)
			if err != nil {
				return err
			}
		}
	}

	regionLen := regionLengths(proj.ChunkRegion)
	copyRegion(src, srcStrides, originOf(proj.OutRegion), itemSize,
		working, chunkStrides, originOf(proj.ChunkRegion), regionLen)

	if proj.FullCoverage(a.meta.Chunks) && a.meta.FillValue.IsDefined() && bufferIsFill(working, a.meta.FillValue, a.meta.Dtype, a.meta.Order) {
		_, err := a.store.Delete(key)
		if err != nil {
			return wrapStoreError(err, "deleting %s", key)
		}
		return nil
	}

	encoded, err := a.encodeChunk(working)
	if err != nil {
		return err
	}
	if err := a.store.Set(key, encoded); err != nil {
		return wrapStoreError(err, "writing %s", key)
	}
	return nil
}

func bufferIsFill(buf []byte, fill FillValue, dt Dtype, order Order) bool {
	itemSize := dt.ItemSize()
	if itemSize == 0 || len(buf)%itemSize != 0 {
		return false
	}
	pattern, err := MaterializeFill(fill, dt, order, 1)
	if err != nil || len(pattern) != itemSize {
		return false
	}
	for off := 0; off < len(buf); off += itemSize {
		for i := 0; i < itemSize; i++ {
			if buf[off+i] != pattern[i] {
				return false
			}
		}
	}
	return true
}
