package zarr

import (
	"bytes"
	"encoding/json"
)

// MetaKey names the fixed metadata document suffixes used under a path
// prefix.
type MetaKey string

const (
	ZarrayKey MetaKey = ".zarray"
	ZgroupKey MetaKey = ".zgroup"
	ZattrsKey MetaKey = ".zattrs"
)

// ZarrFormatVersion is the only zarr_format value the core accepts.
const ZarrFormatVersion = 2

// Order is the in-chunk element layout.
type Order string

const (
	RowMajor    Order = "C"
	ColumnMajor Order = "F"
)

func (o Order) valid() bool {
	return o == RowMajor || o == ColumnMajor
}

// CompressionNone is the sentinel compression name meaning "store raw
// chunk bytes unmodified."
const CompressionNone = "NONE"

// ArrayMeta is the decoded form of a ".zarray" document. Every field below
// is required; arrayMetaJSON enforces that no other key is present and
// none is missing.
type ArrayMeta struct {
	Shape           []int
	Chunks          []int
	Dtype           Dtype
	Compression     string
	CompressionOpts json.RawMessage
	FillValue       FillValue
	Order           Order
}

// arrayMetaJSON is the wire shape of .zarray: exactly these eight keys.
// stableJSON emits them in sorted order.
type arrayMetaJSON struct {
	ZarrFormat      int             `json:"zarr_format"`
	Shape           []int           `json:"shape"`
	Chunks          []int           `json:"chunks"`
	Dtype           Dtype           `json:"dtype"`
	Compression     string          `json:"compression"`
	CompressionOpts json.RawMessage `json:"compression_opts"`
	FillValue       json.RawMessage `json:"fill_value"`
	Order           Order           `json:"order"`
}

// MarshalArrayMeta serializes an ArrayMeta to a stable, reproducible form:
// sorted keys, two-space indent, "\n" endings.
func MarshalArrayMeta(m ArrayMeta) ([]byte, error) {
	fv, err := MarshalFillValue(m.FillValue, m.Dtype)
	if err != nil {
		return nil, err
	}
	compOpts := m.CompressionOpts
	if compOpts == nil {
		compOpts = json.RawMessage("null")
	}

	wire := arrayMetaJSON{
		ZarrFormat:      ZarrFormatVersion,
		Shape:           m.Shape,
		Chunks:          m.Chunks,
		Dtype:           m.Dtype,
		Compression:     m.Compression,
		CompressionOpts: compOpts,
		FillValue:       fv,
		Order:           m.Order,
	}
	return stableJSON(wire)
}

// UnmarshalArrayMeta parses a ".zarray" document, enforcing the exact key
// set and value constraints.
func UnmarshalArrayMeta(data []byte) (ArrayMeta, error) {
	if err := requireExactKeys(data, "zarr_format", "shape", "chunks", "dtype",
		"compression", "compression_opts", "fill_value", "order"); err != nil {
		return ArrayMeta{}, err
	}

	var wire arrayMetaJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return ArrayMeta{}, invalidMetadataf(".zarray: invalid JSON: %v", err)
	}

	if wire.ZarrFormat != ZarrFormatVersion {
		return ArrayMeta{}, invalidMetadataf(".zarray: unsupported zarr_format %d, want %d", wire.ZarrFormat, ZarrFormatVersion)
	}
	if len(wire.Shape) != len(wire.Chunks) {
		if !(len(wire.Shape) == 0 && len(wire.Chunks) == 0) {
			return ArrayMeta{}, invalidMetadataf(".zarray: shape has %d dimensions, chunks has %d", len(wire.Shape), len(wire.Chunks))
		}
	}
	for i, s := range wire.Shape {
		if s < 0 {
			return ArrayMeta{}, invalidMetadataf(".zarray: shape[%d] = %d must be >= 0", i, s)
		}
	}
	for i, c := range wire.Chunks {
		if c <= 0 {
			return ArrayMeta{}, invalidMetadataf(".zarray: chunks[%d] = %d must be > 0", i, c)
		}
	}
	if !wire.Order.valid() {
		return ArrayMeta{}, invalidMetadataf(".zarray: order must be %q or %q, got %q", RowMajor, ColumnMajor, wire.Order)
	}

	fv, err := UnmarshalFillValue(wire.FillValue, wire.Dtype)
	if err != nil {
		return ArrayMeta{}, err
	}

	return ArrayMeta{
		Shape:           wire.Shape,
		Chunks:          wire.Chunks,
		Dtype:           wire.Dtype,
		Compression:     wire.Compression,
		CompressionOpts: wire.CompressionOpts,
		FillValue:       fv,
		Order:           wire.Order,
	}, nil
}

// GroupMeta is the decoded form of a ".zgroup" document: just a format
// version marker.
type GroupMeta struct {
	ZarrFormat int
}

type groupMetaJSON struct {
	ZarrFormat int `json:"zarr_format"`
}

// MarshalGroupMeta serializes the canonical ".zgroup" document.
func MarshalGroupMeta() ([]byte, error) {
	return stableJSON(groupMetaJSON{ZarrFormat: ZarrFormatVersion})
}

// UnmarshalGroupMeta parses a ".zgroup" document, enforcing the exact key
// set (just "zarr_format").
func UnmarshalGroupMeta(data []byte) (GroupMeta, error) {
	if err := requireExactKeys(data, "zarr_format"); err != nil {
		return GroupMeta{}, err
	}
	var wire groupMetaJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return GroupMeta{}, invalidMetadataf(".zgroup: invalid JSON: %v", err)
	}
	if wire.ZarrFormat != ZarrFormatVersion {
		return GroupMeta{}, invalidMetadataf(".zgroup: unsupported zarr_format %d, want %d", wire.ZarrFormat, ZarrFormatVersion)
	}
	return GroupMeta{ZarrFormat: wire.ZarrFormat}, nil
}

// Attributes is the JSON object bound to an array or group via its
// sibling ".zattrs" key. Keys are unconstrained by the core.
type Attributes map[string]interface{}

// MarshalAttributes serializes attributes to the stable form.
func MarshalAttributes(a Attributes) ([]byte, error) {
	if a == nil {
		a = Attributes{}
	}
	return stableJSON(a)
}

// UnmarshalAttributes parses a ".zattrs" document. Any valid JSON object is
// accepted.
func UnmarshalAttributes(data []byte) (Attributes, error) {
	var a Attributes
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, invalidMetadataf(".zattrs: invalid JSON: %v", err)
	}
	return a, nil
}

// requireExactKeys fails with ErrInvalidMetadata unless data is a JSON
// object whose key set is exactly the given set.
func requireExactKeys(data []byte, keys ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return invalidMetadataf("invalid JSON object: %v", err)
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	for k := range obj {
		if !want[k] {
			return invalidMetadataf("unexpected key %q", k)
		}
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return invalidMetadataf("missing required key %q", k)
		}
	}
	return nil
}

// stableJSON re-marshals v with sorted object keys, two-space indentation,
// and "\n" line endings, for byte-for-byte reproducible output.
// Struct fields marshal in declaration order, not alphabetical order, so v
// is round-tripped through a map[string]json.RawMessage first: Go's
// encoding/json always sorts map keys, guaranteeing the sort regardless of
// the source struct's field order.
func stableJSON(v interface{}) ([]byte, error) {
	raw, err := marshalJSONNoEscape(v)
	if err != nil {
		return nil, invalidMetadataf("failed to marshal: %v", err)
	}

	sorted := raw
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		sorted, err = marshalJSONNoEscape(obj)
		if err != nil {
			return nil, invalidMetadataf("failed to marshal: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, sorted, "", "  "); err != nil {
		return nil, invalidMetadataf("failed to indent: %v", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
