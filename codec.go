package zarr

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
)

// Codec is the registry's capability record for a named compressor: a
// pure (bytes -> bytes) pair plus an opts validator. No framing, length
// prefix, or magic number is added beyond whatever the compressor itself
// emits.
type Codec struct {
	Encode       func(opts json.RawMessage, raw []byte) ([]byte, error)
	Decode       func(opts json.RawMessage, compressed []byte, rawSize int) ([]byte, error)
	ValidateOpts func(opts json.RawMessage) error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Codec{}
)

// RegisterCodec adds or replaces the codec for name. Built-in codecs are
// registered by init(); callers may add their own.
func RegisterCodec(name string, c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = c
}

// LookupCodec returns the codec registered under name, or CODEC_ERROR if
// none is registered.
func LookupCodec(name string) (Codec, error) {
	if name == CompressionNone {
		return identityCodec, nil
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return Codec{}, codecErrorf("unknown codec %q", name)
	}
	return c, nil
}

// ValidateCompressionOpts validates opts for name; OpenArray and
// CreateArray call it so bad opts fail before any chunk is touched. The
// level-based encoders still parse (and range-check) opts on each call.
func ValidateCompressionOpts(name string, opts json.RawMessage) error {
	c, err := LookupCodec(name)
	if err != nil {
		return err
	}
	if c.ValidateOpts == nil {
		return nil
	}
	if err := c.ValidateOpts(opts); err != nil {
		return invalidMetadataf("compression %q: %v", name, err)
	}
	return nil
}

var identityCodec = Codec{
	Encode: func(_ json.RawMessage, raw []byte) ([]byte, error) {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	},
	Decode: func(_ json.RawMessage, compressed []byte, rawSize int) ([]byte, error) {
		if len(compressed) != rawSize {
			return nil, codecErrorf("NONE codec: payload is %d bytes, expected %d", len(compressed), rawSize)
		}
		out := make([]byte, len(compressed))
		copy(out, compressed)
		return out, nil
	},
}

type levelOpts struct {
	Level int `json:"level,omitempty"`
}

func parseLevelOpts(opts json.RawMessage, min, max, def int) (int, error) {
	if len(opts) == 0 || string(opts) == "null" {
		return def, nil
	}
	var o levelOpts
	if err := json.Unmarshal(opts, &o); err != nil {
		return 0, codecErrorf("invalid compression_opts: %v", err)
	}
	if o.Level == 0 {
		return def, nil
	}
	if o.Level < min || o.Level > max {
		return 0, codecErrorf("level %d out of range [%d,%d]", o.Level, min, max)
	}
	return o.Level, nil
}

// lz4Levels maps our 0-9 compression_opts.level scale onto the library's
// named compression levels, index 0 being the fast/default setting.
var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

func init() {
	RegisterCodec("zlib", Codec{
		ValidateOpts: func(opts json.RawMessage) error {
			_, err := parseLevelOpts(opts, zlib.HuffmanOnly, zlib.BestCompression, zlib.DefaultCompression)
			return err
		},
		Encode: func(opts json.RawMessage, raw []byte) ([]byte, error) {
			level, err := parseLevelOpts(opts, zlib.HuffmanOnly, zlib.BestCompression, zlib.DefaultCompression)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			w, err := zlib.NewWriterLevel(&buf, level)
			if err != nil {
				return nil, codecErrorf("zlib: %v", err)
			}
			if _, err := w.Write(raw); err != nil {
				return nil, codecErrorf("zlib: %v", err)
			}
			if err := w.Close(); err != nil {
				return nil, codecErrorf("zlib: %v", err)
			}
			return buf.Bytes(), nil
		},
		Decode: func(_ json.RawMessage, compressed []byte, rawSize int) ([]byte, error) {
			r, err := zlib.NewReader(bytes.NewReader(compressed))
			if err != nil {
				return nil, codecErrorf("zlib: %v", err)
			}
			defer r.Close()
			out, err := io.ReadAll(r)
			if err != nil {
				return nil, codecErrorf("zlib: %v", err)
			}
			return out, nil
		},
	})

	RegisterCodec("gzip", Codec{
		ValidateOpts: func(opts json.RawMessage) error {
			_, err := parseLevelOpts(opts, pgzip.BestSpeed, pgzip.BestCompression, pgzip.DefaultCompression)
			return err
		},
		Encode: func(opts json.RawMessage, raw []byte) ([]byte, error) {
			level, err := parseLevelOpts(opts, pgzip.BestSpeed, pgzip.BestCompression, pgzip.DefaultCompression)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			w, err := pgzip.NewWriterLevel(&buf, level)
			if err != nil {
				return nil, codecErrorf("gzip: %v", err)
			}
			if _, err := w.Write(raw); err != nil {
				return nil, codecErrorf("gzip: %v", err)
			}
			if err := w.Close(); err != nil {
				return nil, codecErrorf("gzip: %v", err)
			}
			return buf.Bytes(), nil
		},
		Decode: func(_ json.RawMessage, compressed []byte, rawSize int) ([]byte, error) {
			r, err := pgzip.NewReader(bytes.NewReader(compressed))
			if err != nil {
				return nil, codecErrorf("gzip: %v", err)
			}
			defer r.Close()
			out, err := io.ReadAll(r)
			if err != nil {
				return nil, codecErrorf("gzip: %v", err)
			}
			return out, nil
		},
	})

	RegisterCodec("zstd", Codec{
		ValidateOpts: func(opts json.RawMessage) error {
			_, err := parseLevelOpts(opts, int(zstd.SpeedFastest), int(zstd.SpeedBestCompression), int(zstd.SpeedDefault))
			return err
		},
		Encode: func(opts json.RawMessage, raw []byte) ([]byte, error) {
			level, err := parseLevelOpts(opts, int(zstd.SpeedFastest), int(zstd.SpeedBestCompression), int(zstd.SpeedDefault))
			if err != nil {
				return nil, err
			}
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(level)))
			if err != nil {
				return nil, codecErrorf("zstd: %v", err)
			}
			defer enc.Close()
			return enc.EncodeAll(raw, nil), nil
		},
		Decode: func(_ json.RawMessage, compressed []byte, rawSize int) ([]byte, error) {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				return nil, codecErrorf("zstd: %v", err)
			}
			defer dec.Close()
			out, err := dec.DecodeAll(compressed, make([]byte, 0, rawSize))
			if err != nil {
				return nil, codecErrorf("zstd: %v", err)
			}
			return out, nil
		},
	})

	RegisterCodec("lz4", Codec{
		ValidateOpts: func(opts json.RawMessage) error {
			_, err := parseLevelOpts(opts, 0, 9, 0)
			return err
		},
		Encode: func(opts json.RawMessage, raw []byte) ([]byte, error) {
			level, err := parseLevelOpts(opts, 0, 9, 0)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			w := lz4.NewWriter(&buf)
			if err := w.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
				return nil, codecErrorf("lz4: %v", err)
			}
			if _, err := w.Write(raw); err != nil {
				return nil, codecErrorf("lz4: %v", err)
			}
			if err := w.Close(); err != nil {
				return nil, codecErrorf("lz4: %v", err)
			}
			return buf.Bytes(), nil
		},
		Decode: func(_ json.RawMessage, compressed []byte, rawSize int) ([]byte, error) {
			r := lz4.NewReader(bytes.NewReader(compressed))
			out, err := io.ReadAll(r)
			if err != nil {
				return nil, codecErrorf("lz4: %v", err)
			}
			return out, nil
		},
	})

	RegisterCodec("snappy", Codec{
		Encode: func(_ json.RawMessage, raw []byte) ([]byte, error) {
			return snappy.Encode(nil, raw), nil
		},
		Decode: func(_ json.RawMessage, compressed []byte, rawSize int) ([]byte, error) {
			out, err := snappy.Decode(make([]byte, 0, rawSize), compressed)
			if err != nil {
				return nil, codecErrorf("snappy: %v", err)
			}
			return out, nil
		},
	})
}
