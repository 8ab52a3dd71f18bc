package zarr

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// marshalJSONNoEscape behaves like json.Marshal but does not HTML-escape
// '<', '>', and '&', which matters here because dtype strings legitimately
// contain '<' and '>' as byte-order markers.
func marshalJSONNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ByteOrder is the endianness marker of a Dtype.
type ByteOrder byte

const (
	LittleEndian ByteOrder = '<'
	BigEndian    ByteOrder = '>'
	NotRelevant  ByteOrder = '|'
)

// Kind is the NumPy-style type-string kind character.
type Kind byte

const (
	KindBool      Kind = 'b'
	KindInt       Kind = 'i'
	KindUint      Kind = 'u'
	KindFloat     Kind = 'f'
	KindComplex   Kind = 'c'
	KindTimedelta Kind = 'm'
	KindDatetime  Kind = 'M'
	KindBytes     Kind = 'S'
	KindUnicode   Kind = 'U'
	KindVoid      Kind = 'V'
)

var validKinds = map[Kind]bool{
	KindBool: true, KindInt: true, KindUint: true, KindFloat: true,
	KindComplex: true, KindTimedelta: true, KindDatetime: true,
	KindBytes: true, KindUnicode: true, KindVoid: true,
}

// opaqueKinds are kinds where byte order never matters, regardless of
// size: opaque byte strings and raw void records. Per spec, "|" is also
// valid for any kind at size 1, checked separately in ParseDtype.
var opaqueKinds = map[Kind]bool{
	KindBytes: true, KindVoid: true,
}

// Field is one (name, dtype) pair of a structured record dtype.
type Field struct {
	Name  string
	Dtype Dtype
}

// Dtype is a parsed Zarr/NumPy type descriptor. A Dtype is either scalar
// (Fields is nil) or structured (Fields is non-empty and the scalar fields
// are the zero value).
type Dtype struct {
	ByteOrder ByteOrder
	Kind      Kind
	Size      int
	Fields    []Field
}

// IsStructured reports whether this dtype describes a record with named
// fields rather than a single scalar.
func (d Dtype) IsStructured() bool {
	return len(d.Fields) > 0
}

// ItemSize is the total size in bytes of one element: the scalar size, or
// the sum of field sizes with no padding for structured dtypes.
func (d Dtype) ItemSize() int {
	if !d.IsStructured() {
		return d.Size
	}
	total := 0
	for _, f := range d.Fields {
		total += f.Dtype.ItemSize()
	}
	return total
}

// IsFloating reports whether this is a scalar floating-point kind, used to
// select the fill-value JSON encoding in fillvalue.go.
func (d Dtype) IsFloating() bool {
	return !d.IsStructured() && d.Kind == KindFloat
}

// EffectiveByteOrder returns the byte order to use for element encode/
// decode: the declared order, or little-endian when the order is
// NotRelevant (single-byte or opaque kinds, where the choice is arbitrary).
func (d Dtype) EffectiveByteOrder() ByteOrder {
	if d.ByteOrder == NotRelevant {
		return LittleEndian
	}
	return d.ByteOrder
}

// ParseDtype parses a NumPy-style type string such as "<f8", "|b1", or
// ">u4". Structured dtypes are parsed from their JSON list form by
// UnmarshalJSON, not by this function.
func ParseDtype(s string) (Dtype, error) {
	if len(s) < 3 {
		return Dtype{}, invalidMetadataf("dtype string %q is too short", s)
	}

	bo := ByteOrder(s[0])
	switch bo {
	case LittleEndian, BigEndian, NotRelevant:
	default:
		return Dtype{}, invalidMetadataf("dtype string %q has unsupported byte order %q", s, s[0:1])
	}

	k := Kind(s[1])
	if !validKinds[k] {
		return Dtype{}, invalidMetadataf("dtype string %q has unsupported kind %q", s, s[1:2])
	}

	size, err := strconv.Atoi(s[2:])
	if err != nil {
		return Dtype{}, invalidMetadataf("dtype string %q has invalid size: %v", s, err)
	}
	if size <= 0 {
		return Dtype{}, invalidMetadataf("dtype string %q has non-positive size %d", s, size)
	}

	if bo == NotRelevant && size != 1 && !opaqueKinds[k] {
		return Dtype{}, invalidMetadataf("dtype string %q: byte order %q is not valid for kind %q", s, bo, k)
	}

	return Dtype{ByteOrder: bo, Kind: k, Size: size}, nil
}

// String renders the dtype back to its NumPy-style type string. Structured
// dtypes render meaningfully only through MarshalJSON.
func (d Dtype) String() string {
	return string([]byte{byte(d.ByteOrder), byte(d.Kind)}) + strconv.Itoa(d.Size)
}

// MarshalJSON renders a scalar dtype as its type string, or a structured
// dtype as an ordered JSON list of [name, dtype_string] pairs.
func (d Dtype) MarshalJSON() ([]byte, error) {
	if !d.IsStructured() {
		return marshalJSONNoEscape(d.String())
	}
	pairs := make([][2]string, len(d.Fields))
	for i, f := range d.Fields {
		pairs[i] = [2]string{f.Name, f.Dtype.String()}
	}
	return marshalJSONNoEscape(pairs)
}

// UnmarshalJSON accepts either a scalar dtype string or a structured list
// of [name, dtype_string] pairs.
func (d *Dtype) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalidMetadataf("dtype: invalid JSON: %v", err)
	}

	switch v := raw.(type) {
	case string:
		parsed, err := ParseDtype(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []interface{}:
		parsed, err := parseStructuredDtype(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return invalidMetadataf("dtype: expected string or list, got %T", raw)
	}
}

func parseStructuredDtype(items []interface{}) (Dtype, error) {
	fields := make([]Field, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		pair, ok := item.([]interface{})
		if !ok || len(pair) != 2 {
			return Dtype{}, invalidMetadataf("structured dtype field %d must be a [name, dtype] pair", i)
		}
		name, ok := pair[0].(string)
		if !ok {
			return Dtype{}, invalidMetadataf("structured dtype field %d: field name must be a string", i)
		}
		typeStr, ok := pair[1].(string)
		if !ok {
			return Dtype{}, invalidMetadataf("structured dtype field %d (%q): field dtype must be a string", i, name)
		}
		if seen[name] {
			return Dtype{}, invalidMetadataf("structured dtype has duplicate field name %q", name)
		}
		seen[name] = true

		ft, err := ParseDtype(typeStr)
		if err != nil {
			return Dtype{}, err
		}
		fields = append(fields, Field{Name: name, Dtype: ft})
	}

	if len(fields) == 0 {
		return Dtype{}, invalidMetadataf("structured dtype must have at least one field")
	}

	return Dtype{Fields: fields}, nil
}
