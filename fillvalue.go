package zarr

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
)

// FillValue is a typed scalar substituted for absent chunks, or the
// sentinel Undefined. Structured-record fill values are represented as a
// map keyed by field name, each value itself a FillValue leaf.
type FillValue struct {
	defined bool
	raw     interface{} // float64, int64, uint64, bool, []byte, string, or map[string]FillValue
}

// Undefined is the FillValue with no defined content (JSON null).
var Undefined = FillValue{}

// Defined constructs a defined fill value from a decoded scalar or
// map[string]FillValue for structured dtypes.
func Defined(v interface{}) FillValue {
	return FillValue{defined: true, raw: v}
}

// IsDefined reports whether this fill value carries content.
func (f FillValue) IsDefined() bool {
	return f.defined
}

// Raw returns the decoded scalar (or map[string]FillValue for a structured
// dtype). Only meaningful when IsDefined is true.
func (f FillValue) Raw() interface{} {
	return f.raw
}

// MarshalFillValue encodes a fill value to its JSON representation:
// NaN/Infinity sentinel strings for floating kinds, JSON numbers/booleans
// otherwise, base64 strings for byte kinds, plain strings for unicode,
// nested objects for structured records, null for Undefined.
func MarshalFillValue(f FillValue, dt Dtype) (json.RawMessage, error) {
	if !f.IsDefined() {
		return json.RawMessage("null"), nil
	}

	if dt.IsStructured() {
		fields, ok := f.raw.(map[string]FillValue)
		if !ok {
			return nil, invalidMetadataf("fill value for structured dtype must decode to a field map")
		}
		out := make(map[string]json.RawMessage, len(dt.Fields))
		for _, field := range dt.Fields {
			fv, ok := fields[field.Name]
			if !ok {
				return nil, invalidMetadataf("fill value missing field %q", field.Name)
			}
			enc, err := MarshalFillValue(fv, field.Dtype)
			if err != nil {
				return nil, err
			}
			out[field.Name] = enc
		}
		return json.Marshal(out)
	}

	switch dt.Kind {
	case KindFloat:
		v, ok := asFloat64(f.raw)
		if !ok {
			return nil, invalidMetadataf("fill value %v is not numeric for a floating dtype", f.raw)
		}
		switch {
		case math.IsNaN(v):
			return json.Marshal("NaN")
		case math.IsInf(v, 1):
			return json.Marshal("Infinity")
		case math.IsInf(v, -1):
			return json.Marshal("-Infinity")
		default:
			return json.Marshal(v)
		}
	case KindBool:
		v, ok := f.raw.(bool)
		if !ok {
			return nil, invalidMetadataf("fill value %v is not a bool", f.raw)
		}
		return json.Marshal(v)
	case KindInt:
		v, ok := asInt64(f.raw)
		if !ok {
			return nil, invalidMetadataf("fill value %v is not an integer", f.raw)
		}
		return json.Marshal(v)
	case KindUint:
		v, ok := asUint64(f.raw)
		if !ok {
			return nil, invalidMetadataf("fill value %v is not an unsigned integer", f.raw)
		}
		return json.Marshal(v)
	case KindBytes:
		v, ok := f.raw.([]byte)
		if !ok {
			return nil, invalidMetadataf("fill value %v is not a byte string", f.raw)
		}
		return json.Marshal(base64.StdEncoding.EncodeToString(v))
	case KindUnicode:
		v, ok := f.raw.(string)
		if !ok {
			return nil, invalidMetadataf("fill value %v is not a string", f.raw)
		}
		return json.Marshal(v)
	default:
		// complex, timedelta, datetime, void: stored as opaque base64 bytes.
		v, ok := f.raw.([]byte)
		if !ok {
			return nil, invalidMetadataf("fill value for kind %q must decode to bytes", string(d2s(dt.Kind)))
		}
		return json.Marshal(base64.StdEncoding.EncodeToString(v))
	}
}

// UnmarshalFillValue decodes a .zarray "fill_value" JSON value against the
// given dtype.
func UnmarshalFillValue(raw json.RawMessage, dt Dtype) (FillValue, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return FillValue{}, invalidMetadataf("fill_value: invalid JSON: %v", err)
	}
	if v == nil {
		return Undefined, nil
	}

	if dt.IsStructured() {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value for structured dtype must be a JSON object")
		}
		fields := make(map[string]FillValue, len(dt.Fields))
		for _, field := range dt.Fields {
			sub, ok := obj[field.Name]
			if !ok {
				return FillValue{}, invalidMetadataf("fill_value missing field %q", field.Name)
			}
			subRaw, err := json.Marshal(sub)
			if err != nil {
				return FillValue{}, invalidMetadataf("fill_value field %q: %v", field.Name, err)
			}
			fv, err := UnmarshalFillValue(subRaw, field.Dtype)
			if err != nil {
				return FillValue{}, err
			}
			fields[field.Name] = fv
		}
		return Defined(fields), nil
	}

	switch dt.Kind {
	case KindFloat:
		if s, ok := v.(string); ok {
			switch s {
			case "NaN":
				return Defined(math.NaN()), nil
			case "Infinity":
				return Defined(math.Inf(1)), nil
			case "-Infinity":
				return Defined(math.Inf(-1)), nil
			default:
				return FillValue{}, invalidMetadataf("fill_value %q is not a valid float sentinel", s)
			}
		}
		f, ok := v.(float64)
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value %v is not numeric for a floating dtype", v)
		}
		return Defined(f), nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value %v is not a bool", v)
		}
		return Defined(b), nil
	case KindInt:
		f, ok := v.(float64)
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value %v is not an integer", v)
		}
		return Defined(int64(f)), nil
	case KindUint:
		f, ok := v.(float64)
		if !ok || f < 0 {
			return FillValue{}, invalidMetadataf("fill_value %v is not an unsigned integer", v)
		}
		return Defined(uint64(f)), nil
	case KindBytes:
		s, ok := v.(string)
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value %v is not a base64 byte string", v)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return FillValue{}, invalidMetadataf("fill_value is not valid base64: %v", err)
		}
		return Defined(b), nil
	case KindUnicode:
		s, ok := v.(string)
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value %v is not a string", v)
		}
		return Defined(s), nil
	default:
		s, ok := v.(string)
		if !ok {
			return FillValue{}, invalidMetadataf("fill_value %v is not a base64 byte string", v)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return FillValue{}, invalidMetadataf("fill_value is not valid base64: %v", err)
		}
		return Defined(b), nil
	}
}

// MaterializeFill allocates a buffer of n elements of the given dtype and
// tiles the fill value's binary encoding across it. If fill is Undefined,
// the buffer is zeroed: deterministic within a process, without claiming
// any particular semantic value.
func MaterializeFill(fill FillValue, dt Dtype, order Order, n int) ([]byte, error) {
	itemSize := dt.ItemSize()
	buf := make([]byte, n*itemSize)
	if !fill.IsDefined() {
		return buf, nil
	}

	elem := make([]byte, itemSize)
	if err := encodeFillElement(elem, fill, dt, order); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		copy(buf[i*itemSize:(i+1)*itemSize], elem)
	}
	return buf, nil
}

func encodeFillElement(dst []byte, fill FillValue, dt Dtype, order Order) error {
	if dt.IsStructured() {
		fields, ok := fill.raw.(map[string]FillValue)
		if !ok {
			return invalidMetadataf("fill value for structured dtype must decode to a field map")
		}
		offset := 0
		for _, field := range dt.Fields {
			fv, ok := fields[field.Name]
			if !ok {
				return invalidMetadataf("fill value missing field %q", field.Name)
			}
			sz := field.Dtype.ItemSize()
			if err := encodeFillElement(dst[offset:offset+sz], fv, field.Dtype, order); err != nil {
				return err
			}
			offset += sz
		}
		return nil
	}

	bo := byteOrderImpl(dt.EffectiveByteOrder())

	switch dt.Kind {
	case KindFloat:
		v, _ := asFloat64(fill.raw)
		switch dt.Size {
		case 4:
			bo.PutUint32(dst, math.Float32bits(float32(v)))
		case 8:
			bo.PutUint64(dst, math.Float64bits(v))
		default:
			return codecErrorf("unsupported float size %d", dt.Size)
		}
	case KindInt:
		v, _ := asInt64(fill.raw)
		putInt(dst, bo, uint64(v), dt.Size)
	case KindUint:
		v, _ := asUint64(fill.raw)
		putInt(dst, bo, v, dt.Size)
	case KindBool:
		v, _ := fill.raw.(bool)
		if v {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case KindBytes, KindUnicode:
		var s []byte
		switch v := fill.raw.(type) {
		case []byte:
			s = v
		case string:
			s = []byte(v)
		}
		copy(dst, s) // remainder stays zero, matching the item's fixed width
	default:
		if v, ok := fill.raw.([]byte); ok {
			copy(dst, v)
		}
	}
	return nil
}

func putInt(dst []byte, bo binary.ByteOrder, v uint64, size int) {
	switch size {
	case 1:
		dst[0] = byte(v)
	case 2:
		bo.PutUint16(dst, uint16(v))
	case 4:
		bo.PutUint32(dst, uint32(v))
	case 8:
		bo.PutUint64(dst, v)
	}
}

func byteOrderImpl(bo ByteOrder) binary.ByteOrder {
	if bo == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func asFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case int:
		return int64(x), true
	}
	return 0, false
}

func asUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case float64:
		return uint64(x), true
	case int:
		return uint64(x), true
	}
	return 0, false
}

func d2s(k Kind) []byte { return []byte{byte(k)} }
