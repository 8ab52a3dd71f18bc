package zarr

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalFillValueFloatSentinels(t *testing.T) {
	dt, err := ParseDtype("<f8")
	require.NoError(t, err)

	cases := []struct {
		name string
		v    float64
		want string
	}{
		{"nan", math.NaN(), `"NaN"`},
		{"pos inf", math.Inf(1), `"Infinity"`},
		{"neg inf", math.Inf(-1), `"-Infinity"`},
		{"finite", 1.5, `1.5`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, err := MarshalFillValue(Defined(c.v), dt)
			require.NoError(t, err)
			require.Equal(t, c.want, string(raw))
		})
	}
}

func TestFillValueUndefinedRoundTrips(t *testing.T) {
	dt, err := ParseDtype("<i4")
	require.NoError(t, err)

	raw, err := MarshalFillValue(Undefined, dt)
	require.NoError(t, err)
	require.Equal(t, "null", string(raw))

	fv, err := UnmarshalFillValue(raw, dt)
	require.NoError(t, err)
	require.False(t, fv.IsDefined())
}

func TestFillValueFloatRoundTrip(t *testing.T) {
	dt, err := ParseDtype("<f8")
	require.NoError(t, err)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -3.25, 0} {
		raw, err := MarshalFillValue(Defined(v), dt)
		require.NoError(t, err)
		fv, err := UnmarshalFillValue(raw, dt)
		require.NoError(t, err)
		got := fv.Raw().(float64)
		if math.IsNaN(v) {
			require.True(t, math.IsNaN(got))
		} else {
			require.Equal(t, v, got)
		}
	}
}

func TestFillValueBytesBase64RoundTrip(t *testing.T) {
	dt, err := ParseDtype("|S4")
	require.NoError(t, err)

	raw, err := MarshalFillValue(Defined([]byte("ab")), dt)
	require.NoError(t, err)

	fv, err := UnmarshalFillValue(raw, dt)
	require.NoError(t, err)
	require.Equal(t, []byte("ab"), fv.Raw())
}

func TestMaterializeFillUndefinedIsZeroed(t *testing.T) {
	dt, err := ParseDtype("<i4")
	require.NoError(t, err)

	buf, err := MaterializeFill(Undefined, dt, RowMajor, 3)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 12), buf)
}

func TestMaterializeFillTilesAcrossElements(t *testing.T) {
	dt, err := ParseDtype("<i4")
	require.NoError(t, err)

	buf, err := MaterializeFill(Defined(int64(7)), dt, RowMajor, 3)
	require.NoError(t, err)
	require.Len(t, buf, 12)

	for i := 0; i < 3; i++ {
		got := int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
		require.Equal(t, int32(7), got)
	}
}

func TestMaterializeFillStructured(t *testing.T) {
	dt := Dtype{Fields: []Field{
		{Name: "x", Dtype: Dtype{ByteOrder: LittleEndian, Kind: KindInt, Size: 4}},
		{Name: "flag", Dtype: Dtype{ByteOrder: NotRelevant, Kind: KindBool, Size: 1}},
	}}
	fill := Defined(map[string]FillValue{
		"x":    Defined(int64(42)),
		"flag": Defined(true),
	})

	buf, err := MaterializeFill(fill, dt, RowMajor, 1)
	require.NoError(t, err)
	require.Len(t, buf, 5)
	require.Equal(t, int32(42), int32(binary.LittleEndian.Uint32(buf[0:4])))
	require.Equal(t, byte(1), buf[4])
}
