package zarr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDtypeScalar(t *testing.T) {
	d, err := ParseDtype("<f8")
	require.NoError(t, err)
	require.Equal(t, LittleEndian, d.ByteOrder)
	require.Equal(t, KindFloat, d.Kind)
	require.Equal(t, 8, d.Size)
	require.True(t, d.IsFloating())
	require.Equal(t, 8, d.ItemSize())
	require.Equal(t, "<f8", d.String())
}

func TestParseDtypeNotRelevantByteOrder(t *testing.T) {
	d, err := ParseDtype("|b1")
	require.NoError(t, err)
	require.Equal(t, NotRelevant, d.ByteOrder)
	require.Equal(t, LittleEndian, d.EffectiveByteOrder())

	_, err = ParseDtype("|f8")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestParseDtypeRejectsMalformed(t *testing.T) {
	cases := []string{"", "<", "<f", "?f8", "<z8", "<f0", "<f-1", "<fabc"}
	for _, s := range cases {
		_, err := ParseDtype(s)
		require.Error(t, err, "expected error for %q", s)
		require.ErrorIs(t, err, ErrInvalidMetadata)
	}
}

func TestDtypeJSONRoundTripScalar(t *testing.T) {
	d, err := ParseDtype(">i4")
	require.NoError(t, err)

	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `">i4"`, string(raw))

	var got Dtype
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, d, got)
}

func TestDtypeJSONStructured(t *testing.T) {
	raw := []byte(`[["x", "<f8"], ["y", "<f8"], ["flag", "|b1"]]`)
	var d Dtype
	require.NoError(t, json.Unmarshal(raw, &d))
	require.True(t, d.IsStructured())
	require.Len(t, d.Fields, 3)
	require.Equal(t, "x", d.Fields[0].Name)
	require.Equal(t, 8+8+1, d.ItemSize())

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var roundTripped Dtype
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	require.Equal(t, d, roundTripped)
}

func TestDtypeJSONStructuredRejectsDuplicateNames(t *testing.T) {
	raw := []byte(`[["x", "<f8"], ["x", "<i4"]]`)
	var d Dtype
	err := json.Unmarshal(raw, &d)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestDtypeJSONStructuredRejectsEmpty(t *testing.T) {
	var d Dtype
	err := json.Unmarshal([]byte(`[]`), &d)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidMetadata)
}
