package zarr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetAttrsAbsentReturnsEmpty(t *testing.T) {
	store := NewMemoryStore()
	attrs, err := GetAttrs(store, mustPath(t, "nope"))
	require.NoError(t, err)
	require.Equal(t, Attributes{}, attrs)
}

func TestSetAndGetAttrsRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	path := mustPath(t, "arr")

	want := Attributes{"units": "meters", "scale": float64(2)}
	require.NoError(t, SetAttrs(store, path, want))

	got, err := GetAttrs(store, path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSetAttrsIsLastWriterWinsNotMerge(t *testing.T) {
	store := NewMemoryStore()
	path := mustPath(t, "arr")

	require.NoError(t, SetAttrs(store, path, Attributes{"a": float64(1), "b": float64(2)}))
	require.NoError(t, SetAttrs(store, path, Attributes{"c": float64(3)}))

	got, err := GetAttrs(store, path)
	require.NoError(t, err)
	require.Equal(t, Attributes{"c": float64(3)}, got)
}

func TestCreateArrayStartsWithEmptyAttrs(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateArray(store, mustPath(t, "a"), scalarInt32Meta(), false)
	require.NoError(t, err)

	attrs, err := GetAttrs(store, mustPath(t, "a"))
	require.NoError(t, err)
	require.Equal(t, Attributes{}, attrs)
}
