package localfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qri-io/zarrcore"
)

func TestStoreImplementsZarrStore(t *testing.T) {
	var _ zarr.Store = (*Store)(nil)
}

func TestOpenCreatesBaseDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	s, err := Open(dir)
	require.NoError(t, err)
	require.DirExists(t, dir)
	_ = s
}

func TestGetSetDeleteContains(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("a/.zarray")
	require.ErrorIs(t, err, zarr.ErrKeyNotFound)

	ok, err := s.Contains("a/.zarray")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("a/.zarray", []byte(`{"zarr_format":2}`)))

	ok, err = s.Contains("a/.zarray")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Get("a/.zarray")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"zarr_format":2}`), got)

	existed, err := s.Delete("a/.zarray")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.Delete("a/.zarray")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestSetCreatesIntermediateDirectories(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("deep/nested/path/0.0", []byte("chunk")))
	got, err := s.Get("deep/nested/path/0.0")
	require.NoError(t, err)
	require.Equal(t, []byte("chunk"), got)
}

func TestListPrefix(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"a/0.0", "a/0.1", "b/0.0"} {
		require.NoError(t, s.Set(k, []byte("v")))
	}

	keys, err := s.ListPrefix("a/")
	require.NoError(t, err)
	require.Equal(t, []string{"a/0.0", "a/0.1"}, keys)
}
