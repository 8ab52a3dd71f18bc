package zarr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get("a")
	require.ErrorIs(t, err, ErrKeyNotFound)

	ok, err := s.Contains("a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("a", []byte("hello")))

	v, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), v)

	ok, err = s.Contains("a")
	require.NoError(t, err)
	require.True(t, ok)

	existed, err := s.Delete("a")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = s.Delete("a")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestMemoryStoreGetReturnsDefensiveCopy(t *testing.T) {
	s := NewMemoryStore()
	orig := []byte("hello")
	require.NoError(t, s.Set("a", orig))

	got, err := s.Get("a")
	require.NoError(t, err)
	got[0] = 'X'

	got2, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got2)

	orig[0] = 'Y'
	got3, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got3)
}

func TestMemoryStoreListPrefixSortedAndFiltered(t *testing.T) {
	s := NewMemoryStore()
	for _, k := range []string{"a/1", "a/2", "b/1", "a/0"} {
		require.NoError(t, s.Set(k, []byte("v")))
	}

	keys, err := s.ListPrefix("a/")
	require.NoError(t, err)
	require.Equal(t, []string{"a/0", "a/1", "a/2"}, keys)

	keys, err = s.ListPrefix("")
	require.NoError(t, err)
	require.Len(t, keys, 4)

	keys, err = s.ListPrefix("z/")
	require.NoError(t, err)
	require.Empty(t, keys)
}
