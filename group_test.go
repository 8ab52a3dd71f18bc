package zarr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scalarInt32Meta() ArrayMeta {
	dt, _ := ParseDtype("<i4")
	return ArrayMeta{
		Shape: []int{2}, Chunks: []int{2}, Dtype: dt,
		Compression: CompressionNone, FillValue: Undefined, Order: RowMajor,
	}
}

func TestCreateGroupCreatesImplicitAncestors(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateGroup(store, mustPath(t, "a/b/c"))
	require.NoError(t, err)

	for _, p := range []string{"a", "a/b", "a/b/c"} {
		ok, err := store.Contains(p + "/.zgroup")
		require.NoError(t, err)
		require.True(t, ok, "expected .zgroup at %s", p)
	}
}

func TestCreateGroupIdempotentAtLeaf(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateGroup(store, mustPath(t, "a"))
	require.NoError(t, err)
	_, err = CreateGroup(store, mustPath(t, "a"))
	require.NoError(t, err)
}

func TestCreateGroupConflictsWithArrayAncestor(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateArray(store, mustPath(t, "a"), scalarInt32Meta(), false)
	require.NoError(t, err)

	_, err = CreateGroup(store, mustPath(t, "a/b"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPathConflict)
}

func TestCreateArrayCreatesAncestorGroups(t *testing.T) {
	store := NewMemoryStore()
	arr, err := CreateArray(store, mustPath(t, "g1/g2/arr"), scalarInt32Meta(), false)
	require.NoError(t, err)
	require.Equal(t, "g1/g2/arr", arr.Path().String())

	for _, p := range []string{"g1", "g1/g2"} {
		ok, err := store.Contains(p + "/.zgroup")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestCreateArrayExistsWithoutOverwrite(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateArray(store, mustPath(t, "a"), scalarInt32Meta(), false)
	require.NoError(t, err)

	_, err = CreateArray(store, mustPath(t, "a"), scalarInt32Meta(), false)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPathExists)
}

func TestCreateArrayOverwriteDeletesOldChunks(t *testing.T) {
	store := NewMemoryStore()
	meta := scalarInt32Meta()
	arr, err := CreateArray(store, mustPath(t, "a"), meta, false)
	require.NoError(t, err)
	require.NoError(t, arr.Write(FullSelection([]int{2}), encodeInt32LE([]int32{1, 2})))

	ok, err := store.Contains("a/0")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = CreateArray(store, mustPath(t, "a"), meta, true)
	require.NoError(t, err)

	ok, err = store.Contains("a/0")
	require.NoError(t, err)
	require.False(t, ok, "overwrite must sweep old chunks")
}

func TestOpenGroupNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := OpenGroup(store, mustPath(t, "nope"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListMembers(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateGroup(store, mustPath(t, "root/g1"))
	require.NoError(t, err)
	_, err = CreateArray(store, mustPath(t, "root/arr1"), scalarInt32Meta(), false)
	require.NoError(t, err)

	members, err := ListMembers(store, mustPath(t, "root"))
	require.NoError(t, err)
	require.Len(t, members, 2)

	byName := make(map[string]Member, len(members))
	for _, m := range members {
		byName[m.Name] = m
	}
	require.True(t, byName["g1"].IsGroup)
	require.False(t, byName["g1"].IsArray)
	require.True(t, byName["arr1"].IsArray)
	require.False(t, byName["arr1"].IsGroup)
}

func TestListMembersIgnoresGrandchildren(t *testing.T) {
	store := NewMemoryStore()
	_, err := CreateGroup(store, mustPath(t, "root/g1/g2"))
	require.NoError(t, err)

	members, err := ListMembers(store, mustPath(t, "root"))
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "g1", members[0].Name)
}
