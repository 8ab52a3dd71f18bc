package zarr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapStoreErrorPreservesCause(t *testing.T) {
	require.Nil(t, wrapStoreError(nil, "no-op"))

	cause := errors.New("disk on fire")
	err := wrapStoreError(cause, "writing %s", "x/.zarray")
	require.ErrorIs(t, err, ErrStoreError)
	require.ErrorIs(t, err, cause)
}

func TestSentinelHelpersMarkDistinctKinds(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{invalidPathf("bad"), ErrInvalidPath},
		{invalidMetadataf("bad"), ErrInvalidMetadata},
		{pathExistsf("bad"), ErrPathExists},
		{pathConflictf("bad"), ErrPathConflict},
		{outOfBoundsf("bad"), ErrOutOfBounds},
		{shapeMismatchf("bad"), ErrShapeMismatch},
		{codecErrorf("bad"), ErrCodecError},
		{notFoundf("bad"), ErrNotFound},
	}
	for _, c := range cases {
		require.ErrorIs(t, c.err, c.target)
	}
}
