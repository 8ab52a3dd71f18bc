package zarr

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelApplyVisitsEveryProjection(t *testing.T) {
	projs := make([]ChunkProjection, 20)
	for i := range projs {
		projs[i] = ChunkProjection{ChunkCoords: []int{i}}
	}

	var count int64
	err := ParallelApply(projs, 4, func(ChunkProjection) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 20, count)
}

func TestParallelApplyReturnsFirstError(t *testing.T) {
	projs := make([]ChunkProjection, 5)
	boom := errors.New("boom")

	err := ParallelApply(projs, 2, func(p ChunkProjection) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestParallelApplyEmptyIsNoop(t *testing.T) {
	called := false
	err := ParallelApply(nil, 4, func(ChunkProjection) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)
}

func TestParallelApplyUnboundedWorkers(t *testing.T) {
	projs := make([]ChunkProjection, 8)
	var count int64
	err := ParallelApply(projs, 0, func(ChunkProjection) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 8, count)
}
