package s3store

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"github.com/qri-io/zarrcore"
)

func TestStoreImplementsZarrStore(t *testing.T) {
	var _ zarr.Store = (*Store)(nil)
}

func TestOpenDoesNotDialEagerly(t *testing.T) {
	// minio.New only validates arguments and builds a client; it never
	// dials the endpoint, so Open must succeed even against an
	// unreachable host.
	s, err := Open("127.0.0.1:1", "access", "secret", "bucket", false)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestIsNoSuchKeyRecognizesErrResponse(t *testing.T) {
	err := minio.ErrorResponse{Code: "NoSuchKey", Message: "not found"}
	require.True(t, isNoSuchKey(err))

	require.False(t, isNoSuchKey(minio.ErrorResponse{Code: "AccessDenied"}))
	require.True(t, isNoSuchKey(errors.New("key does not exist")))
}
