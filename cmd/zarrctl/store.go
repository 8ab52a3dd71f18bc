package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/qri-io/zarrcore"
	"github.com/qri-io/zarrcore/store/localfs"
	"github.com/qri-io/zarrcore/store/s3store"
)

// openStore resolves a --store flag value into a zarr.Store. Supported
// forms: "mem://", "local://<dir>", "s3://<endpoint>/<bucket>" (with
// credentials taken from ZARR_S3_ACCESS_KEY/ZARR_S3_SECRET_KEY, since the
// core itself never reads environment variables but the CLI's own
// configuration layer may).
func openStore(spec string, log *zap.Logger) (zarr.Store, error) {
	switch {
	case spec == "" || spec == "mem://":
		return zarr.NewMemoryStore(), nil
	case strings.HasPrefix(spec, "local://"):
		dir := strings.TrimPrefix(spec, "local://")
		return localfs.Open(dir, localfs.WithLogger(log))
	case strings.HasPrefix(spec, "s3://"):
		return openS3Store(strings.TrimPrefix(spec, "s3://"), log)
	default:
		return nil, fmt.Errorf("unrecognized --store value %q", spec)
	}
}

func openS3Store(rest string, log *zap.Logger) (zarr.Store, error) {
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("s3 store spec must be s3://<endpoint>/<bucket>, got %q", rest)
	}
	endpoint, bucket := parts[0], parts[1]
	accessKey := envOr("ZARR_S3_ACCESS_KEY", "")
	secretKey := envOr("ZARR_S3_SECRET_KEY", "")
	return s3store.Open(endpoint, accessKey, secretKey, bucket, true, s3store.WithLogger(log))
}
