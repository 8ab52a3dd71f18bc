// Package s3store implements a zarr.Store backed by an S3-compatible
// object store via the minio-go client: a struct holding the client
// plus a bucket field, adapted to the v7 client's context-based API and
// to zarr.Store's five-method contract.
package s3store

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/qri-io/zarrcore"
)

// Store is an S3-compatible object-store backed zarr.Store. Each key maps
// directly to an object name within bucket; ListPrefix uses the SDK's
// ListObjects, Contains uses StatObject.
type Store struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

var _ zarr.Store = (*Store)(nil)

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open connects to an S3-compatible endpoint and returns a Store rooted at
// bucket. It does not create the bucket; callers are expected to manage
// bucket lifecycle themselves.
func Open(endpoint, accessKey, secretKey, bucket string, secure bool, opts ...Option) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	s := &Store{client: client, bucket: bucket, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) Get(key string) ([]byte, error) {
	ctx := context.Background()
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, zarr.ErrKeyNotFound
		}
		s.log.Error("s3 get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	// minio's GetObject is lazy: a missing key only surfaces on first read.
	if _, statErr := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); statErr != nil && isNoSuchKey(statErr) {
		return nil, zarr.ErrKeyNotFound
	}
	return data, nil
}

func (s *Store) Set(key string, val []byte) error {
	ctx := context.Background()
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(val), int64(len(val)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		s.log.Error("s3 put failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) Delete(key string) (bool, error) {
	ctx := context.Background()
	existed, err := s.Contains(key)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Contains(key string) (bool, error) {
	ctx := context.Background()
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) ListPrefix(prefix string) ([]string, error) {
	ctx := context.Background()
	var out []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, obj.Key)
	}
	return out, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || strings.Contains(err.Error(), "does not exist")
}
