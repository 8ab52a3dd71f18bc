// Package localfs implements a zarr.Store backed by a local directory,
// one file per key, with structured logging via go.uber.org/zap.
package localfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/qri-io/zarrcore"
)

const dirPerm = 0o755

// Store is a directory-backed zarr.Store. Keys map directly onto
// slash-separated relative file paths under base. It is not safe for
// concurrent use from multiple processes; within one process it relies on
// the OS's own file-level atomicity for individual Get/Set/Delete calls.
type Store struct {
	base string
	log  *zap.Logger
}

var _ zarr.Store = (*Store)(nil)

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open creates (if needed) and returns a Store rooted at base.
func Open(base string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, err
	}
	s := &Store{base: abs, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.base, filepath.FromSlash(key))
}

func (s *Store) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zarr.ErrKeyNotFound
	}
	if err != nil {
		s.log.Error("localfs get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (s *Store) Set(key string, val []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), dirPerm); err != nil {
		return err
	}
	if err := os.WriteFile(p, val, 0o644); err != nil {
		s.log.Error("localfs set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) Delete(key string) (bool, error) {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Contains(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListPrefix(prefix string) ([]string, error) {
	var out []string
	root := s.base
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
