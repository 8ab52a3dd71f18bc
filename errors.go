package zarr

import (
	"github.com/cockroachdb/errors"
)

// Sentinel error kinds. The helpers below attach a kind to an error with
// the local mark type, so callers can test errors.Is(err, zarr.ErrX)
// regardless of how deep the wrap chain runs.
var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidMetadata = errors.New("invalid metadata")
	ErrPathExists      = errors.New("path exists")
	ErrPathConflict    = errors.New("path conflict")
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrCodecError      = errors.New("codec error")
	ErrStoreError      = errors.New("store error")
	// ErrNotFound marks lookups of a node (array or group) that does not
	// exist: the natural "no such node" companion to Store's own
	// ErrKeyNotFound.
	ErrNotFound = errors.New("not found")
)

// mark wraps err so that both stdlib errors.Is(result, target) and
// errors.Is(result, <anything in err's own chain>) succeed.
type mark struct {
	error
	target error
}

func (m *mark) Unwrap() error        { return m.error }
func (m *mark) Is(target error) bool { return target == m.target }

func notFoundf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrNotFound}
}

func invalidPathf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrInvalidPath}
}

func invalidMetadataf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrInvalidMetadata}
}

func pathExistsf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrPathExists}
}

func pathConflictf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrPathConflict}
}

func outOfBoundsf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrOutOfBounds}
}

func shapeMismatchf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrShapeMismatch}
}

func codecErrorf(format string, args ...interface{}) error {
	return &mark{errors.Newf(format, args...), ErrCodecError}
}

func wrapStoreError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &mark{errors.Wrapf(err, format, args...), ErrStoreError}
}
