package zarr

import (
	"strconv"
	"strings"
)

// ChunkKey formats a chunk grid coordinate as the dot-joined decimal key
// used on the wire: "0.0", "2.4", "7". A zero-length
// coordinate (0-D array) always formats as "0".
func ChunkKey(coord []int) string {
	if len(coord) == 0 {
		return "0"
	}
	if len(coord) == 1 {
		return strconv.Itoa(coord[0])
	}
	var sb strings.Builder
	for i, idx := range coord {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// ParseChunkKey parses the inverse of ChunkKey, validating that each
// segment is a non-negative decimal integer with no leading zeros (except
// the literal segment "0"). This is the strict side of the bijection:
// every string ChunkKey can produce round-trips, and no other string is
// accepted.
func ParseChunkKey(key string, ndim int) ([]int, error) {
	segments := strings.Split(key, ".")
	for _, seg := range segments {
		if seg == "" || (len(seg) > 1 && seg[0] == '0') {
			return nil, invalidPathf("chunk key %q has a malformed segment %q", key, seg)
		}
		for _, c := range seg {
			if c < '0' || c > '9' {
				return nil, invalidPathf("chunk key %q has a non-numeric segment %q", key, seg)
			}
		}
	}

	if ndim == 0 {
		if key != "0" {
			return nil, invalidPathf("chunk key %q is invalid for a 0-dimensional array", key)
		}
		return nil, nil
	}

	if len(segments) != ndim {
		return nil, invalidPathf("chunk key %q has %d segments, want %d", key, len(segments), ndim)
	}

	coord := make([]int, len(segments))
	for i, seg := range segments {
		v, err := strconv.Atoi(seg)
		if err != nil {
			return nil, invalidPathf("chunk key %q: %v", key, err)
		}
		coord[i] = v
	}
	return coord, nil
}
