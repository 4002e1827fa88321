// Package meshopt reorders indexed triangle meshes for GPU vertex cache and
// vertex fetch locality.
//
// All functions operate on 32-bit triangle-list index buffers and never change
// the set of triangles or their winding. Only triangle order and vertex
// numbering are changed. Functions return fresh slices and leave their inputs
// untouched.
package meshopt

import (
	"errors"
	"fmt"
)

// Index buffer errors.
var (
	ErrIndexCount      = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrRemapLength     = errors.New("remap table length does not match vertex count")
)

// Unused marks a vertex that no index references in a remap table.
const Unused = ^uint32(0)

// DefaultCacheSize is the FIFO vertex cache size simulated by the optimizer.
const DefaultCacheSize = 32

// ValidateIndices checks that indices form whole triangles and that every
// index addresses one of vertexCount vertices.
func ValidateIndices(indices []uint32, vertexCount int) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: got %d indices", ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if int64(idx) >= int64(vertexCount) {
			return fmt.Errorf("%w: index %d at position %d, vertex count %d", ErrIndexOutOfRange, idx, i, vertexCount)
		}
	}
	return nil
}

// DropDegenerate removes triangles that reference the same vertex twice.
// It returns the filtered buffer and the number of triangles removed.
// Trailing indices that do not form a whole triangle are discarded.
func DropDegenerate(indices []uint32) ([]uint32, int) {
	out := make([]uint32, 0, len(indices))
	dropped := 0
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || a == c {
			dropped++
			continue
		}
		out = append(out, a, b, c)
	}
	return out, dropped
}
