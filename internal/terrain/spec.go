package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
)

// Build errors.
var (
	ErrInvalidSpec         = errors.New("invalid terrain spec")
	ErrStructuralIntegrity = errors.New("mesh structural integrity violated")
	ErrUnknownNormalMode   = errors.New("unknown normal mode")
)

// MaxResolution keeps the (Resolution+1)^2 vertex grid addressable by 32-bit indices.
const MaxResolution = 65534

// Spec describes a square terrain centered at the origin.
type Spec struct {
	Size        float32 // full edge length
	Resolution  uint32  // cells per edge
	HeightScale float32 // multiplies sampled heights
}

// GridWidth returns the number of vertices per grid row.
func (s Spec) GridWidth() int {
	return int(s.Resolution) + 1
}

// VertexCount returns the number of grid vertices.
func (s Spec) VertexCount() int {
	return s.GridWidth() * s.GridWidth()
}

// TriangleCount returns the number of grid triangles.
func (s Spec) TriangleCount() int {
	return 2 * int(s.Resolution) * int(s.Resolution)
}

// Validate checks the spec before any geometry is built.
func (s Spec) Validate() error {
	if s.Resolution == 0 {
		return fmt.Errorf("%w: resolution must be at least 1", ErrInvalidSpec)
	}
	if s.Resolution > MaxResolution {
		return fmt.Errorf("%w: resolution %d exceeds %d", ErrInvalidSpec, s.Resolution, MaxResolution)
	}
	if !heightfield.Finite(s.Size) || s.Size <= 0 {
		return fmt.Errorf("%w: size must be positive and finite, got %v", ErrInvalidSpec, s.Size)
	}
	if !heightfield.Finite(s.HeightScale) {
		return fmt.Errorf("%w: height scale must be finite, got %v", ErrInvalidSpec, s.HeightScale)
	}
	return nil
}

// NormalMode selects how vertex normals are derived.
type NormalMode int

// Normal modes.
const (
	SmoothNormals NormalMode = iota // shared vertices average adjacent faces
	FlatNormals                     // every triangle gets its own vertices
)

// String returns the config name of the mode.
func (m NormalMode) String() string {
	switch m {
	case SmoothNormals:
		return "smooth"
	case FlatNormals:
		return "flat"
	default:
		return fmt.Sprintf("NormalMode(%d)", int(m))
	}
}

// ParseNormalMode converts a config name to a NormalMode.
func ParseNormalMode(s string) (NormalMode, error) {
	switch s {
	case "smooth", "":
		return SmoothNormals, nil
	case "flat":
		return FlatNormals, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNormalMode, s)
	}
}

func (m NormalMode) valid() bool {
	return m == SmoothNormals || m == FlatNormals
}
