package terrain

import (
	"math"

	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
)

// Heightmap provides terrain height lookup over the sampled grid.
type Heightmap struct {
	Heights    []float32 // row-major, (Resolution+1)^2 samples
	Resolution uint32
	Size       float32
}

// BuildHeightmap captures grid heights from a mesh produced by BuildGrid,
// before optimization reorders its vertices.
func BuildHeightmap(spec Spec, grid *Mesh) *Heightmap {
	heights := make([]float32, len(grid.Vertices))
	for i, v := range grid.Vertices {
		heights[i] = v.Position[1]
	}
	return &Heightmap{
		Heights:    heights,
		Resolution: spec.Resolution,
		Size:       spec.Size,
	}
}

// HeightAt returns the bilinearly interpolated height at world (x, z).
// It reports false outside the terrain extent and for non-finite coordinates.
func (h *Heightmap) HeightAt(x, z float32) (float32, bool) {
	if h == nil || h.Resolution == 0 {
		return 0, false
	}

	if !heightfield.Finite(x) || !heightfield.Finite(z) {
		return 0, false
	}

	half := h.Size / 2
	if x < -half || x > half || z < -half || z > half {
		return 0, false
	}

	res := float32(h.Resolution)
	gx := (x/h.Size + 0.5) * res
	gz := (z/h.Size + 0.5) * res

	col := int(math.Floor(float64(gx)))
	row := int(math.Floor(float64(gz)))
	col = clampi(col, 0, int(h.Resolution)-1)
	row = clampi(row, 0, int(h.Resolution)-1)

	fx := clampf(gx-float32(col), 0, 1)
	fz := clampf(gz-float32(row), 0, 1)

	width := int(h.Resolution) + 1
	tl := h.Heights[row*width+col]
	tr := h.Heights[row*width+col+1]
	bl := h.Heights[(row+1)*width+col]
	br := h.Heights[(row+1)*width+col+1]

	top := tl*(1-fx) + tr*fx
	bottom := bl*(1-fx) + br*fx
	return top*(1-fz) + bottom*fz, true
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
