package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
)

// BuildGrid lays out the (Resolution+1)^2 vertex grid, samples heights and
// triangulates every cell into two triangles.
//
// Vertices are emitted row-major: vertex (row, col) has index
// row*(Resolution+1)+col, position (px, h, pz) and UV (col/res, row/res).
// Rows advance along +Z and columns along +X. Cells are split along the
// top-right to bottom-left diagonal with winding that makes face normals +Y.
func BuildGrid(spec Spec, sample heightfield.Func, workers int) (*Mesh, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, fmt.Errorf("%w: nil height sampler", ErrInvalidSpec)
	}

	width := spec.GridWidth()
	res := float32(spec.Resolution)
	vertices := make([]Vertex, spec.VertexCount())

	// Rows are independent; each shard reports its first bad sample.
	errs := make([]error, shardCount(width, workers))
	forShards(width, workers, func(shard, start, end int) {
		for z := start; z < end; z++ {
			v := float32(z) / res
			pz := spec.Size * (v - 0.5)
			for x := range width {
				u := float32(x) / res
				px := spec.Size * (u - 0.5)

				h := sample(px, pz) * spec.HeightScale
				if !heightfield.Finite(h) {
					errs[shard] = fmt.Errorf("%w: non-finite height %v at grid (%d, %d)", ErrInvalidSpec, h, x, z)
					return
				}

				vertices[z*width+x] = Vertex{
					Position: mgl32.Vec3{px, h, pz},
					TexCoord: mgl32.Vec2{u, v},
				}
			}
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  gridIndices(spec.Resolution),
		Bounds:   computeBounds(vertices),
	}, nil
}

// gridIndices emits (tl, bl, tr) and (tr, bl, br) for each cell, row-major.
func gridIndices(resolution uint32) []uint32 {
	width := resolution + 1
	indices := make([]uint32, 0, int(resolution)*int(resolution)*6)

	for row := range resolution {
		for col := range resolution {
			topLeft := row*width + col
			topRight := topLeft + 1
			bottomLeft := (row+1)*width + col
			bottomRight := bottomLeft + 1

			indices = append(indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight,
			)
		}
	}
	return indices
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for axis := range 3 {
			if v.Position[axis] < b.Min[axis] {
				b.Min[axis] = v.Position[axis]
			}
			if v.Position[axis] > b.Max[axis] {
				b.Max[axis] = v.Position[axis]
			}
		}
	}
	return b
}
