package terrain

import (
	"fmt"
	"math"

	"github.com/Faultbox/midgard-terrain/pkg/meshopt"
)

// OptimizeResult carries the optimized mesh and what the passes observed.
type OptimizeResult struct {
	Mesh               *Mesh
	MergedVertices     int
	CollapsedTriangles int
	CacheBefore        meshopt.CacheStats
	CacheAfter         meshopt.CacheStats
}

// Optimize deduplicates vertices and reorders triangles and vertices for
// vertex cache and fetch locality. The rendered surface is unchanged: the
// result holds the same triangles with the same winding and attributes.
//
// With optimize false only validation and degenerate removal run, keeping the
// builder's order.
func Optimize(mesh *Mesh, optimize bool, cacheSize int) (*OptimizeResult, error) {
	if err := validateMesh(mesh); err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = meshopt.DefaultCacheSize
	}

	before, err := meshopt.AnalyzeVertexCache(mesh.Indices, len(mesh.Vertices), cacheSize)
	if err != nil {
		return nil, structural(err)
	}

	if !optimize {
		indices, collapsed := meshopt.DropDegenerate(mesh.Indices)
		out := &Mesh{Vertices: mesh.Vertices, Indices: indices, Bounds: mesh.Bounds}
		return &OptimizeResult{
			Mesh:               out,
			CollapsedTriangles: collapsed,
			CacheBefore:        before,
			CacheAfter:         before,
		}, nil
	}

	// Vertex remap over bit patterns so only identical vertices merge.
	keys := make([]vertexKey, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		keys[i] = keyOf(v)
	}
	unique, remap := meshopt.GenerateVertexRemap(keys)

	indices, err := meshopt.RemapIndexBuffer(mesh.Indices, remap)
	if err != nil {
		return nil, structural(err)
	}
	vertices, err := meshopt.RemapVertexBuffer(mesh.Vertices, unique, remap)
	if err != nil {
		return nil, structural(err)
	}
	indices, collapsed := meshopt.DropDegenerate(indices)

	indices, err = meshopt.OptimizeVertexCache(indices, len(vertices), cacheSize)
	if err != nil {
		return nil, structural(err)
	}
	indices, vertices, err = meshopt.OptimizeVertexFetch(indices, vertices)
	if err != nil {
		return nil, structural(err)
	}

	after, err := meshopt.AnalyzeVertexCache(indices, len(vertices), cacheSize)
	if err != nil {
		return nil, structural(err)
	}

	return &OptimizeResult{
		Mesh:               &Mesh{Vertices: vertices, Indices: indices, Bounds: mesh.Bounds},
		MergedVertices:     len(mesh.Vertices) - unique,
		CollapsedTriangles: collapsed,
		CacheBefore:        before,
		CacheAfter:         after,
	}, nil
}

// vertexKey is the bit pattern of a vertex's position and UV.
type vertexKey [5]uint32

func keyOf(v Vertex) vertexKey {
	return vertexKey{
		math.Float32bits(v.Position[0]),
		math.Float32bits(v.Position[1]),
		math.Float32bits(v.Position[2]),
		math.Float32bits(v.TexCoord[0]),
		math.Float32bits(v.TexCoord[1]),
	}
}

func validateMesh(mesh *Mesh) error {
	if mesh == nil {
		return fmt.Errorf("%w: nil mesh", ErrStructuralIntegrity)
	}
	if err := meshopt.ValidateIndices(mesh.Indices, len(mesh.Vertices)); err != nil {
		return structural(err)
	}
	return nil
}

func structural(err error) error {
	return fmt.Errorf("%w: %w", ErrStructuralIntegrity, err)
}
