// Package terrain builds optimized heightfield terrain meshes, their surface
// attributes and a matching static collision mesh.
package terrain

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/meshopt"
)

// Vertex is a terrain mesh vertex before surface attributes are derived.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns the box size along each axis.
func (b Bounds) Extent() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// RenderVertex is the interleaved layout uploaded to a single vertex buffer.
type RenderVertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Tangent  [4]float32 // xyz + handedness
}

// Interleaved layout of RenderVertex in bytes.
const (
	RenderVertexStride = 48
	PositionOffset     = 0
	NormalOffset       = 12
	TexCoordOffset     = 24
	TangentOffset      = 32
)

// ColliderMesh is a static triangle mesh for a physics backend.
type ColliderMesh struct {
	Vertices  []mgl32.Vec3
	Triangles [][3]uint32
}

// Timings records the wall time spent in each build phase.
type Timings struct {
	Sample     time.Duration
	Optimize   time.Duration
	Attributes time.Duration
	Collider   time.Duration
	Total      time.Duration
}

// Report summarizes a build. Degenerate geometry is counted here instead of
// failing the build.
type Report struct {
	Vertices  int
	Triangles int

	MergedVertices     int // bit-identical vertices folded together
	CollapsedTriangles int // triangles that lost a vertex to merging

	SkippedNormalFaces        int // zero-area faces left out of normal sums
	DegenerateNormalVertices  int // vertices that fell back to an up normal
	SkippedTangentFaces       int // faces with zero UV area
	DegenerateTangentVertices int // vertices that fell back to an arbitrary tangent

	ExcludedColliderTriangles int

	CacheBefore meshopt.CacheStats
	CacheAfter  meshopt.CacheStats

	Timings Timings
}

// Degenerate reports whether any degenerate geometry was found. Merged
// duplicate vertices are not degenerate.
func (r Report) Degenerate() bool {
	return r.CollapsedTriangles > 0 ||
		r.SkippedNormalFaces > 0 || r.DegenerateNormalVertices > 0 ||
		r.SkippedTangentFaces > 0 || r.DegenerateTangentVertices > 0 ||
		r.ExcludedColliderTriangles > 0
}

// Options tune a terrain build.
type Options struct {
	Normals   NormalMode
	Tangents  bool
	Optimize  bool
	CacheSize int // simulated FIFO cache entries, 0 = meshopt.DefaultCacheSize
	Workers   int // parallel sampling and attribute workers, 0 = GOMAXPROCS
	Logger    *zap.Logger
}

// DefaultOptions returns smooth normals with tangents and full optimization.
func DefaultOptions() Options {
	return Options{
		Normals:   SmoothNormals,
		Tangents:  true,
		Optimize:  true,
		CacheSize: meshopt.DefaultCacheSize,
	}
}

// Terrain is the result of a build.
type Terrain struct {
	Spec Spec

	// Mesh is the optimized shared-vertex mesh.
	Mesh *Mesh
	// Render is the mesh the attributes belong to: Mesh itself for smooth
	// normals, a per-triangle split of it for flat normals.
	Render     *Mesh
	Attributes *SurfaceAttributes
	Collider   *ColliderMesh
	Heightmap  *Heightmap

	Report Report
}
