package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
)

// up is the fallback normal for vertices without a usable face.
var up = mgl32.Vec3{0, 1, 0}

// SurfaceAttributes holds per-vertex shading data, one entry per vertex of
// the mesh it was derived from.
type SurfaceAttributes struct {
	Mode     NormalMode
	Normals  []mgl32.Vec3
	Tangents []mgl32.Vec4 // nil unless tangents were requested

	SkippedNormalFaces  int
	SkippedTangentFaces int
	// Vertices whose normal or tangent could not be derived from any face and
	// were given a fallback value instead.
	DegenerateNormals  []uint32
	DegenerateTangents []uint32
}

// SplitFlat gives every triangle its own three vertices so that each can
// carry the face normal. Triangle order and winding are kept.
func SplitFlat(mesh *Mesh) *Mesh {
	vertices := make([]Vertex, len(mesh.Indices))
	indices := make([]uint32, len(mesh.Indices))
	for i, idx := range mesh.Indices {
		vertices[i] = mesh.Vertices[idx]
		indices[i] = uint32(i)
	}
	return &Mesh{Vertices: vertices, Indices: indices, Bounds: mesh.Bounds}
}

// DeriveAttributes computes normals and, optionally, tangents.
//
// Face normals are cross(p1-p0, p2-p0), so their length is twice the
// triangle area and summing them weights faces by area. Smooth mode sums the
// faces around each shared vertex. Flat mode first splits the mesh with
// SplitFlat, after which each vertex sees exactly one face. The mesh the
// attributes belong to is returned alongside them.
//
// Sums are gathered per vertex in ascending triangle order, so results do
// not depend on the number of workers.
func DeriveAttributes(mesh *Mesh, mode NormalMode, tangents bool, workers int) (*Mesh, *SurfaceAttributes, error) {
	if !mode.valid() {
		return nil, nil, fmt.Errorf("%w: %w: %d", ErrInvalidSpec, ErrUnknownNormalMode, int(mode))
	}
	if err := validateMesh(mesh); err != nil {
		return nil, nil, err
	}
	if mode == FlatNormals {
		mesh = SplitFlat(mesh)
	}

	triCount := mesh.TriangleCount()
	adj := buildVertexFaces(mesh.Indices, len(mesh.Vertices))

	faceNormals := make([]mgl32.Vec3, triCount)
	skipped := make([]int, shardCount(triCount, workers))
	forShards(triCount, workers, func(shard, start, end int) {
		for t := start; t < end; t++ {
			p0, p1, p2 := mesh.corners(t)
			n := p1.Sub(p0).Cross(p2.Sub(p0))
			if !usable(n) {
				skipped[shard]++
				continue
			}
			faceNormals[t] = n
		}
	})

	attrs := &SurfaceAttributes{
		Mode:    mode,
		Normals: make([]mgl32.Vec3, len(mesh.Vertices)),
	}
	for _, n := range skipped {
		attrs.SkippedNormalFaces += n
	}

	vertexCount := len(mesh.Vertices)
	degenerate := make([][]uint32, shardCount(vertexCount, workers))
	forShards(vertexCount, workers, func(shard, start, end int) {
		for v := start; v < end; v++ {
			var sum mgl32.Vec3
			for _, t := range adj.faces(v) {
				sum = sum.Add(faceNormals[t])
			}
			if !usable(sum) {
				attrs.Normals[v] = up
				degenerate[shard] = append(degenerate[shard], uint32(v))
				continue
			}
			attrs.Normals[v] = sum.Normalize()
		}
	})
	attrs.DegenerateNormals = flatten(degenerate)

	if tangents {
		deriveTangents(mesh, adj, attrs, workers)
	}
	return mesh, attrs, nil
}

// deriveTangents solves each triangle's UV-to-position mapping, accumulates
// the u and v directions per vertex and orthogonalizes against the normal.
// The w component is the bitangent sign: bitangent = w * cross(normal, tangent).
func deriveTangents(mesh *Mesh, adj *vertexFaces, attrs *SurfaceAttributes, workers int) {
	triCount := mesh.TriangleCount()
	sdirs := make([]mgl32.Vec3, triCount)
	tdirs := make([]mgl32.Vec3, triCount)

	skipped := make([]int, shardCount(triCount, workers))
	forShards(triCount, workers, func(shard, start, end int) {
		for t := start; t < end; t++ {
			i0, i1, i2 := mesh.Indices[t*3], mesh.Indices[t*3+1], mesh.Indices[t*3+2]
			v0, v1, v2 := mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2]

			e1 := v1.Position.Sub(v0.Position)
			e2 := v2.Position.Sub(v0.Position)
			d1 := v1.TexCoord.Sub(v0.TexCoord)
			d2 := v2.TexCoord.Sub(v0.TexCoord)

			det := d1[0]*d2[1] - d2[0]*d1[1]
			if det == 0 {
				skipped[shard]++
				continue
			}
			r := 1 / det
			sdir := e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(r)
			tdir := e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(r)
			if !usable(sdir) || !usable(tdir) {
				skipped[shard]++
				continue
			}
			sdirs[t], tdirs[t] = sdir, tdir
		}
	})
	for _, n := range skipped {
		attrs.SkippedTangentFaces += n
	}

	vertexCount := len(mesh.Vertices)
	attrs.Tangents = make([]mgl32.Vec4, vertexCount)
	degenerate := make([][]uint32, shardCount(vertexCount, workers))
	forShards(vertexCount, workers, func(shard, start, end int) {
		for v := start; v < end; v++ {
			var s, tb mgl32.Vec3
			for _, t := range adj.faces(v) {
				s = s.Add(sdirs[t])
				tb = tb.Add(tdirs[t])
			}

			n := attrs.Normals[v]
			tangent := s.Sub(n.Mul(n.Dot(s)))
			if !usable(tangent) {
				attrs.Tangents[v] = perpendicular(n).Vec4(1)
				degenerate[shard] = append(degenerate[shard], uint32(v))
				continue
			}
			tangent = tangent.Normalize()

			w := float32(1)
			if n.Cross(tangent).Dot(tb) < 0 {
				w = -1
			}
			attrs.Tangents[v] = tangent.Vec4(w)
		}
	})
	attrs.DegenerateTangents = flatten(degenerate)
}

// perpendicular returns a unit vector orthogonal to n.
func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if abs32(n[0]) > 0.9 {
		axis = mgl32.Vec3{0, 0, 1}
	}
	return axis.Sub(n.Mul(n.Dot(axis))).Normalize()
}

// usable reports whether v is finite and not zero.
func usable(v mgl32.Vec3) bool {
	lsq := v.Dot(v)
	return lsq > 0 && heightfield.Finite(lsq)
}

func (m *Mesh) corners(t int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	return m.Vertices[m.Indices[t*3]].Position,
		m.Vertices[m.Indices[t*3+1]].Position,
		m.Vertices[m.Indices[t*3+2]].Position
}

// vertexFaces lists, per vertex, the triangles that reference it in
// ascending order.
type vertexFaces struct {
	offsets []uint32
	tris    []uint32
}

func buildVertexFaces(indices []uint32, vertexCount int) *vertexFaces {
	offsets := make([]uint32, vertexCount+1)
	for _, v := range indices {
		offsets[v+1]++
	}
	for v := range vertexCount {
		offsets[v+1] += offsets[v]
	}

	fill := make([]uint32, vertexCount)
	copy(fill, offsets[:vertexCount])
	tris := make([]uint32, len(indices))
	for i, v := range indices {
		tris[fill[v]] = uint32(i / 3)
		fill[v]++
	}
	return &vertexFaces{offsets: offsets, tris: tris}
}

func (a *vertexFaces) faces(v int) []uint32 {
	return a.tris[a.offsets[v]:a.offsets[v+1]]
}

func flatten(shards [][]uint32) []uint32 {
	var out []uint32
	for _, s := range shards {
		out = append(out, s...)
	}
	return out
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
