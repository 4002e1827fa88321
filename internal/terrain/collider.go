package terrain

import "github.com/go-gl/mathgl/mgl32"

// ExtractCollider copies positions and groups indices into triangles for a
// static trimesh shape. Triangles that repeat a vertex would destabilize
// narrow-phase collision, so they are left out and counted.
func ExtractCollider(mesh *Mesh) (*ColliderMesh, int, error) {
	if err := validateMesh(mesh); err != nil {
		return nil, 0, err
	}

	vertices := make([]mgl32.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		vertices[i] = v.Position
	}

	triangles := make([][3]uint32, 0, mesh.TriangleCount())
	excluded := 0
	for i := 0; i < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if a == b || b == c || a == c {
			excluded++
			continue
		}
		triangles = append(triangles, [3]uint32{a, b, c})
	}

	return &ColliderMesh{Vertices: vertices, Triangles: triangles}, excluded, nil
}
