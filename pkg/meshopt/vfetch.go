package meshopt

// OptimizeVertexFetchRemap numbers vertices in order of first reference in
// indices. Vertices that are never referenced map to Unused.
func OptimizeVertexFetchRemap(indices []uint32, vertexCount int) ([]uint32, int, error) {
	if err := ValidateIndices(indices, vertexCount); err != nil {
		return nil, 0, err
	}

	remap := make([]uint32, vertexCount)
	for i := range remap {
		remap[i] = Unused
	}

	next := uint32(0)
	for _, v := range indices {
		if remap[v] == Unused {
			remap[v] = next
			next++
		}
	}
	return remap, int(next), nil
}

// OptimizeVertexFetch reorders vertices so that they are stored in the order
// the index stream first touches them, and rewrites indices to match.
// Unreferenced vertices are dropped.
func OptimizeVertexFetch[V any](indices []uint32, vertices []V) ([]uint32, []V, error) {
	remap, unique, err := OptimizeVertexFetchRemap(indices, len(vertices))
	if err != nil {
		return nil, nil, err
	}

	newIndices, err := RemapIndexBuffer(indices, remap)
	if err != nil {
		return nil, nil, err
	}
	newVertices, err := RemapVertexBuffer(vertices, unique, remap)
	if err != nil {
		return nil, nil, err
	}
	return newIndices, newVertices, nil
}
