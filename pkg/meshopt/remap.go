package meshopt

import "fmt"

// GenerateVertexRemap merges vertices with equal keys.
//
// keys holds one comparable key per vertex; callers build keys from the bit
// patterns of the vertex attributes so that only bit-identical vertices merge.
// The returned table maps every old vertex to its new index; new indices are
// assigned in order of first appearance, so a mesh without duplicates maps to
// the identity.
func GenerateVertexRemap[K comparable](keys []K) (int, []uint32) {
	remap := make([]uint32, len(keys))
	seen := make(map[K]uint32, len(keys))

	unique := uint32(0)
	for i, k := range keys {
		if idx, ok := seen[k]; ok {
			remap[i] = idx
			continue
		}
		seen[k] = unique
		remap[i] = unique
		unique++
	}
	return int(unique), remap
}

// RemapIndexBuffer rewrites indices through remap.
func RemapIndexBuffer(indices []uint32, remap []uint32) ([]uint32, error) {
	if err := ValidateIndices(indices, len(remap)); err != nil {
		return nil, err
	}

	out := make([]uint32, len(indices))
	for i, idx := range indices {
		r := remap[idx]
		if r == Unused {
			return nil, fmt.Errorf("%w: index %d maps to an unused vertex", ErrIndexOutOfRange, idx)
		}
		out[i] = r
	}
	return out, nil
}

// RemapVertexBuffer compacts vertices into unique slots following remap.
// Vertices mapped to Unused are dropped. When several vertices map to the
// same slot the first one wins; they are expected to be identical.
func RemapVertexBuffer[V any](vertices []V, unique int, remap []uint32) ([]V, error) {
	if len(remap) != len(vertices) {
		return nil, fmt.Errorf("%w: %d entries for %d vertices", ErrRemapLength, len(remap), len(vertices))
	}

	out := make([]V, unique)
	filled := make([]bool, unique)
	for i, r := range remap {
		if r == Unused {
			continue
		}
		if int(r) >= unique {
			return nil, fmt.Errorf("%w: remap target %d, unique count %d", ErrIndexOutOfRange, r, unique)
		}
		if filled[r] {
			continue
		}
		out[r] = vertices[i]
		filled[r] = true
	}
	return out, nil
}
