package meshopt

// CacheStats describes how a triangle order behaves in a simulated FIFO cache.
type CacheStats struct {
	Misses    int
	Triangles int
	Vertices  int     // distinct vertices referenced
	ACMR      float32 // misses per triangle, 0.5 is optimal for large grids
	ATVR      float32 // misses per referenced vertex, 1.0 is optimal
}

// AnalyzeVertexCache replays indices through a FIFO cache of cacheSize entries.
func AnalyzeVertexCache(indices []uint32, vertexCount, cacheSize int) (CacheStats, error) {
	if err := ValidateIndices(indices, vertexCount); err != nil {
		return CacheStats{}, err
	}

	cache := NewFIFOCache(cacheSize, vertexCount)
	referenced := make([]bool, vertexCount)

	var stats CacheStats
	for _, v := range indices {
		if !cache.Touch(v) {
			stats.Misses++
		}
		if !referenced[v] {
			referenced[v] = true
			stats.Vertices++
		}
	}

	stats.Triangles = len(indices) / 3
	if stats.Triangles > 0 {
		stats.ACMR = float32(stats.Misses) / float32(stats.Triangles)
	}
	if stats.Vertices > 0 {
		stats.ATVR = float32(stats.Misses) / float32(stats.Vertices)
	}
	return stats, nil
}

// OptimizeVertexCache reorders triangles so that consecutive triangles reuse
// vertices still held by a FIFO cache of cacheSize entries.
//
// The order is built greedily. After each emitted triangle, every unscheduled
// triangle touching a cached vertex is a candidate; the candidate with the
// most cached vertices wins, ties going to the lowest original triangle
// index. If no candidate exists the earliest unscheduled triangle is emitted.
// Vertex order inside each triangle is kept, so winding is preserved.
func OptimizeVertexCache(indices []uint32, vertexCount, cacheSize int) ([]uint32, error) {
	if err := ValidateIndices(indices, vertexCount); err != nil {
		return nil, err
	}

	triCount := len(indices) / 3
	out := make([]uint32, 0, len(indices))
	if triCount == 0 {
		return out, nil
	}

	adj := buildAdjacency(indices, vertexCount)
	cache := NewFIFOCache(cacheSize, vertexCount)
	emitted := make([]bool, triCount)
	next := 0

	for range triCount {
		best := pickCached(indices, adj, cache)
		if best < 0 {
			for emitted[next] {
				next++
			}
			best = next
		}
		emitted[best] = true

		tri := indices[best*3 : best*3+3]
		out = append(out, tri...)
		for _, v := range tri {
			adj.remove(v, uint32(best))
			cache.Touch(v)
		}
	}
	return out, nil
}

// pickCached returns the best unscheduled triangle adjacent to a cached
// vertex, or -1 when there is none.
func pickCached(indices []uint32, adj *adjacency, cache *FIFOCache) int {
	best := -1
	bestScore := 0
	for _, v := range cache.Entries() {
		for _, t := range adj.live(v) {
			tri := int(t)
			score := 0
			for _, w := range indices[tri*3 : tri*3+3] {
				if cache.Contains(w) {
					score++
				}
			}
			if score > bestScore || (score == bestScore && tri < best) {
				best, bestScore = tri, score
			}
		}
	}
	return best
}

// adjacency lists, per vertex, the triangles not yet emitted.
// Lists are packed in one array; counts shrink as triangles are removed.
type adjacency struct {
	offsets []uint32
	counts  []uint32
	tris    []uint32
}

func buildAdjacency(indices []uint32, vertexCount int) *adjacency {
	counts := make([]uint32, vertexCount)
	for _, v := range indices {
		counts[v]++
	}

	offsets := make([]uint32, vertexCount+1)
	for v := range vertexCount {
		offsets[v+1] = offsets[v] + counts[v]
	}

	fill := make([]uint32, vertexCount)
	copy(fill, offsets[:vertexCount])
	tris := make([]uint32, len(indices))
	for i, v := range indices {
		tris[fill[v]] = uint32(i / 3)
		fill[v]++
	}

	return &adjacency{offsets: offsets, counts: counts, tris: tris}
}

func (a *adjacency) live(v uint32) []uint32 {
	start := a.offsets[v]
	return a.tris[start : start+a.counts[v]]
}

func (a *adjacency) remove(v, tri uint32) {
	list := a.live(v)
	for i, t := range list {
		if t == tri {
			list[i] = list[len(list)-1]
			a.counts[v]--
			return
		}
	}
}
