package meshopt

import (
	"errors"
	"testing"
)

// gridIndices triangulates a res x res cell grid laid out row-major.
func gridIndices(res int) []uint32 {
	width := uint32(res + 1)
	var indices []uint32
	for row := uint32(0); row < uint32(res); row++ {
		for col := uint32(0); col < uint32(res); col++ {
			tl := row*width + col
			tr := tl + 1
			bl := tl + width
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}
	return indices
}

// canonical rotates a triangle so its smallest index comes first, keeping winding.
func canonical(a, b, c uint32) [3]uint32 {
	switch {
	case a <= b && a <= c:
		return [3]uint32{a, b, c}
	case b <= a && b <= c:
		return [3]uint32{b, c, a}
	default:
		return [3]uint32{c, a, b}
	}
}

func triangleSet(indices []uint32) map[[3]uint32]int {
	set := make(map[[3]uint32]int)
	for i := 0; i < len(indices); i += 3 {
		set[canonical(indices[i], indices[i+1], indices[i+2])]++
	}
	return set
}

func sameTriangles(t *testing.T, want, got []uint32) {
	t.Helper()
	ws, gs := triangleSet(want), triangleSet(got)
	if len(ws) != len(gs) {
		t.Fatalf("expected %d distinct triangles, got %d", len(ws), len(gs))
	}
	for tri, n := range ws {
		if gs[tri] != n {
			t.Fatalf("triangle %v: expected count %d, got %d", tri, n, gs[tri])
		}
	}
}

func TestValidateIndices(t *testing.T) {
	tests := []struct {
		name        string
		indices     []uint32
		vertexCount int
		want        error
	}{
		{"empty", nil, 0, nil},
		{"valid", []uint32{0, 1, 2}, 3, nil},
		{"partial triangle", []uint32{0, 1}, 3, ErrIndexCount},
		{"out of range", []uint32{0, 1, 3}, 3, ErrIndexOutOfRange},
		{"no vertices", []uint32{0, 0, 0}, 0, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndices(tt.indices, tt.vertexCount)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDropDegenerate(t *testing.T) {
	indices := []uint32{0, 1, 2, 3, 3, 4, 5, 6, 5, 7, 8, 9}
	out, dropped := DropDegenerate(indices)
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
	want := []uint32{0, 1, 2, 7, 8, 9}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}
}

func TestGenerateVertexRemap(t *testing.T) {
	keys := []string{"a", "b", "a", "c", "b"}
	unique, remap := GenerateVertexRemap(keys)
	if unique != 3 {
		t.Fatalf("expected 3 unique vertices, got %d", unique)
	}
	want := []uint32{0, 1, 0, 2, 1}
	for i := range want {
		if remap[i] != want[i] {
			t.Errorf("remap[%d]: expected %d, got %d", i, want[i], remap[i])
		}
	}
}

func TestGenerateVertexRemapIdempotent(t *testing.T) {
	keys := []int{10, 20, 30, 40}
	unique, remap := GenerateVertexRemap(keys)
	if unique != len(keys) {
		t.Fatalf("expected %d unique, got %d", len(keys), unique)
	}
	for i, r := range remap {
		if r != uint32(i) {
			t.Errorf("expected identity at %d, got %d", i, r)
		}
	}
}

func TestRemapBuffers(t *testing.T) {
	vertices := []string{"a", "b", "a", "c"}
	indices := []uint32{0, 1, 3, 2, 3, 1}

	unique, remap := GenerateVertexRemap(vertices)
	newIndices, err := RemapIndexBuffer(indices, remap)
	if err != nil {
		t.Fatalf("RemapIndexBuffer failed: %v", err)
	}
	newVertices, err := RemapVertexBuffer(vertices, unique, remap)
	if err != nil {
		t.Fatalf("RemapVertexBuffer failed: %v", err)
	}

	if len(newVertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(newVertices))
	}
	if len(newIndices) != len(indices) {
		t.Fatalf("expected %d indices, got %d", len(indices), len(newIndices))
	}
	for i := range indices {
		if vertices[indices[i]] != newVertices[newIndices[i]] {
			t.Errorf("index %d: expected vertex %q, got %q", i, vertices[indices[i]], newVertices[newIndices[i]])
		}
	}
}

func TestRemapIndexBufferOutOfRange(t *testing.T) {
	_, err := RemapIndexBuffer([]uint32{0, 1, 5}, []uint32{0, 1, 2})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRemapVertexBufferLength(t *testing.T) {
	_, err := RemapVertexBuffer([]int{1, 2}, 2, []uint32{0})
	if !errors.Is(err, ErrRemapLength) {
		t.Errorf("expected ErrRemapLength, got %v", err)
	}
}

func TestFIFOCache(t *testing.T) {
	c := NewFIFOCache(2, 4)
	if c.Touch(0) {
		t.Error("expected miss on first touch")
	}
	if !c.Touch(0) {
		t.Error("expected hit on second touch")
	}
	c.Touch(1)
	if c.Age(0) != 1 || c.Age(1) != 0 {
		t.Errorf("expected ages 1 and 0, got %d and %d", c.Age(0), c.Age(1))
	}

	// FIFO: the hit on 0 did not refresh it, so 0 is evicted first.
	c.Touch(2)
	if c.Contains(0) {
		t.Error("expected vertex 0 to be evicted")
	}
	if !c.Contains(1) || !c.Contains(2) {
		t.Error("expected vertices 1 and 2 to be cached")
	}
	if c.Len() != 2 || c.Size() != 2 {
		t.Errorf("expected len 2 size 2, got %d %d", c.Len(), c.Size())
	}
	if c.Age(3) != -1 {
		t.Errorf("expected age -1 for uncached vertex, got %d", c.Age(3))
	}
}

func TestFIFOCacheEntries(t *testing.T) {
	c := NewFIFOCache(3, 8)
	for _, v := range []uint32{5, 6, 7, 5, 1} {
		c.Touch(v)
	}
	got := make(map[uint32]bool)
	for _, v := range c.Entries() {
		got[v] = true
	}
	for _, v := range []uint32{6, 7, 1} {
		if !got[v] {
			t.Errorf("expected %d in entries %v", v, c.Entries())
		}
	}
	if got[5] {
		t.Errorf("expected 5 to be evicted, entries %v", c.Entries())
	}
}

func TestAnalyzeVertexCache(t *testing.T) {
	// Two triangles sharing an edge: 4 misses.
	stats, err := AnalyzeVertexCache([]uint32{0, 1, 2, 2, 1, 3}, 4, 32)
	if err != nil {
		t.Fatalf("AnalyzeVertexCache failed: %v", err)
	}
	if stats.Misses != 4 {
		t.Errorf("expected 4 misses, got %d", stats.Misses)
	}
	if stats.ACMR != 2 {
		t.Errorf("expected ACMR 2, got %f", stats.ACMR)
	}
	if stats.ATVR != 1 {
		t.Errorf("expected ATVR 1, got %f", stats.ATVR)
	}
}

func TestOptimizeVertexCachePreservesTriangles(t *testing.T) {
	indices := gridIndices(16)
	out, err := OptimizeVertexCache(indices, 17*17, DefaultCacheSize)
	if err != nil {
		t.Fatalf("OptimizeVertexCache failed: %v", err)
	}
	if len(out) != len(indices) {
		t.Fatalf("expected %d indices, got %d", len(indices), len(out))
	}
	sameTriangles(t, indices, out)

	// Triangles are moved whole, never rotated.
	orig := make(map[[3]uint32]bool)
	for i := 0; i < len(indices); i += 3 {
		orig[[3]uint32{indices[i], indices[i+1], indices[i+2]}] = true
	}
	for i := 0; i < len(out); i += 3 {
		if !orig[[3]uint32{out[i], out[i+1], out[i+2]}] {
			t.Fatalf("triangle %v was altered", out[i:i+3])
		}
	}
}

func TestOptimizeVertexCacheImprovesGrid(t *testing.T) {
	const res = 64
	indices := gridIndices(res)
	vertexCount := (res + 1) * (res + 1)

	before, err := AnalyzeVertexCache(indices, vertexCount, DefaultCacheSize)
	if err != nil {
		t.Fatalf("AnalyzeVertexCache failed: %v", err)
	}

	out, err := OptimizeVertexCache(indices, vertexCount, DefaultCacheSize)
	if err != nil {
		t.Fatalf("OptimizeVertexCache failed: %v", err)
	}
	after, err := AnalyzeVertexCache(out, vertexCount, DefaultCacheSize)
	if err != nil {
		t.Fatalf("AnalyzeVertexCache failed: %v", err)
	}

	t.Logf("ACMR before %.3f after %.3f", before.ACMR, after.ACMR)
	if after.ACMR >= before.ACMR {
		t.Errorf("expected ACMR to improve, before %.3f after %.3f", before.ACMR, after.ACMR)
	}
}

func TestOptimizeVertexCacheDeterministic(t *testing.T) {
	indices := gridIndices(20)
	a, _ := OptimizeVertexCache(indices, 21*21, 16)
	b, _ := OptimizeVertexCache(indices, 21*21, 16)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs differ at index %d", i)
		}
	}
}

func TestOptimizeVertexCacheInvalid(t *testing.T) {
	_, err := OptimizeVertexCache([]uint32{0, 1, 9}, 3, DefaultCacheSize)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	_, err = OptimizeVertexCache([]uint32{0, 1}, 3, DefaultCacheSize)
	if !errors.Is(err, ErrIndexCount) {
		t.Errorf("expected ErrIndexCount, got %v", err)
	}
}

func TestOptimizeVertexFetch(t *testing.T) {
	vertices := []string{"v0", "v1", "v2", "v3", "unused"}
	indices := []uint32{3, 1, 2, 2, 1, 0}

	newIndices, newVertices, err := OptimizeVertexFetch(indices, vertices)
	if err != nil {
		t.Fatalf("OptimizeVertexFetch failed: %v", err)
	}
	if len(newVertices) != 4 {
		t.Fatalf("expected unreferenced vertex to be dropped, got %d vertices", len(newVertices))
	}

	// First references are now numbered 0, 1, 2, ...
	next := uint32(0)
	for _, idx := range newIndices {
		if idx > next {
			t.Fatalf("index %d referenced before %d", idx, next)
		}
		if idx == next {
			next++
		}
	}

	for i := range indices {
		if vertices[indices[i]] != newVertices[newIndices[i]] {
			t.Errorf("index %d: expected %q, got %q", i, vertices[indices[i]], newVertices[newIndices[i]])
		}
	}
}

func BenchmarkOptimizeVertexCache(b *testing.B) {
	const res = 256
	indices := gridIndices(res)
	vertexCount := (res + 1) * (res + 1)

	for b.Loop() {
		if _, err := OptimizeVertexCache(indices, vertexCount, DefaultCacheSize); err != nil {
			b.Fatal(err)
		}
	}
}
