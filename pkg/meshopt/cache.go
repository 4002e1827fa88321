package meshopt

// FIFOCache simulates a post-transform vertex cache with first-in first-out
// replacement. A hit does not refresh an entry; only misses insert.
//
// Membership is answered in O(1) from per-vertex insertion stamps: a vertex is
// cached while fewer than Size() newer vertices were inserted after it.
type FIFOCache struct {
	ring  []uint32
	head  int
	count int
	stamp []uint64 // insertion clock per vertex, 0 = never inserted
	clock uint64
}

// NewFIFOCache creates a cache of size entries for vertex ids below vertexCount.
func NewFIFOCache(size, vertexCount int) *FIFOCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &FIFOCache{
		ring:  make([]uint32, size),
		stamp: make([]uint64, vertexCount),
	}
}

// Size returns the cache capacity.
func (c *FIFOCache) Size() int {
	return len(c.ring)
}

// Len returns the number of cached vertices.
func (c *FIFOCache) Len() int {
	return c.count
}

// Contains reports whether v is cached.
func (c *FIFOCache) Contains(v uint32) bool {
	s := c.stamp[v]
	return s != 0 && c.clock-s < uint64(len(c.ring))
}

// Age returns how many vertices were inserted after v, or -1 if v is not cached.
func (c *FIFOCache) Age(v uint32) int {
	if !c.Contains(v) {
		return -1
	}
	return int(c.clock - c.stamp[v])
}

// Touch simulates fetching v. It returns true on a cache hit; on a miss v is
// inserted and the oldest entry is evicted when the cache is full.
func (c *FIFOCache) Touch(v uint32) bool {
	if c.Contains(v) {
		return true
	}
	c.clock++
	c.stamp[v] = c.clock
	c.ring[c.head] = v
	c.head = (c.head + 1) % len(c.ring)
	if c.count < len(c.ring) {
		c.count++
	}
	return false
}

// Entries returns the cached vertex ids in ring order, not age order.
// The slice aliases the cache and is valid until the next Touch.
func (c *FIFOCache) Entries() []uint32 {
	return c.ring[:c.count]
}
