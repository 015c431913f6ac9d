package locate

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

// Cache maps institution names to resolved coordinates for the lifetime of
// one resolver run. Unknown results are cached like any other.
type Cache struct {
	m cmap.ConcurrentMap[string, collab.Coordinates]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{m: cmap.New[collab.Coordinates]()}
}

// Get returns the cached coordinates for name.
func (c *Cache) Get(name string) (collab.Coordinates, bool) {
	return c.m.Get(name)
}

// Set stores coordinates for name.
func (c *Cache) Set(name string, coords collab.Coordinates) {
	c.m.Set(name, coords)
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	return c.m.Count()
}
