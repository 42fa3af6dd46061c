package normalize

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Cache memoizes Parse by content hash. Raw values handed out are shared and
// must be treated as read-only.
type Cache struct {
	entries map[uint64]Raw
	hits    int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]Raw)}
}

func Checksum(content []byte) uint64 {
	return xxh3.Hash(content)
}

// ChecksumHex is the printable form stored in the upload history.
func ChecksumHex(content []byte) string {
	return fmt.Sprintf("%016x", Checksum(content))
}

func (c *Cache) Parse(content []byte) (Raw, error) {
	key := Checksum(content)
	if raw, ok := c.entries[key]; ok {
		c.hits++
		return raw, nil
	}
	raw, err := Parse(content)
	if err != nil {
		return Raw{}, err
	}
	c.entries[key] = raw
	return raw, nil
}

// Hits returns how many Parse calls were served from the cache.
func (c *Cache) Hits() int {
	return c.hits
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Clear() {
	c.entries = make(map[uint64]Raw)
	c.hits = 0
}
