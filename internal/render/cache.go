package render

import (
	"crypto/sha256"
	"encoding/json"
	"sync"

	"productdesc/internal/domain"
)

// Cache memoizes Render by a content hash of the document's blocks.
// A miss or an unhashable document just renders again.
type Cache struct {
	mu   sync.Mutex
	key  [sha256.Size]byte
	html string
	warm bool
}

// Render returns Render(doc), reusing the last output when the blocks
// are unchanged.
func (c *Cache) Render(doc domain.ProductDescription) string {
	raw, err := json.Marshal(doc.Blocks)
	if err != nil {
		return Render(doc)
	}
	key := sha256.Sum256(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warm && key == c.key {
		return c.html
	}
	c.html = Render(doc)
	c.key = key
	c.warm = true
	return c.html
}

// Reset drops the cached output.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.warm = false
	c.html = ""
	c.mu.Unlock()
}
