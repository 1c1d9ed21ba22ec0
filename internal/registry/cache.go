package registry

import (
	"os"
	"sync"
	"time"
)

// statFunc returns the modification time of the file at path.
// Swappable in tests.
type statFunc func(path string) (time.Time, error)

func osStat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Cache provides thread-safe node id to display name resolution backed by
// the registry file. The file is re-read only when its modification time
// moves strictly past the last load, so repeated lookups inside a
// collection cycle cost one stat each.
type Cache struct {
	mu     sync.Mutex
	path   string
	stat   statFunc
	names  map[string]string
	loaded time.Time
}

// NewCache creates a cache over the registry file at path. No file read
// happens until the first Resolve.
func NewCache(path string) *Cache {
	return &Cache{
		path: path,
		stat: osStat,
	}
}

// Resolve returns a human-readable name for the given node id:
// "user (hardware)" when both are known, "user" when only the user is,
// and the id itself when the node is absent from the registry or the
// registry cannot be read.
func (c *Cache) Resolve(nodeID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refresh()

	if name, ok := c.names[nodeID]; ok && name != "" {
		return name
	}
	return nodeID
}

// Size returns the number of nodes currently resolvable by name.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refresh()
	return len(c.names)
}

// refresh rebuilds the name map when the registry file changed since the
// last load. The rebuild is destructive: nodes that vanished from the
// file vanish from the cache. Callers must hold c.mu.
func (c *Cache) refresh() {
	mtime, err := c.stat(c.path)
	if err != nil {
		// Missing or unreadable registry: keep whatever we had.
		if c.names == nil {
			c.names = map[string]string{}
		}
		return
	}
	if c.names != nil && !mtime.After(c.loaded) {
		return
	}

	entries, err := ReadRegistry(c.path)
	if err != nil {
		if c.names == nil {
			c.names = map[string]string{}
		}
		return
	}

	names := make(map[string]string, len(entries))
	for _, e := range entries {
		names[e.ID] = displayName(e)
	}
	c.names = names
	c.loaded = mtime
}

// displayName formats an entry for human consumption.
func displayName(e Entry) string {
	user := e.User
	if user == "" || user == "N/A" {
		return ""
	}
	hw := e.Hardware
	if hw == "" || hw == "N/A" || hw == "UNSET" {
		return user
	}
	return user + " (" + hw + ")"
}
