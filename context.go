package fsmx

import "sync"

// Context is thread-safe storage for extended state. Handlers are plain
// functions, so per-machine data that must survive transitions (and be
// captured in snapshots) lives here rather than in the handlers themselves.
// The Runtime creates one automatically; see Runtime.Ctx.
type Context struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		data: make(map[string]any),
	}
}

// Get retrieves a value by key. Returns nil if the key does not exist.
func (c *Context) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

// Set stores a value by key.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Delete removes a key from the context.
func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Snapshot returns a defensive copy of all data for serialization.
func (c *Context) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]any, len(c.data))
	for k, v := range c.data {
		snapshot[k] = v
	}
	return snapshot
}

// Restore atomically replaces all data in the context. A nil map clears it.
func (c *Context) Restore(data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data == nil {
		data = make(map[string]any)
	}
	c.data = data
}
