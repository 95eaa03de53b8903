package fsmx_test

import (
	"sync"
	"testing"

	. "github.com/comalice/fsmx"
)

func TestContextBasicOperations(t *testing.T) {
	c := NewContext()

	if v := c.Get("missing"); v != nil {
		t.Errorf("expected nil for missing key, got %v", v)
	}

	c.Set("count", 3)
	if v := c.Get("count"); v != 3 {
		t.Errorf("expected 3, got %v", v)
	}

	c.Delete("count")
	if v := c.Get("count"); v != nil {
		t.Errorf("expected nil after delete, got %v", v)
	}
}

func TestContextSnapshotIsDefensiveCopy(t *testing.T) {
	c := NewContext()
	c.Set("mode", "auto")

	snapshot := c.Snapshot()
	snapshot["mode"] = "manual"

	if v := c.Get("mode"); v != "auto" {
		t.Errorf("expected snapshot mutation not to leak, got %v", v)
	}
}

func TestContextRestore(t *testing.T) {
	c := NewContext()
	c.Set("stale", true)

	c.Restore(map[string]any{"fresh": 1})
	if v := c.Get("stale"); v != nil {
		t.Errorf("expected stale key gone, got %v", v)
	}
	if v := c.Get("fresh"); v != 1 {
		t.Errorf("expected fresh key, got %v", v)
	}

	c.Restore(nil)
	if v := c.Get("fresh"); v != nil {
		t.Errorf("expected nil restore to clear, got %v", v)
	}
}

func TestContextConcurrentAccess(t *testing.T) {
	c := NewContext()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("key", n)
				_ = c.Get("key")
				_ = c.Snapshot()
			}
		}(i)
	}
	wg.Wait()
}
