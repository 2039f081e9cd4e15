package hwaccel

import (
	"context"
	"sync"

	gcache "github.com/Code-Hex/go-generics-cache"
)

// CapabilityCache memoizes detection results keyed by engine-binary path.
// It is an explicit value passed into callers rather than a module-level
// singleton, keeping the compiler pure and independently testable. Callers
// needing fresh detection (e.g. after a driver install) call Invalidate.
type CapabilityCache struct {
	mu    sync.Mutex
	store *gcache.Cache[string, Detection]
}

func NewCapabilityCache() *CapabilityCache {
	return &CapabilityCache{
		store: gcache.New[string, Detection](),
	}
}

// Get returns the memoized detection for the detector's binary, running
// detection on the first call.
func (c *CapabilityCache) Get(ctx context.Context, d *Detector) Detection {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.store.Get(d.Binary); ok {
		return cached
	}
	detection := d.Detect(ctx)
	c.store.Set(d.Binary, detection)
	return detection
}

// Invalidate forces re-detection for the given binary on the next Get.
func (c *CapabilityCache) Invalidate(binary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(binary)
}
