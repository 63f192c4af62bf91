package board

import (
	"context"
	"sync"
	"time"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
)

const ifaceFetchTimeout = 5 * time.Second

// IfaceCache memoizes per-device interface listings for the slot editor.
// Form option callbacks run on their own goroutine, so access is locked.
type IfaceCache struct {
	mu      sync.Mutex
	catalog api.InterfaceCatalog
	entries map[string][]api.InterfaceInfo
}

// NewIfaceCache creates an empty cache backed by the given catalog.
func NewIfaceCache(catalog api.InterfaceCatalog) *IfaceCache {
	return &IfaceCache{
		catalog: catalog,
		entries: make(map[string][]api.InterfaceInfo),
	}
}

// Names returns interface names for a device, fetching on first use.
// Disabled interfaces are skipped. A fetch failure yields an empty list
// and is not cached, so a later open retries.
func (c *IfaceCache) Names(deviceID string) []string {
	if deviceID == "" {
		return nil
	}

	c.mu.Lock()
	infos, ok := c.entries[deviceID]
	c.mu.Unlock()

	if !ok {
		ctx, cancel := context.WithTimeout(context.Background(), ifaceFetchTimeout)
		defer cancel()

		fetched, err := c.catalog.ListInterfaces(ctx, deviceID)
		if err != nil {
			return nil
		}
		infos = fetched

		c.mu.Lock()
		c.entries[deviceID] = infos
		c.mu.Unlock()
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Disabled {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}

// Invalidate drops the cached listing for a device.
func (c *IfaceCache) Invalidate(deviceID string) {
	c.mu.Lock()
	delete(c.entries, deviceID)
	c.mu.Unlock()
}
