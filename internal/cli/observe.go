package cli

import (
	"context"
	"sync"

	"github.com/labelpress/labelpress/pkg/observability"
)

// fitCollector gathers render diagnostics during a pipeline run so the
// command can print one warning summary at the end instead of interleaving
// warnings with progress output.
type fitCollector struct {
	observability.NoopRenderHooks

	mu       sync.Mutex
	degraded int
	missing  []string
}

// install registers the collector as the process render hooks and returns
// a func that restores the no-op defaults.
func (c *fitCollector) install() func() {
	observability.SetRenderHooks(c)
	return observability.Reset
}

func (c *fitCollector) OnDegradedFit(_ context.Context, cells int) {
	c.mu.Lock()
	c.degraded += cells
	c.mu.Unlock()
}

func (c *fitCollector) OnResourceMissing(_ context.Context, kind, path string) {
	c.mu.Lock()
	c.missing = append(c.missing, kind+": "+path)
	c.mu.Unlock()
}

// summarize prints collected warnings. Silent when nothing went wrong.
func (c *fitCollector) summarize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.degraded > 0 {
		printWarning("%d cells overflow even at the minimum font size", c.degraded)
		printDetail("Use 'labelpress inspect' to see which records")
	}
	for _, m := range c.missing {
		printWarning("missing resource %s", m)
	}
}
