package cli

import (
	"context"
	"testing"

	"github.com/labelpress/labelpress/pkg/observability"
)

func TestFitCollector(t *testing.T) {
	c := &fitCollector{}
	restore := c.install()
	defer restore()

	observability.Render().OnDegradedFit(context.Background(), 2)
	observability.Render().OnDegradedFit(context.Background(), 1)
	observability.Render().OnResourceMissing(context.Background(), "image", "/tmp/missing.png")

	if c.degraded != 3 {
		t.Errorf("degraded = %d, want 3", c.degraded)
	}
	if len(c.missing) != 1 {
		t.Errorf("missing = %v, want one entry", c.missing)
	}

	// Summarize with collected warnings must not panic.
	c.summarize()
}

func TestFitCollectorRestore(t *testing.T) {
	c := &fitCollector{}
	restore := c.install()
	restore()

	// After restore the process hooks are no-ops again; firing them must
	// not reach the collector.
	observability.Render().OnDegradedFit(context.Background(), 5)
	if c.degraded != 0 {
		t.Errorf("degraded = %d after restore, want 0", c.degraded)
	}
}
