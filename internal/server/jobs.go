package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/labelpress/labelpress/pkg/pipeline"
)

// document is one stored render: the planned sheet and its artifacts,
// kept in memory until the TTL sweeps it.
type document struct {
	ID        string
	Result    *pipeline.Result
	Scale     float64
	CreatedAt time.Time
}

// documents is an in-memory TTL registry keyed by UUID.
type documents struct {
	mu  sync.RWMutex
	ttl time.Duration
	byI map[string]*document
}

func newDocuments(ttl time.Duration) *documents {
	return &documents{
		ttl: ttl,
		byI: make(map[string]*document),
	}
}

// put stores a result and returns its new document ID.
func (d *documents) put(result *pipeline.Result, scale float64) string {
	doc := &document{
		ID:        uuid.NewString(),
		Result:    result,
		Scale:     scale,
		CreatedAt: time.Now(),
	}
	d.mu.Lock()
	d.byI[doc.ID] = doc
	d.mu.Unlock()
	return doc.ID
}

// get returns the document if it exists and has not expired.
func (d *documents) get(id string) (*document, bool) {
	d.mu.RLock()
	doc, ok := d.byI[id]
	d.mu.RUnlock()
	if !ok || time.Since(doc.CreatedAt) > d.ttl {
		return nil, false
	}
	return doc, true
}

// sweep drops expired documents.
func (d *documents) sweep() {
	cutoff := time.Now().Add(-d.ttl)
	d.mu.Lock()
	for id, doc := range d.byI {
		if doc.CreatedAt.Before(cutoff) {
			delete(d.byI, id)
		}
	}
	d.mu.Unlock()
}

// startSweeper sweeps periodically until the returned stop func is called.
func (d *documents) startSweeper() func() {
	interval := d.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				d.sweep()
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
