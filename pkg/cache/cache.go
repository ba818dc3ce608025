// Package cache provides content-addressed caching for the render
// pipeline.
//
// Two things are cached: the planned sheet (the JSON layout produced from
// a dataset and template) and the rendered artifacts derived from it
// (PDF, PNG, JSON bytes). Keys are derived from content hashes, so a
// changed dataset or template naturally misses and re-renders, while an
// unchanged input replays the stored bytes.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Plans are cheap to rebuild and invalidated
// by any input change, so they expire sooner than artifacts.
const (
	TTLPlan     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface for cached bytes. Get reports a miss
// with (nil, false, nil); errors are reserved for real storage failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PlanKeyOpts captures the inputs beyond the dataset content that shape a
// planned sheet.
type PlanKeyOpts struct {
	Template string // template file path, or "" for the builtin
	Rows     string // 1-based row selection, "" for all rows
}

// ArtifactKeyOpts captures the render settings that shape an output
// artifact derived from a plan.
type ArtifactKeyOpts struct {
	Format string  // pdf, png or json
	Scale  float64 // raster scale, ignored by vector formats
	Page   int     // 1-based page for single-page formats
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// PlanKey returns the key for a planned sheet built from the dataset
	// with the given content hash.
	PlanKey(datasetHash string, opts PlanKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from the plan
	// with the given hash.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key, so any change in template,
// row selection or render settings produces a distinct entry.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) PlanKey(datasetHash string, opts PlanKeyOpts) string {
	return hashKey("plan", datasetHash, opts.Template, opts.Rows)
}

func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts.Format, opts.Scale, opts.Page)
}
