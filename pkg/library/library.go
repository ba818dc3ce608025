// Package library persists the symbol library: the ordered list of symbol
// strings offered by the interactive picker and the server's library API.
//
// Backends:
//   - file: JSON file under the data dir, the CLI default
//   - memory: in-process, for tests and the server's fallback
//   - redis: single JSON value, for multi-instance deployments
//   - mongo: one document per symbol with a position field
//
// All backends keep the same semantics: items stay in insertion order,
// duplicates and blank strings are dropped on Add, and removing an absent
// item reports ErrNotFound.
package library

import (
	"context"
	"os"
	"strings"

	"github.com/labelpress/labelpress/pkg/errors"
)

// ErrNotFound is returned when a removed item is not in the library.
var ErrNotFound = errors.New(errors.ErrCodeItemNotFound, "symbol not in library")

// Store is the interface all library backends implement.
type Store interface {
	// List returns all items in order.
	List(ctx context.Context) ([]string, error)

	// Add appends items that are not already present. Blank or
	// whitespace-only items are silently ignored.
	Add(ctx context.Context, items ...string) error

	// Remove deletes one item. Returns ErrNotFound when absent.
	Remove(ctx context.Context, item string) error

	// Replace overwrites the whole library with the given items, applying
	// the same trim/dedupe normalization as Add.
	Replace(ctx context.Context, items []string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Environment variables selecting and configuring the backend.
const (
	EnvStore    = "LABELPRESS_LIBRARY_STORE"
	EnvRedisURL = "LABELPRESS_REDIS_URL"
	EnvMongoURI = "LABELPRESS_MONGO_URI"
)

// Open creates the store selected by LABELPRESS_LIBRARY_STORE
// (file, memory, redis, mongo; default file). dataDir holds the file
// backend's library.json.
func Open(ctx context.Context, dataDir string) (Store, error) {
	switch kind := os.Getenv(EnvStore); kind {
	case "", "file":
		return NewFileStore(dataDir)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, os.Getenv(EnvRedisURL))
	case "mongo":
		return NewMongoStore(ctx, os.Getenv(EnvMongoURI))
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown library store %q, want file, memory, redis or mongo", kind)
	}
}

// merge appends the normalized new items to existing, skipping blanks and
// anything already present.
func merge(existing, items []string) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(items))
	for _, it := range existing {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// normalize is merge against an empty base: trim, drop blanks, dedupe.
func normalize(items []string) []string {
	return merge(nil, items)
}

// remove returns items without the given entry, reporting whether it was
// present.
func remove(items []string, item string) ([]string, bool) {
	out := items[:0:0]
	found := false
	for _, it := range items {
		if it == item {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
