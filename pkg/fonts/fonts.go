// Package fonts provides font metrics and family resolution for label
// rendering.
//
// Width tables for the built-in faces are compiled into the binary, making
// text measurement available without external font files. Script-specific
// faces (Bengali, symbols) may be backed by a TTF file registered at
// startup; measurement for registered faces uses the default table, which
// is sufficient for the short centred strings they carry.
package fonts

import (
	"os"
	"regexp"
	"sort"

	"github.com/labelpress/labelpress/pkg/errors"
)

// Family names the built-in standard faces.
type Family string

const (
	Helvetica     Family = "Helvetica"
	HelveticaBold Family = "Helvetica-Bold"
	Courier       Family = "Courier"
)

// DefaultFamily is the fallback face for unknown keys and unregistered
// script aliases.
const DefaultFamily = Helvetica

// Face keys for script-resolved lookups.
const (
	KeyBengali = "bengali"
	KeySymbols = "symbols"
)

var bengaliRange = regexp.MustCompile(`[\x{0980}-\x{09FF}]`)

// ContainsBengali reports whether s contains any code point in the Bengali
// Unicode block.
func ContainsBengali(s string) bool {
	return bengaliRange.MatchString(s)
}

// Resolve returns the face key for s: KeyBengali when the text contains
// Bengali script, KeySymbols otherwise. The returned key always resolves to
// some face in a Table.
func Resolve(s string) string {
	if ContainsBengali(s) {
		return KeyBengali
	}
	return KeySymbols
}

// Face is one renderable font face: its PDF base family, optional TTF file
// backing it, and the metrics used for measurement.
type Face struct {
	Family  Family
	Path    string // non-empty for faces registered from a TTF file
	Metrics *Metrics
}

// Table maps face keys to faces. The zero value is not usable; construct
// with NewTable. A Table is built once at startup and treated as read-only
// during rendering.
type Table struct {
	faces map[string]Face
}

// NewTable returns a table with the built-in faces registered under their
// family names and the script aliases pointing at the default family.
func NewTable() *Table {
	t := &Table{faces: make(map[string]Face)}
	t.faces[string(Helvetica)] = Face{Family: Helvetica, Metrics: newHelvetica()}
	t.faces[string(HelveticaBold)] = Face{Family: HelveticaBold, Metrics: newHelveticaBold()}
	t.faces[string(Courier)] = Face{Family: Courier, Metrics: newCourier()}
	t.faces[KeyBengali] = t.faces[string(DefaultFamily)]
	t.faces[KeySymbols] = t.faces[string(DefaultFamily)]
	return t
}

// Face returns the face registered under key, falling back to the default
// family for unknown keys. It never fails; a missing face is a fallback,
// not an error.
func (t *Table) Face(key string) Face {
	if f, ok := t.faces[key]; ok {
		return f
	}
	return t.faces[string(DefaultFamily)]
}

// RegisterTTF binds key to a TTF file on disk. Surfaces load the file when
// the face is first used. The file must exist at registration time.
func (t *Table) RegisterTTF(key, path string) error {
	if key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "font key must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeResourceMissing, err, "font file %q not found", path)
	}
	t.faces[key] = Face{
		Family:  Family(key),
		Path:    path,
		Metrics: t.faces[string(DefaultFamily)].Metrics,
	}
	return nil
}

// Registered returns the keys of faces backed by a TTF file, sorted.
// Surfaces use it to load the files before drawing.
func (t *Table) Registered() []string {
	var keys []string
	for k, f := range t.faces {
		if f.Path != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Measure returns the rendered width of text in the face registered under
// key at the given size, in points.
func (t *Table) Measure(text, key string, size float64) float64 {
	return t.Face(key).Metrics.Measure(text, size)
}
