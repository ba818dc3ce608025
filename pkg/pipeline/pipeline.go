// Package pipeline provides the core rendering pipeline for labelpress.
//
// This package implements the complete ingest → plan → render pipeline
// that can be used by CLI and server components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Ingest: Read records from a dataset file or take them inline
//  2. Plan: Build the sheet layout with every font size decided
//  3. Render: Generate output in various formats (PDF, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dataset: "racks.csv",
//	    Formats: []string{"pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/labelpress/labelpress/pkg/cache"
	"github.com/labelpress/labelpress/pkg/dataset"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the raster scale in pixels per point for PNG output.
	DefaultScale = 2.0

	// DefaultPage is the 1-based page rasterized by single-page formats.
	DefaultPage = 1
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Ingest options. A label run takes Dataset or inline Records; a
	// symbol run takes Text or ImagePath.
	Dataset string           `json:"dataset,omitempty"` // dataset file path
	Records []dataset.Record `json:"records,omitempty"` // inline records (API)
	Rows    string           `json:"rows,omitempty"`    // 1-based selection like "1,3-5"

	Text      string `json:"text,omitempty"`       // symbol text, tiled into every cell
	ImagePath string `json:"image_path,omitempty"` // symbol image, drawn once per cell
	Pages     int    `json:"pages,omitempty"`      // identical symbol pages
	Repeat    int    `json:"repeat,omitempty"`     // text repeats per cell

	// Template options
	Template string `json:"template,omitempty"` // template file path, "" = builtin

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG pixels per point
	Page    int      `json:"page,omitempty"`  // PNG page selection
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger  `json:"-"`
	Fonts  *fonts.Table `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Sheet is the planned document.
	Sheet *render.Sheet

	// SheetHash is the content hash of the planned sheet.
	SheetHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Pages      int
	Degraded   int // cells that overflowed even at the minimum font size
	IngestTime time.Duration
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the planned sheet came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for a
// label run. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForIngest(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForIngest checks required fields for dataset ingestion.
func (o *Options) ValidateForIngest() error {
	if o.Dataset == "" && len(o.Records) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dataset or records is required")
	}
	if o.Dataset != "" && len(o.Records) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dataset and records are mutually exclusive")
	}
	if o.Rows != "" {
		if _, err := dataset.ParseRows(o.Rows); err != nil {
			return err
		}
	}
	o.setRuntimeDefaults()
	return nil
}

// ValidateForSymbols checks required fields and applies defaults for a
// symbol run.
func (o *Options) ValidateForSymbols() error {
	if o.Text == "" && o.ImagePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "text or image is required")
	}
	if o.Text != "" && o.ImagePath != "" {
		return errors.New(errors.ErrCodeInvalidInput, "text and image are mutually exclusive")
	}
	if o.Pages == 0 {
		o.Pages = render.DefaultPages
	}
	if o.Repeat == 0 {
		o.Repeat = render.DefaultRepeat
	}
	o.setRuntimeDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Page == 0 {
		o.Page = DefaultPage
	}
	o.setRuntimeDefaults()
}

func (o *Options) setRuntimeDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Fonts == nil {
		o.Fonts = fonts.NewTable()
	}
}

// Source names the pipeline input for logging and JSON export.
func (o *Options) Source() string {
	switch {
	case o.Dataset != "":
		return o.Dataset
	case len(o.Records) > 0:
		return "inline records"
	case o.ImagePath != "":
		return o.ImagePath
	default:
		return strings.TrimSpace(o.Text)
	}
}

// TemplateName names the template for logging and JSON export.
func (o *Options) TemplateName() string {
	if o.Template == "" {
		return "builtin"
	}
	return o.Template
}

// PlanKeyOpts returns cache key options for sheet planning.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Template: o.Template,
		Rows:     o.Rows,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		// Only raster output depends on scale and page selection; keying
		// them for every format would miss on unrelated flag changes.
		opts.Scale = o.Scale
		opts.Page = o.Page
	}
	return opts
}
