package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/labelpress/labelpress/pkg/cache"
	"github.com/labelpress/labelpress/pkg/dataset"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/observability"
	"github.com/labelpress/labelpress/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete ingest → plan → render pipeline for a label
// sheet, with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Ingest
	ingestStart := time.Now()
	observability.Pipeline().OnIngestStart(ctx, opts.Source())
	ds, err := Ingest(ctx, opts)
	ingestTime := time.Since(ingestStart)
	observability.Pipeline().OnIngestComplete(ctx, opts.Source(), recordCount(ds), ingestTime, err)
	if err != nil {
		return nil, err
	}
	// Zero records would plan to zero pages; reject before any drawing.
	if len(ds.Records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"dataset %q has no records", opts.Source())
	}
	result.Stats.IngestTime = ingestTime
	result.Stats.Records = len(ds.Records)

	r.Logger.Info("ingested dataset",
		"source", opts.Source(),
		"records", len(ds.Records),
		"duration", ingestTime)

	// Stage 2: Plan
	planStart := time.Now()
	observability.Pipeline().OnPlanStart(ctx, len(ds.Records))
	tplData, err := templateHash(opts)
	if err != nil {
		observability.Pipeline().OnPlanComplete(ctx, 0, time.Since(planStart), err)
		return nil, err
	}
	planKey := r.Keyer.PlanKey(cache.Hash(append(ingestHash(ds), tplData...)), opts.PlanKeyOpts())

	sheet, planHit, err := r.planWithCache(ctx, planKey, opts, func() (*render.Sheet, error) {
		return Plan(ds, opts)
	})
	planTime := time.Since(planStart)
	observability.Pipeline().OnPlanComplete(ctx, pageCount(sheet), planTime, err)
	if err != nil {
		return nil, err
	}
	result.Sheet = sheet
	result.Stats.PlanTime = planTime
	result.Stats.Pages = sheet.PageCount()
	result.Stats.Degraded = sheet.DegradedCells()
	result.CacheInfo.PlanHit = planHit

	if result.Stats.Degraded > 0 {
		observability.Render().OnDegradedFit(ctx, result.Stats.Degraded)
		r.Logger.Warn("some cells overflowed at minimum size",
			"cells", result.Stats.Degraded)
	}

	planData, err := marshalSheet(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding sheet")
	}
	result.SheetHash = cache.Hash(planData)

	r.Logger.Info("planned sheet",
		"pages", result.Stats.Pages,
		"degraded", result.Stats.Degraded,
		"duration", planTime)

	// Stage 3: Render
	if err := r.renderStage(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteSymbols runs the plan → render pipeline for a symbol sheet.
// Symbol plans are cheap and reference local image files, so only the
// rendered artifacts are cached.
func (r *Runner) ExecuteSymbols(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForSymbols(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	planStart := time.Now()
	observability.Pipeline().OnPlanStart(ctx, 0)
	sheet, err := PlanSymbols(opts)
	planTime := time.Since(planStart)
	observability.Pipeline().OnPlanComplete(ctx, pageCount(sheet), planTime, err)
	if err != nil {
		if errors.Is(err, errors.ErrCodeResourceMissing) {
			observability.Render().OnResourceMissing(ctx, "image", opts.ImagePath)
		}
		return nil, err
	}
	result.Sheet = sheet
	result.Stats.PlanTime = planTime
	result.Stats.Pages = sheet.PageCount()

	planData, err := marshalSheet(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding sheet")
	}
	result.SheetHash = cache.Hash(planData)

	r.Logger.Info("planned sheet",
		"item", opts.Source(),
		"pages", result.Stats.Pages,
		"duration", planTime)

	if err := r.renderStage(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// planWithCache looks up the planned sheet, building and storing it on a
// miss. A refresh skips the lookup but still stores the fresh plan.
func (r *Runner) planWithCache(ctx context.Context, key string, opts Options, build func() (*render.Sheet, error)) (*render.Sheet, bool, error) {
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if sheet, err := unmarshalSheet(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return sheet, true, nil
			}
			// Undecodable entry: fall through and rebuild.
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	sheet, err := build()
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalSheet(sheet); err == nil {
		if r.Cache.Set(ctx, key, data, cache.TTLPlan) == nil {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}
	return sheet, false, nil
}

// renderStage renders all requested formats, replaying cached artifacts
// when every format is already stored for this sheet hash.
func (r *Runner) renderStage(ctx context.Context, result *Result, opts Options) error {
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, renderHit, err := r.renderWithCache(ctx, result.Sheet, result.SheetHash, opts)
	renderTime := time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, renderTime, err)
	if err != nil {
		return err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = renderTime
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", renderTime)
	return nil
}

func (r *Runner) renderWithCache(ctx context.Context, sheet *render.Sheet, sheetHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sheetHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(sheet, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sheetHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func recordCount(ds *dataset.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Records)
}

func pageCount(sheet *render.Sheet) int {
	if sheet == nil {
		return 0
	}
	return sheet.PageCount()
}
