package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datalabels/pkg/cache"
	"github.com/matzehuels/datalabels/pkg/label/sink"
	"github.com/matzehuels/datalabels/pkg/observability"
	"github.com/matzehuels/datalabels/pkg/scene"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects the DefaultKeyer and a
// nil cache disables caching.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout and render for sc.
func (r *Runner) Execute(ctx context.Context, sc *scene.Scene, opts Options) (*Result, error) {
	if err := checkScene(sc); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	hash, err := SceneHash(sc)
	if err != nil {
		return nil, err
	}
	result.SceneHash = hash
	result.Stats.Series = len(sc.Series)
	for _, s := range sc.Series {
		result.Stats.Points += len(s.Points)
	}

	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.Attempted = len(layout.Records)
	result.Stats.Visible = layout.Visible
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("placed labels",
		"attempted", result.Stats.Attempted,
		"visible", result.Stats.Visible,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PrioritizeWithCacheInfo returns the priority orders of sc and whether
// they came from the cache.
func (r *Runner) PrioritizeWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) ([]SeriesOrder, bool, error) {
	if err := checkScene(sc); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	hash, err := SceneHash(sc)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.OrderKey(hash, cache.OrderKeyOpts{
		MaxLabels: opts.MaxLabels,
		Width:     viewport(sc, opts).Width,
	})

	var orders []SeriesOrder
	if r.lookup(ctx, key, cache.KeyTypeOrder, opts.Refresh, &orders) {
		return orders, true, nil
	}

	orders, err = Prioritize(ctx, sc, opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, key, cache.KeyTypeOrder, orders, cache.TTLOrder)
	return orders, false, nil
}

// Prioritize calls PrioritizeWithCacheInfo and drops the cache info.
func (r *Runner) Prioritize(ctx context.Context, sc *scene.Scene, opts Options) ([]SeriesOrder, error) {
	orders, _, err := r.PrioritizeWithCacheInfo(ctx, sc, opts)
	return orders, err
}

// LayoutWithCacheInfo computes the layout of sc and reports whether it
// came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) (sink.Output, bool, error) {
	if err := checkScene(sc); err != nil {
		return sink.Output{}, false, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return sink.Output{}, false, err
	}

	hash, err := SceneHash(sc)
	if err != nil {
		return sink.Output{}, false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	var layout sink.Output
	if r.lookup(ctx, key, cache.KeyTypeLayout, opts.Refresh, &layout) {
		return layout, true, nil
	}

	layout, err = ComputeLayout(ctx, sc, opts)
	if err != nil {
		return sink.Output{}, false, err
	}
	r.store(ctx, key, cache.KeyTypeLayout, layout, cache.TTLLayout)
	return layout, false, nil
}

// Layout calls LayoutWithCacheInfo and drops the cache info.
func (r *Runner) Layout(ctx context.Context, sc *scene.Scene, opts Options) (sink.Output, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, sc, opts)
	return layout, err
}

// RenderWithCacheInfo renders layout and reports whether every artifact
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scene.Scene, layout sink.Output, opts Options) (map[string][]byte, bool, error) {
	if err := checkScene(sc); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Artifacts draw the scene's anchors as well as the records.
	sceneHash, err := SceneHash(sc)
	if err != nil {
		return nil, false, err
	}
	layoutData, err := json.Marshal(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	hash := cache.Hash(append([]byte(sceneHash), layoutData...))

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, sc, layout, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "type", cache.KeyTypeArtifact, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}
	return rendered, false, nil
}

// Render calls RenderWithCacheInfo and drops the cache info.
func (r *Runner) Render(ctx context.Context, sc *scene.Scene, layout sink.Output, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, layout, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// SceneHash returns the content hash of sc's JSON encoding.
func SceneHash(sc *scene.Scene) (string, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("serialize scene for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// lookup decodes the cached JSON value at key into v. Undecodable entries
// count as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, refresh bool, v any) bool {
	if refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
