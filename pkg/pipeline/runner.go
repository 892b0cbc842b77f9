package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/cache"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Cache key kinds reported to observability hooks.
const (
	keyTypeTree     = "tree"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL is the lifetime of rendered exports.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
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
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute runs build and render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{SourceHash: cache.Hash(opts.Source)}

	buildStart := time.Now()
	t, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = t
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = t.NodeCount()
	result.Stats.EdgeCount = t.EdgeCount()
	result.CacheInfo.BuildHit = buildHit

	opts.Logger.Info("built tree",
		"nodes", t.NodeCount(),
		"edges", t.EdgeCount(),
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered exports",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo parses opts.Source and builds its tree, reporting
// whether the tree came from cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*tree.Tree, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.DocumentKey(cache.Hash(opts.Source))

	if !opts.Refresh {
		if data, ok := r.get(ctx, key, keyTypeTree); ok {
			t, err := tree.Unmarshal(data)
			if err == nil {
				return t, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached tree", "key", key, "error", err)
		}
	}

	t, err := BuildTree(ctx, opts.Source)
	if err != nil {
		return nil, false, err
	}

	if data, err := tree.Marshal(t); err == nil {
		r.set(ctx, key, keyTypeTree, data, cache.TTLTree, opts.Logger)
	}
	return t, false, nil
}

// Build is BuildWithCacheInfo without the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*tree.Tree, error) {
	t, _, err := r.BuildWithCacheInfo(ctx, opts)
	return t, err
}

// RenderWithCacheInfo produces the requested artifacts for t, reporting
// whether all of them came from cache. opts.Source must be the text t was
// built from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	sourceHash := cache.Hash(opts.Source)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.get(ctx, key, keyTypeArtifact); ok {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, t, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, key, keyTypeArtifact, data, r.ArtifactTTL, opts.Logger)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Export is RenderWithCacheInfo for a single format without the hit info.
func (r *Runner) Export(ctx context.Context, t *tree.Tree, format string, opts Options) ([]byte, error) {
	opts.Formats = []string{format}
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	return artifacts[format], nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// set writes through to the cache. Failures are logged, never returned.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "kind", keyType, "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
