package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/matzehuels/voxelgraph/pkg/cache"
	"github.com/matzehuels/voxelgraph/pkg/errors"
	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	vio "github.com/matzehuels/voxelgraph/pkg/io"
	"github.com/matzehuels/voxelgraph/pkg/observability"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

const keyTypeGraph = "graph"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
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

// Execute reads the voxel array and builds its adjacency graph, serving
// both stages from the cache when possible.
//
// Reader failures are terminal: no graph is returned and nothing is cached.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	gopts, err := opts.GridOptions()
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:   uuid.NewString(),
		Options: opts,
	}
	logger := opts.Logger.With("run", res.RunID[:8])

	// The lookup key needs the file contents; if hashing fails the reader
	// below reports the real problem (missing file, permissions).
	var key string
	if h, err := cache.HashFile(opts.Input); err == nil {
		key = r.Keyer.GraphKey(h, opts.GraphKeyOpts())
	}
	res.CacheInfo.Key = key

	if key != "" && !opts.Refresh {
		if g, m, ok := r.lookup(ctx, key); ok {
			m.PixelSize = float64(opts.PixelSize)
			res.Graph, res.Meta = g, m
			res.CacheInfo.GraphHit = true
			res.Stats.NodeCount = g.NodeCount()
			res.Stats.EdgeCount = g.EdgeCount()
			logger.Info("loaded graph from cache",
				"nodes", g.NodeCount(),
				"edges", g.EdgeCount())
			return res, nil
		}
	}

	// Stage 1: Read. The bytes are hashed as they are decoded, so the graph
	// is stored under the contents it was built from.
	readStart := time.Now()
	observability.Pipeline().OnReadStart(ctx, opts.Input)
	hasher := cache.NewHasher()
	a, err := voxel.ReadFile(opts.Input, voxel.ReadOptions{Phases: opts.Phases, Tee: hasher})
	res.Stats.ReadTime = time.Since(readStart)
	voxels := 0
	if a != nil {
		voxels = a.Len()
	}
	observability.Pipeline().OnReadComplete(ctx, opts.Input, voxels, res.Stats.ReadTime, err)
	if err != nil {
		return nil, err
	}
	res.Array = a
	if built := r.Keyer.GraphKey(hasher.Sum(), opts.GraphKeyOpts()); built != key {
		if key != "" {
			logger.Warn("input changed after cache lookup", "path", opts.Input)
		}
		key = built
		res.CacheInfo.Key = key
	}
	logger.Debug("read voxel array",
		"dims", a.Dims.String(),
		"voxels", a.Len(),
		"duration", res.Stats.ReadTime)

	// Stage 2: Build
	boundary := gopts.Boundary.String()
	g := graph.New(a.Len())
	observability.Pipeline().OnBuildStart(ctx, boundary, a.Len())
	stats, err := grid.Build(ctx, g, a.Dims, a.Labels, gopts)
	res.Stats.BuildTime = stats.Duration
	observability.Pipeline().OnBuildComplete(ctx, boundary, g.NodeCount(), g.EdgeCount(), stats.Duration, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	res.Graph = g
	res.Meta = vio.Meta{Dims: a.Dims, Boundary: gopts.Boundary, PixelSize: float64(opts.PixelSize)}
	res.Stats.Build = stats
	res.Stats.NodeCount = g.NodeCount()
	res.Stats.EdgeCount = g.EdgeCount()

	logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"boundary", boundary,
		"strategy", gopts.Strategy.String(),
		"duration", stats.Duration)

	r.store(ctx, key, g, res.Meta)
	return res, nil
}

// lookup returns the cached graph under key. Corrupt entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*graph.Undirected, vio.Meta, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
		return nil, vio.Meta{}, false
	}
	g, m, err := decodeEntry(data)
	if err != nil {
		r.Logger.Debug("discarding cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
		return nil, vio.Meta{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeGraph)
	return g, m, true
}

// decodeEntry reverses store. Errors wrap cache.ErrCorrupt.
func decodeEntry(data []byte) (*graph.Undirected, vio.Meta, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, vio.Meta{}, fmt.Errorf("%w: %v", cache.ErrCorrupt, err)
	}
	g, m, err := vio.UnmarshalJSON(raw)
	if err != nil {
		return nil, vio.Meta{}, fmt.Errorf("%w: %v", cache.ErrCorrupt, err)
	}
	return g, m, nil
}

// store caches g. Failures only cost a rebuild next time, so they are logged.
func (r *Runner) store(ctx context.Context, key string, g *graph.Undirected, m vio.Meta) {
	raw, err := vio.MarshalJSON(g, m)
	if err != nil {
		r.Logger.Warn("encode graph for cache", "err", err)
		return
	}
	data := snappy.Encode(nil, raw)
	if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err != nil {
		r.Logger.Warn("write cache", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeGraph, len(data))
}

// Export writes res.Graph to path in format.
func (r *Runner) Export(ctx context.Context, res *Result, format, path string) (int64, error) {
	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, format)
	n, err := vio.ExportFile(path, format, res.Graph, res.Meta)
	observability.Pipeline().OnExportComplete(ctx, format, int(n), time.Since(start), err)
	if err != nil {
		return n, err
	}
	r.Logger.Debug("exported graph", "format", format, "path", path, "bytes", n)
	return n, nil
}

// WriteOutputs exports res in every format of res.Options and returns the
// written paths in format order.
func (r *Runner) WriteOutputs(ctx context.Context, res *Result) ([]string, error) {
	if err := os.MkdirAll(res.Options.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir %s", res.Options.OutputDir)
	}
	paths := make([]string, 0, len(res.Options.Formats))
	for _, format := range res.Options.Formats {
		path := res.Options.OutputPath(format)
		if _, err := r.Export(ctx, res, format, path); err != nil {
			return paths, fmt.Errorf("export %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
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
