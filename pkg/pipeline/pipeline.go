// Package pipeline provides the read → build → export pipeline for voxelgraph.
//
// The CLI commands all run through a [Runner] so that caching, logging and
// observability hooks behave the same regardless of which command asked for
// the graph.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: decode the voxel array from disk (pkg/voxel)
//  2. Build: insert one node per voxel and every 26-connected pair (pkg/grid)
//  3. Export: write the graph in one or more formats (pkg/io)
//
// Read and build are cached together: the cache key covers the input file
// contents and every option that changes the edge set, so a hit skips both.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:    "sample.txt",
//	    Periodic: true,
//	})
//	if err != nil {
//	    return err
//	}
//	paths, err := runner.WriteOutputs(ctx, res)
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/voxelgraph/pkg/cache"
	"github.com/matzehuels/voxelgraph/pkg/errors"
	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	vio "github.com/matzehuels/voxelgraph/pkg/io"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	// DefaultPhases is the number of material phases (donor/acceptor).
	DefaultPhases = 2

	// DefaultPixelSize is the edge length of one voxel.
	DefaultPixelSize = 1

	// DefaultOutputDir is where exported files are written.
	DefaultOutputDir = "./"

	// DefaultFormat is the export format used when none is requested.
	DefaultFormat = vio.FormatAdjacency
)

var validate = validator.New()

// Options configures one pipeline run.
type Options struct {
	// Input is the voxel array file (text or binary, optionally compressed).
	Input string `validate:"required"`

	// Phases is the number of phase labels allowed in the array (2 or 3).
	Phases int `validate:"oneof=2 3"`

	// PixelSize scales edge weights in exports.
	PixelSize int `validate:"min=1"`

	// Periodic wraps neighbors around every axis.
	Periodic bool

	// Strategy is "checked" (default) or "halfspace".
	Strategy string

	// Workers > 1 builds edges in parallel.
	Workers int `validate:"min=0,max=1024"`

	// OutputDir receives the files written by WriteOutputs.
	OutputDir string `validate:"required"`

	// Formats lists the export formats (adjacency, edgelist, json).
	Formats []string `validate:"min=1,dive,oneof=adjacency edgelist json"`

	// Refresh bypasses cache reads; the fresh graph is still stored.
	Refresh bool

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger `validate:"-"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Phases == 0 {
		o.Phases = DefaultPhases
	}
	if o.PixelSize == 0 {
		o.PixelSize = DefaultPixelSize
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and then validates every field.
// Calling it twice is safe.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := errors.ValidateInputPath(o.Input); err != nil {
		return err
	}
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	if _, err := grid.ParseStrategy(o.Strategy); err != nil {
		return err
	}
	return nil
}

// Boundary returns the boundary policy selected by Periodic.
func (o Options) Boundary() grid.Boundary {
	if o.Periodic {
		return grid.Periodic
	}
	return grid.Bounded
}

// GridOptions converts the options into builder options.
func (o Options) GridOptions() (grid.Options, error) {
	s, err := grid.ParseStrategy(o.Strategy)
	if err != nil {
		return grid.Options{}, err
	}
	return grid.Options{Boundary: o.Boundary(), Strategy: s, Workers: o.Workers}, nil
}

// GraphKeyOpts returns the options that take part in the cache key.
// Strategy and Workers are excluded: every strategy yields the same graph.
func (o Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Boundary: o.Boundary().String(), Phases: o.Phases}
}

// OutputBase returns the output path without extension: OutputDir joined
// with the input file name stripped of its format and compression suffixes.
func (o Options) OutputBase() string {
	base := filepath.Base(o.Input)
	for _, ext := range []string{".gz", ".zst", ".sz"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(o.OutputDir, base)
}

// OutputPath returns the file WriteOutputs uses for format.
func (o Options) OutputPath(format string) string {
	return o.OutputBase() + vio.Extension(format)
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	e := verrs[0]
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidInput, "%s: field is required", field)
	case "min":
		return errors.New(errors.ErrCodeInvalidInput, "%s: must be at least %s", field, e.Param())
	case "max":
		return errors.New(errors.ErrCodeInvalidInput, "%s: must not exceed %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidInput, "%s: %v is not one of: %s", field, e.Value(), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidInput, "%s: validation failed (%s)", field, e.Tag())
	}
}

// =============================================================================
// Results
// =============================================================================

// Result is the output of [Runner.Execute].
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Options are the validated options the run used.
	Options Options

	// Array is the decoded voxel array. It is nil when the graph came from
	// the cache; phases are still available through Graph.Phase.
	Array *voxel.Array

	Graph *graph.Undirected
	Meta  vio.Meta

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records per-stage timings and graph size.
type Stats struct {
	ReadTime  time.Duration
	BuildTime time.Duration
	NodeCount int
	EdgeCount int

	// Build is the builder's own report; zero on a cache hit.
	Build grid.Stats
}

// CacheInfo reports how the cache was used.
type CacheInfo struct {
	Key      string
	GraphHit bool
}

func (r *Result) String() string {
	return fmt.Sprintf("%s %s: %d nodes, %d edges",
		r.Meta.Dims, r.Meta.Boundary, r.Stats.NodeCount, r.Stats.EdgeCount)
}
