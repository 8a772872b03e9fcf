package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/matzehuels/voxelgraph/pkg/errors"
	vio "github.com/matzehuels/voxelgraph/pkg/io"
	"github.com/matzehuels/voxelgraph/pkg/metrics"
	"github.com/matzehuels/voxelgraph/pkg/observability"
	"github.com/matzehuels/voxelgraph/pkg/pipeline"
)

// buildFlags holds the flags shared by every command that builds a graph.
// Short flags follow the historical command line: -a -s -p -n -r.
type buildFlags struct {
	array       string // voxel array file, alternative to the positional argument
	pixelSize   int    // edge length of one voxel
	periodic    bool   // wrap neighbors around every axis
	phases      int    // number of phase labels (2 or 3)
	path        string // output directory
	strategy    string // checked or halfspace
	workers     int    // parallel edge workers, 0 = one per CPU
	formats     string // comma-separated export formats
	refresh     bool   // bypass cache reads
	metricsFile string // prometheus textfile output
	config      string // TOML/YAML defaults
	cache       cacheFlags
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.array, "array", "a", "", "voxel array file (instead of the positional argument)")
	fs.IntVarP(&f.pixelSize, "pixelsize", "s", pipeline.DefaultPixelSize, "pixel size, scales edge weights")
	fs.BoolVarP(&f.periodic, "periodic", "p", false, "periodic boundaries (wrap around every axis)")
	fs.IntVarP(&f.phases, "phases", "n", pipeline.DefaultPhases, "number of phases: 2 or 3")
	fs.StringVarP(&f.path, "path", "r", pipeline.DefaultOutputDir, "directory for output files")
	fs.StringVar(&f.strategy, "strategy", "checked", "neighbor scan: checked or halfspace")
	fs.IntVarP(&f.workers, "workers", "w", 1, "parallel edge workers (0 = one per CPU)")
	fs.BoolVar(&f.refresh, "refresh", false, "rebuild even if the graph is cached")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")
	fs.StringVar(&f.config, "config", "", "TOML or YAML file with defaults for these flags")
	f.cache.register(cmd)
}

// options resolves the input file and converts the flags into pipeline
// options, applying --config first.
func (f *buildFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	if f.config != "" {
		cfg, err := loadConfig(f.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		cfg.apply(cmd, f)
	}

	input := f.array
	if len(args) > 0 {
		if input != "" && input != args[0] {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput,
				"two inputs given (%s and --array %s)", args[0], input)
		}
		input = args[0]
	}
	if input == "" {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput,
			"no voxel array given (pass a file or --array)")
	}

	workers := f.workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return pipeline.Options{
		Input:     input,
		Phases:    f.phases,
		PixelSize: f.pixelSize,
		Periodic:  f.periodic,
		Strategy:  f.strategy,
		Workers:   workers,
		OutputDir: f.path,
		Formats:   parseFormats(f.formats),
		Refresh:   f.refresh,
	}, nil
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build [array-file]",
		Short: "Build the adjacency graph of a voxel array and export it",
		Long: `Build reads a voxel array, connects every voxel to its 26 neighbors and
writes the graph to the output directory.

Output files are named after the input: sample.txt produces sample.adj,
sample.edges and sample.json for the adjacency, edgelist and json formats.`,
		Example: `  voxelgraph build sample.txt
  voxelgraph build -a sample.txt -p -n 3 -r out/ --format adjacency,json
  voxelgraph build volume.bin.zst --strategy halfspace --workers 0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.formats, "format", "f", pipeline.DefaultFormat, "output format(s): adjacency, edgelist, json (comma-separated)")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, f buildFlags) error {
	finish := c.startMetrics(f.metricsFile)
	defer finish()

	runner, err := c.newRunner(ctx, f.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %s", res))

	paths, err := runner.WriteOutputs(ctx, res)
	if err != nil {
		return err
	}

	printSuccess("Graph built from %s", opts.Input)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.GraphHit)
	for _, p := range paths {
		printFile(p)
	}
	if res.Stats.NodeCount <= 500 {
		printNextStep("Draw it", fmt.Sprintf("%s render %s", appName, opts.Input))
	}
	return nil
}

// adjacencyCommand prints the adjacency list to stdout, one "Node i: ..."
// line per voxel.
func (c *CLI) adjacencyCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:     "adjacency [array-file]",
		Aliases: []string{"adj"},
		Short:   "Print the adjacency list of a voxel array",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			finish := c.startMetrics(f.metricsFile)
			defer finish()

			runner, err := c.newRunner(cmd.Context(), f.cache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return vio.WriteAdjacency(cmd.OutOrStdout(), res.Graph)
		},
	}

	f.register(cmd)
	return cmd
}

// startMetrics registers Prometheus hooks when path is set. The returned
// function writes the textfile and restores the no-op hooks.
func (c *CLI) startMetrics(path string) func() {
	if path == "" {
		return func() {}
	}
	m := metrics.NewRegistry()
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	return func() {
		defer observability.Reset()
		if err := m.WriteTextfile(path); err != nil {
			c.Logger.Warn("write metrics", "path", path, "err", err)
			return
		}
		c.Logger.Debug("wrote metrics", "path", path)
	}
}
