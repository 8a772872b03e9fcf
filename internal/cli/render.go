package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/voxelgraph/pkg/pipeline"
	"github.com/matzehuels/voxelgraph/pkg/render/nodelink"
)

// Render output formats.
const (
	renderSVG = "svg"
	renderPNG = "png"
	renderDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file; default derives from the input name
	format   string // svg, png or dot
	labels   bool   // print node ids inside the circles
	maxNodes int    // refuse larger graphs
}

// renderCommand creates the render command for drawing small grid graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var f buildFlags
	ro := renderOpts{format: renderSVG, maxNodes: nodelink.DefaultMaxNodes}

	cmd := &cobra.Command{
		Use:   "render [array-file]",
		Short: "Draw the adjacency graph of a small voxel array",
		Long: `Render lays voxels out on their grid positions, one panel per z layer,
colours them by phase and draws every adjacency. Edges created by periodic
wrap-around are dashed. Graphs larger than --max-nodes are refused.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, f, ro)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (default: <path>/<input>.<format>)")
	cmd.Flags().StringVarP(&ro.format, "format", "f", ro.format, "output format: svg, png or dot")
	cmd.Flags().BoolVar(&ro.labels, "labels", false, "print node ids")
	cmd.Flags().IntVar(&ro.maxNodes, "max-nodes", ro.maxNodes, "largest graph to draw")

	return cmd
}

// validateRenderFormat checks that format is svg, png or dot.
func validateRenderFormat(format string) error {
	switch format {
	case renderSVG, renderPNG, renderDOT:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'svg', 'png' or 'dot')", format)
}

// renderOutputPath returns ro.output or derives it from the input name.
func renderOutputPath(opts pipeline.Options, ro renderOpts) string {
	if ro.output != "" {
		return ro.output
	}
	return opts.OutputBase() + "." + ro.format
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, f buildFlags, ro renderOpts) error {
	if err := validateRenderFormat(ro.format); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	dot, err := nodelink.ToDOT(res.Graph, nodelink.Options{
		Dims:     res.Meta.Dims,
		Boundary: res.Meta.Boundary,
		MaxNodes: ro.maxNodes,
		Labels:   ro.labels,
	})
	if errors.Is(err, nodelink.ErrTooLarge) {
		return fmt.Errorf("%w; raise --max-nodes or export with 'build --format json'", err)
	}
	if err != nil {
		return err
	}

	data := []byte(dot)
	if ro.format != renderDOT {
		spinner := newSpinnerWithContext(ctx, "Running graphviz...")
		spinner.Start()
		if ro.format == renderPNG {
			data, err = nodelink.RenderPNG(dot)
		} else {
			data, err = nodelink.RenderSVG(dot)
		}
		if err != nil {
			spinner.StopWithError("graphviz failed")
			return fmt.Errorf("render %s: %w", ro.format, err)
		}
		spinner.Stop()
	}

	out := renderOutputPath(opts, ro)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	c.Logger.Debug("rendered graph", "format", ro.format, "nodes", res.Stats.NodeCount)
	printSuccess("Rendered %s", opts.Input)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.GraphHit)
	printFileSize(out, int64(len(data)))
	return nil
}
