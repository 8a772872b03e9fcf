// Package cli implements the voxelgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voxelgraph/pkg/buildinfo"
	"github.com/matzehuels/voxelgraph/pkg/cache"
	"github.com/matzehuels/voxelgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "voxelgraph"

	// envRedisURL selects a shared Redis cache when --cache-redis is unset.
	envRedisURL = "VOXELGRAPH_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives logs; logFile, when set, is teed alongside it.
	out     io.Writer
	logFile io.WriteCloser
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close flushes and closes the log file, if any.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var logFile string

	root := &cobra.Command{
		Use:   appName,
		Short: "voxelgraph turns voxel arrays into 26-connected adjacency graphs",
		Long: `voxelgraph reads a 2D or 3D array of phase labels and builds the undirected
graph in which every voxel is a node and every pair of voxels touching by a
face, an edge or a corner is connected. Periodic boundaries wrap the grid
into a torus.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != "" {
				c.attachLogFile(logFile)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file (rotated at 10 MB)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.adjacencyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the graph cache backend.
type cacheFlags struct {
	noCache  bool
	redisURL string
	prefix   string // key prefix, for sharing one Redis between projects
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the graph cache")
	cmd.Flags().StringVar(&f.redisURL, "cache-redis", "", "share cached graphs through Redis (redis://host:port/db, env "+envRedisURL+")")
	cmd.Flags().StringVar(&f.prefix, "cache-prefix", "", "prefix for cache keys")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if f.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, f.prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	url := f.redisURL
	if url == "" {
		url = os.Getenv(envRedisURL)
	}
	if url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "url", redactURL(url))
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// redactURL hides the password of a redis URL for logging.
func redactURL(u string) string {
	at := strings.LastIndex(u, "@")
	scheme := strings.Index(u, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return u
	}
	return u[:scheme+3] + "***" + u[at:]
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/voxelgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
