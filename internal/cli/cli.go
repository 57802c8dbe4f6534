// Package cli implements the stackmerge command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/buildinfo"
	"github.com/matzehuels/stackmerge/pkg/cache"
	"github.com/matzehuels/stackmerge/pkg/config"
	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/errors"
	"github.com/matzehuels/stackmerge/pkg/observability"
	"github.com/matzehuels/stackmerge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// ConfigPath overrides the default config file location.
	ConfigPath string

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks are routed to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := logHooks{}
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stackmerge stitches images into a single picture",
		Long: `Stackmerge concatenates an ordered list of images into one picture, stacked
top-to-bottom or side-by-side. Images are scaled to a common width (or height)
with their aspect ratios preserved, transparency is kept wherever the output
format allows it, and the result can be previewed in the terminal before it is
written to disk.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			err := c.loadConfig()
			if errors.Is(err, errors.ErrCodeFileNotFound) && allowsMissingConfig(cmd) {
				return nil
			}
			return err
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/stackmerge/config.toml)")

	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// annotationMissingConfig marks commands that run without the --config file.
const annotationMissingConfig = "stackmerge/missing-config"

func allowsMissingConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if cmd.Annotations[annotationMissingConfig] == "true" {
			return true
		}
	}
	return false
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	if c.cfg.Cache.TTL > 0 {
		r.TTL = c.cfg.Cache.TTL
	}
	return r, nil
}

// newCache picks the artifact store from the config: Redis when a URL is set,
// otherwise the file cache. A disabled or unusable cache degrades to NullCache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cc := c.cfg.Cache
	if noCache || !cc.Enabled {
		return cache.NewNullCache(), nil, nil
	}

	if cc.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cc.RedisURL, Prefix: cc.Prefix})
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), cc.Prefix), nil
	}

	dir := cc.Dir
	if dir == "" {
		d, err := config.CacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil, nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// commonFlags are the settings shared by every command that composes images.
type commonFlags struct {
	orientation string
	horizontal  bool
	filter      string
	workers     int
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "stacking direction: vertical or horizontal")
	cmd.Flags().BoolVarP(&f.horizontal, "horizontal", "H", false, "shorthand for --orientation horizontal")
	cmd.Flags().StringVar(&f.filter, "filter", "", "resampling filter: lanczos, catmullrom, mitchell, linear, box")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel decode/resample workers (default: one per CPU)")
}

// resolve merges flags over the loaded config.
func (f *commonFlags) resolve(cfg config.Config, logger *log.Logger) (layout.Orientation, pipeline.Options, error) {
	o := cfg.OrientationValue()
	switch {
	case f.horizontal:
		o = layout.Horizontal
	case f.orientation != "":
		parsed, err := layout.ParseOrientation(f.orientation)
		if err != nil {
			return o, pipeline.Options{}, err
		}
		o = parsed
	}

	opts := pipeline.Options{Filter: cfg.Filter, Workers: cfg.Workers, Logger: logger}
	if f.filter != "" {
		opts.Filter = f.filter
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return o, opts, opts.Validate()
}
