package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/errors"
	"github.com/matzehuels/stackmerge/pkg/pipeline"
	"github.com/matzehuels/stackmerge/pkg/source"
)

// mergeOpts holds the merge command's flags.
type mergeOpts struct {
	commonFlags
	output     string
	format     string
	quality    int
	lossless   bool
	background string
	noCache    bool
	refresh    bool
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	opts := mergeOpts{}

	cmd := &cobra.Command{
		Use:   "merge [flags] <image|dir>...",
		Short: "Merge images into one picture",
		Long: `Merge images into one picture, in the order given.

Directories expand to the images they contain, sorted by name. Vertical merges
scale every image to the narrowest width; horizontal merges scale to the
shortest height. The output format follows --format, or the extension of
--output. Unknown formats fall back to PNG with a warning.`,
		Example: `  # Stack screenshots top to bottom
  stackmerge merge a.png b.png c.png

  # Side by side, as a JPEG on a dark background
  stackmerge merge -H -o strip.jpg --background "#1e1e2e" shots/

  # Lossless WEBP
  stackmerge merge -o out.webp --lossless *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMerge(cmd, args, opts)
		},
	}

	opts.register(cmd)

	return cmd
}

func (o *mergeOpts) register(cmd *cobra.Command) {
	o.commonFlags.register(cmd)
	cmd.Flags().StringVarP(&o.output, "output", "o", pipeline.DefaultOutput, "output file")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: png, jpeg, webp (default: from --output)")
	cmd.Flags().IntVarP(&o.quality, "quality", "q", 0, fmt.Sprintf("JPEG/WEBP quality 0-100, clamped (default %d)", pipeline.DefaultQuality))
	cmd.Flags().BoolVar(&o.lossless, "lossless", false, "encode WEBP losslessly")
	cmd.Flags().StringVar(&o.background, "background", "", `JPEG background: hex color or "auto" (default white)`)
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached output and encode again")
	registerCompletions(cmd)
}

func (c *CLI) runMerge(cmd *cobra.Command, args []string, opts mergeOpts) error {
	ctx := cmd.Context()

	sources, err := source.Files(args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "no images found in %v", args)
	}

	orientation, base, err := opts.resolve(c.cfg, c.Logger)
	if err != nil {
		return err
	}
	exportOpts := c.exportOptions(cmd, base, opts)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Merging %d images %s...", len(sources), orientation))
	spinner.Start()
	res, err := runner.Export(ctx, sources, orientation, exportOpts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printExportResult(res)
	return nil
}

// exportOptions layers explicitly set flags over the config file.
func (c *CLI) exportOptions(cmd *cobra.Command, base pipeline.Options, opts mergeOpts) pipeline.ExportOptions {
	eo := pipeline.ExportOptions{
		Options:     base,
		Destination: opts.output,
		Format:      c.cfg.Format,
		Quality:     pipeline.Quality(c.cfg.Quality),
		Lossless:    c.cfg.Lossless,
		Background:  c.cfg.Background,
		Refresh:     opts.refresh,
	}
	flags := cmd.Flags()
	switch {
	case flags.Changed("format"):
		eo.Format = opts.format
	case flags.Changed("output"):
		eo.Format = ""
	}
	if flags.Changed("quality") {
		eo.Quality = pipeline.Quality(opts.quality)
	}
	if flags.Changed("lossless") {
		eo.Lossless = opts.lossless
	}
	if flags.Changed("background") {
		eo.Background = opts.background
	}
	return eo
}

// printExportResult reports a written file with any notices.
func printExportResult(res *pipeline.ExportResult) {
	for _, n := range res.Notices {
		printWarning("%s", n.Message)
	}
	printSuccess("Exported %s", res.Format)
	printFile(res.Path)
	printStats(res.Plan.Size(), len(res.Plan.Entries), res.Bytes, res.CacheHit)
}
