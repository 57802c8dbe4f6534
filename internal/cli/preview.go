package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/pipeline"
	"github.com/matzehuels/stackmerge/pkg/source"
)

// previewOpts holds the preview command's flags.
type previewOpts struct {
	commonFlags
	cols   int
	rows   int
	output string
	format string
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{}

	cmd := &cobra.Command{
		Use:   "preview [flags] <image|dir>...",
		Short: "Show the merged image in the terminal",
		Long: `Compose images in memory and draw the result in the terminal.

Nothing is written unless --output is given, in which case the composed canvas
is exported after the preview without decoding the inputs again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args, opts)
		},
	}

	opts.commonFlags.register(cmd)
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "terminal columns to use (default: terminal width)")
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "terminal rows to use (default: terminal height)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also export the composed image to this file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format for --output")
	registerCompletions(cmd)

	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, args []string, opts previewOpts) error {
	ctx := cmd.Context()

	sources, err := source.Files(args)
	if err != nil {
		return err
	}
	orientation, base, err := opts.resolve(c.cfg, c.Logger)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.output == "")
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %d images...", len(sources)))
	spinner.Start()
	pv, err := runner.PlanAndPreview(ctx, sources, orientation, pipeline.PreviewOptions{
		Options: base,
		Bounds:  c.cfg.Preview,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	shown, err := fitTerminal(pv.Bitmap, terminalBounds(opts.cols, opts.rows))
	if err != nil {
		return err
	}
	fmt.Print(renderHalfBlocks(shown))
	printKeyValue("Canvas", fmt.Sprintf("%d×%d", pv.Plan.Width, pv.Plan.Height))
	printKeyValue("Images", fmt.Sprintf("%d %s", len(pv.Plan.Entries), orientation))

	if opts.output == "" {
		printNewline()
		printNextStep("Write it to disk", "stackmerge merge -o "+pipeline.DefaultOutput+" ...")
		return nil
	}

	res, err := pv.Export(ctx, pipeline.ExportOptions{
		Options:     base,
		Destination: opts.output,
		Format:      opts.format,
		Quality:     pipeline.Quality(c.cfg.Quality),
		Lossless:    c.cfg.Lossless,
		Background:  c.cfg.Background,
	})
	if err != nil {
		return err
	}
	printExportResult(res)
	return nil
}
