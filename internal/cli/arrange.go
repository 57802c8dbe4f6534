package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/source"
)

// arrangeCommand creates the interactive arrange command.
func (c *CLI) arrangeCommand() *cobra.Command {
	opts := mergeOpts{}

	cmd := &cobra.Command{
		Use:   "arrange [flags] <image|dir>...",
		Short: "Reorder images interactively, then merge",
		Long: `Open an interactive list of the input images. Reorder or drop images and
switch orientation while watching the canvas size update, then press enter to
merge in the chosen order. Accepts the same flags as merge.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArrange(cmd, args, opts)
		},
	}

	opts.register(cmd)

	return cmd
}

func (c *CLI) runArrange(cmd *cobra.Command, args []string, opts mergeOpts) error {
	ctx := cmd.Context()

	sources, err := source.Files(args)
	if err != nil {
		return err
	}
	orientation, base, err := opts.resolve(c.cfg, c.Logger)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	imgs, err := runner.Decode(ctx, sources, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Decoded %d images", len(imgs)))

	items := make([]ArrangeItem, len(imgs))
	for i, img := range imgs {
		items[i] = ArrangeItem{Index: i, Name: img.Name, Size: img.Size()}
	}

	final, err := tea.NewProgram(NewArrangeModel(items, orientation), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(ArrangeModel)
	if !ok || !m.Confirmed {
		printInfo("Cancelled")
		return nil
	}

	ordered := make([]source.Source, 0, len(m.Items))
	for _, i := range m.Order() {
		ordered = append(ordered, sources[i])
	}

	exportOpts := c.exportOptions(cmd, base, opts)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Merging %d images %s...", len(ordered), m.Orientation))
	spinner.Start()
	res, err := runner.Export(ctx, ordered, m.Orientation, exportOpts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printExportResult(res)
	return nil
}
