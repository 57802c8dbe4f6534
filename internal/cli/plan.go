package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/errors"
	sio "github.com/matzehuels/stackmerge/pkg/io"
	"github.com/matzehuels/stackmerge/pkg/source"
)

// planOpts holds the plan command's flags.
type planOpts struct {
	commonFlags
	json   bool
	output string
	load   string
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan [flags] <image|dir>...",
		Short: "Print the layout plan without composing",
		Long: `Print where each image lands on the canvas and the size it is scaled to.

Only image headers and pixels are decoded; nothing is resampled or written
unless --output is given.`,
		Example: `  stackmerge plan -H shots/
  stackmerge plan --json a.png b.png > plan.json
  stackmerge plan --load plan.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd, args, opts)
		},
	}

	opts.commonFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the plan as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the plan as JSON to this file")
	cmd.Flags().StringVar(&opts.load, "load", "", "print a plan previously saved with --output")
	registerCompletions(cmd)

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, args []string, opts planOpts) error {
	plan, names, err := c.loadPlan(cmd, args, opts)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := sio.ExportPlanJSON(plan, opts.output); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "write plan")
		}
		printSuccess("Plan saved")
		printFile(opts.output)
		return nil
	}
	if opts.json {
		return sio.WritePlanJSON(plan, os.Stdout)
	}

	fmt.Println(renderPlanTable(plan, names))
	printKeyValue("Canvas", fmt.Sprintf("%d×%d %s", plan.Width, plan.Height, plan.Orientation))
	return nil
}

func (c *CLI) loadPlan(cmd *cobra.Command, args []string, opts planOpts) (layout.Plan, []string, error) {
	if opts.load != "" {
		plan, err := sio.ImportPlanJSON(opts.load)
		if err != nil {
			return layout.Plan{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load plan")
		}
		return plan, nil, nil
	}
	if len(args) == 0 {
		return layout.Plan{}, nil, errors.New(errors.ErrCodeEmptyInput, "no images to plan")
	}

	sources, err := source.Files(args)
	if err != nil {
		return layout.Plan{}, nil, err
	}
	orientation, base, err := opts.resolve(c.cfg, c.Logger)
	if err != nil {
		return layout.Plan{}, nil, err
	}

	runner, err := c.newRunner(cmd.Context(), true)
	if err != nil {
		return layout.Plan{}, nil, err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	plan, err := runner.Plan(cmd.Context(), sources, orientation, base)
	if err != nil {
		return layout.Plan{}, nil, err
	}
	prog.done(fmt.Sprintf("Planned %d images", len(sources)))
	return plan, source.Names(sources), nil
}

// renderPlanTable formats plan entries as a bordered table. names may be
// nil when the plan was loaded from a file.
func renderPlanTable(plan layout.Plan, names []string) string {
	rows := make([][]string, len(plan.Entries))
	for i, e := range plan.Entries {
		name := "—"
		if i < len(names) {
			name = filepath.Base(names[i])
		}
		scaled := fmt.Sprintf("%d×%d", e.Width, e.Height)
		if !e.NeedsResample() {
			scaled += " ="
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			name,
			fmt.Sprintf("%d×%d", e.SourceWidth, e.SourceHeight),
			scaled,
			fmt.Sprintf("%d,%d", e.X, e.Y),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Image", "Source", "Scaled", "Offset").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0 || col == 4:
				return base.Foreground(colorDim)
			case col == 3:
				return base.Foreground(colorCyan)
			default:
				return base.Foreground(colorWhite)
			}
		})

	return t.Render()
}
