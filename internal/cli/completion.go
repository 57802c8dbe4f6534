package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmerge/pkg/core/resample"
	"github.com/matzehuels/stackmerge/pkg/source"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stackmerge.

Bash:
  $ source <(stackmerge completion bash)
  $ stackmerge completion bash > /etc/bash_completion.d/stackmerge

Zsh:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ stackmerge completion zsh > "${fpath[1]}/_stackmerge"

Fish:
  $ stackmerge completion fish > ~/.config/fish/completions/stackmerge.fish

PowerShell:
  PS> stackmerge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations: map[string]string{
			annotationMissingConfig: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// imageArgsCompletion completes positional arguments with image files and
// directories.
func imageArgsCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	exts := make([]string, 0, len(source.Extensions))
	for ext := range source.Extensions {
		exts = append(exts, ext[1:])
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

// registerCompletions wires value completion for the flags a command defines.
func registerCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = imageArgsCompletion
	flags := map[string][]string{
		"orientation": {"vertical", "horizontal"},
		"filter":      resample.FilterNames(),
		"format":      {"png", "jpeg", "webp"},
		"background":  {"auto", "#ffffff", "#000000"},
	}
	for name, values := range flags {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fixedCompletion(values...))
		}
	}
}
