package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/depgraph"
	"github.com/matzehuels/wsgraph/pkg/render/dot"
)

// registerCompletions attaches value completions to the enumerable flags of
// root. Formats beyond the embedded ones are still accepted when typed.
func registerCompletions(root *cobra.Command) {
	fixed := func(values ...string) cobra.CompletionFunc {
		return cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
	}
	_ = root.RegisterFlagCompletionFunc("skip-mode", fixed(string(depgraph.SkipOmit), string(depgraph.SkipSourceOnly)))
	_ = root.RegisterFlagCompletionFunc("output-format", fixed(dot.EmbeddedFormats()...))
	_ = root.RegisterFlagCompletionFunc("graphviz-command", fixed(dot.EmbeddedLayouts()...))
	_ = root.RegisterFlagCompletionFunc("graphviz-directory", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})
}

// completionCommand prints a completion script for the named shell.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for wsgraph.

  $ source <(wsgraph completion bash)
  $ wsgraph completion zsh > "${fpath[1]}/_wsgraph"
  $ wsgraph completion fish > ~/.config/fish/completions/wsgraph.fish
  PS> wsgraph completion powershell | Out-String | Invoke-Expression

Flag values such as --skip-mode and --output-format complete as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
