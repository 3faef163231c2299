package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/pipeline"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// listCommand creates the list command.
func (c *CLI) listCommand(fl *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List the packages of a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root := workspaceRoot(args)

			cfg, err := fl.resolve(cmd, root)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, loggerFromContext(ctx))
			ws, err := runner.Load(ctx, root)
			if err != nil {
				return err
			}
			bopts, err := runner.BuildOptions(ws, pipeline.Options{Root: root, Config: cfg})
			if err != nil {
				return err
			}

			printPackages(cmd.OutOrStdout(), ws, func(p workspace.Package) bool {
				return bopts.Policy.Skips(p)
			})
			prefix := bopts.Prefix
			if bopts.WorkspaceOnly {
				prefix = "(workspace packages only)"
			}
			printKeyValue(cmd.OutOrStdout(), "prefix", prefix)
			return nil
		},
	}
}

// printPackages prints one aligned row per package.
func printPackages(w io.Writer, ws *workspace.Workspace, skipped func(workspace.Package) bool) {
	printInfo(w, "%d packages from %s", len(ws.Packages), ws.Source)

	width := 0
	for _, p := range ws.Packages {
		width = max(width, lipgloss.Width(p.Name))
	}
	nameStyle := StyleHighlight.Width(width + 2)
	versionStyle := StyleValue.Width(12)

	for _, p := range ws.Packages {
		version := p.Version
		if version == "" {
			version = "-"
		}

		line := "  " + nameStyle.Render(p.Name) + versionStyle.Render(version) + StyleDim.Render(p.Dir)
		if p.Private {
			line += " " + StyleWarning.Render("private")
		}
		if skipped(p) {
			line += " " + StyleDim.Render("skipped")
		}
		fmt.Fprintln(w, line)
	}
}
