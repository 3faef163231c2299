package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/depgraph"
	errs "github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/pipeline"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand(fl *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Verify peer/dev dependency congruence for every package",
		Long: `Check loads the workspace and reports every package whose workspace
peerDependencies are not mirrored exactly in devDependencies, instead of
stopping at the first one. It exits non-zero when any violation is found.`,
		Args: cobra.MaximumNArgs(1),
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
			opts := pipeline.Options{Root: root, Config: cfg}
			bopts, err := runner.BuildOptions(ws, opts)
			if err != nil {
				return err
			}
			violations, err := runner.Check(ws, opts)
			if err != nil {
				return err
			}

			printCheckReport(cmd.OutOrStdout(), ws, bopts.Policy, violations)
			if len(violations) > 0 {
				return errs.New(errs.GetCode(violations[0]), "%d violation(s) in %s", len(violations), ws.Root)
			}
			return nil
		},
	}
}

// printCheckReport prints one line per package followed by the details of
// its violations.
func printCheckReport(w io.Writer, ws *workspace.Workspace, policy depgraph.SkipPolicy, violations []error) {
	byPackage := make(map[string][]error)
	for _, v := range violations {
		name := violationPackage(v)
		byPackage[name] = append(byPackage[name], v)
	}

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s (%d packages)", ws.Manifest.Name, len(ws.Packages))))
	seen := make(map[string]bool, len(ws.Packages))
	for _, p := range ws.Packages {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		switch {
		case len(byPackage[p.Name]) > 0:
			printError(w, "%s", p.Name)
			for _, v := range byPackage[p.Name] {
				for _, line := range violationDetails(v) {
					printDetail(w, "%s", line)
				}
			}
		case policy.Skips(p):
			printInfo(w, "%s %s", p.Name, StyleDim.Render("skipped"))
		default:
			printSuccess(w, "%s", p.Name)
		}
	}

	fmt.Fprintln(w)
	if len(violations) == 0 {
		printSuccess(w, "All packages congruent")
		return
	}
	printWarning(w, "%d violation(s) in %d package(s)", len(violations), len(byPackage))
}

func violationPackage(err error) string {
	var (
		missing   *depgraph.MissingFieldError
		mismatch  *depgraph.MismatchError
		duplicate *depgraph.DuplicateError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Package
	case errors.As(err, &mismatch):
		return mismatch.Package
	case errors.As(err, &duplicate):
		return duplicate.Name
	}
	return ""
}

func violationDetails(err error) []string {
	var (
		missing  *depgraph.MissingFieldError
		mismatch *depgraph.MismatchError
	)
	switch {
	case errors.As(err, &missing):
		return []string{"missing " + missing.Field}
	case errors.As(err, &mismatch):
		var lines []string
		if only := mismatch.OnlyPeers(); len(only) > 0 {
			lines = append(lines, "only in peerDependencies: "+strings.Join(only, ", "))
		}
		if only := mismatch.OnlyDevs(); len(only) > 0 {
			lines = append(lines, "only in devDependencies: "+strings.Join(only, ", "))
		}
		return lines
	}
	return []string{err.Error()}
}
