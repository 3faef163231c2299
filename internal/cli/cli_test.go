package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// workspaceFixture creates @ws/app depending on @ws/lib, with the given
// devDependencies for @ws/app.
func workspaceFixture(t *testing.T, appDevDeps string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"),
		`{"name": "@ws/root", "private": true, "workspaces": ["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages", "app", "package.json"), `{
		"name": "@ws/app",
		"version": "0.1.0",
		"private": true,
		"dependencies": {"@ws/lib": "1.0.0"},
		"peerDependencies": {"@ws/lib": "1.0.0"},
		"devDependencies": `+appDevDeps+`
	}`)
	writeFile(t, filepath.Join(root, "packages", "lib", "package.json"),
		`{"name": "@ws/lib", "version": "1.0.0", "peerDependencies": {}, "devDependencies": {}}`)
	return root
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const wantDOT = "digraph \"G\" {\n" +
	"  \"@ws/app\" [style=dashed];\n" +
	"  \"@ws/lib\";\n" +
	"\n" +
	"  \"@ws/app\" -> \"@ws/lib\";\n" +
	"  \"@ws/app\" -> \"@ws/lib\" [style=dotted];\n" +
	"}\n"

func TestRootCommand_PrintsDOT(t *testing.T) {
	root := workspaceFixture(t, `{"@ws/lib": "1.0.0"}`)

	out, err := run(t, root)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if out != wantDOT {
		t.Errorf("stdout =\n%s\nwant\n%s", out, wantDOT)
	}
}

func TestRootCommand_WritesFile(t *testing.T) {
	root := workspaceFixture(t, `{"@ws/lib": "1.0.0"}`)
	path := filepath.Join(t.TempDir(), "graph.dot")

	out, err := run(t, root, "-o", path)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != wantDOT {
		t.Errorf("file =\n%s\nwant\n%s", data, wantDOT)
	}
	if !strings.Contains(out, path) {
		t.Errorf("stdout should mention %s, got %q", path, out)
	}
}

func TestRootCommand_Mismatch(t *testing.T) {
	root := workspaceFixture(t, `{"@ws/lib": "2.0.0"}`)
	path := filepath.Join(t.TempDir(), "graph.dot")

	_, err := run(t, root, "-o", path)
	if !errs.Is(err, errs.ErrCodePeerDevMismatch) {
		t.Fatalf("error = %v, want PEER_DEV_MISMATCH", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no output should be written when congruence fails")
	}
}

func TestRootCommand_FlagsOverrideConfigFile(t *testing.T) {
	root := workspaceFixture(t, `{"@ws/lib": "2.0.0"}`)
	writeFile(t, filepath.Join(root, "wsgraph.toml"), `
output_format = "svg"
exclude = ["@ws/app"]
`)

	// The file excludes the mismatching package; -f "" restores DOT output.
	out, err := run(t, root, "-f", "")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if want := "digraph \"G\" {\n  \"@ws/lib\";\n}\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	// An explicit --exclude replaces the configured list.
	_, err = run(t, root, "-f", "", "--exclude", "@ws/other")
	if !errs.Is(err, errs.ErrCodePeerDevMismatch) {
		t.Errorf("error = %v, want PEER_DEV_MISMATCH", err)
	}
}

func TestRootCommand_InvalidSkipMode(t *testing.T) {
	root := workspaceFixture(t, `{"@ws/lib": "1.0.0"}`)

	_, err := run(t, root, "--skip-mode", "later")
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Run("congruent", func(t *testing.T) {
		root := workspaceFixture(t, `{"@ws/lib": "1.0.0"}`)
		out, err := run(t, "check", root)
		if err != nil {
			t.Fatalf("check error: %v", err)
		}
		if !strings.Contains(out, "All packages congruent") {
			t.Errorf("check output = %q", out)
		}
	})

	t.Run("violations", func(t *testing.T) {
		root := workspaceFixture(t, `{"@ws/lib": "2.0.0"}`)
		out, err := run(t, "check", root)
		if !errs.Is(err, errs.ErrCodePeerDevMismatch) {
			t.Fatalf("check error = %v, want PEER_DEV_MISMATCH", err)
		}
		for _, want := range []string{
			"only in peerDependencies: @ws/lib@1.0.0",
			"only in devDependencies: @ws/lib@2.0.0",
			"1 violation(s)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("check output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("excluded package", func(t *testing.T) {
		root := workspaceFixture(t, `{"@ws/lib": "2.0.0"}`)
		out, err := run(t, "check", root, "--exclude", "@ws/app")
		if err != nil {
			t.Fatalf("check error: %v", err)
		}
		if !strings.Contains(out, "skipped") {
			t.Errorf("check output should mark @ws/app skipped:\n%s", out)
		}
	})
}

func TestListCommand(t *testing.T) {
	root := workspaceFixture(t, `{"@ws/lib": "1.0.0"}`)

	out, err := run(t, "list", root)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	for _, want := range []string{"2 packages from package.json", "@ws/app", "packages/app", "private", "@ws/lib", "@ws/"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := t.TempDir()

	runCache := func(args ...string) string {
		t.Helper()
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		root := New(io.Discard, LogInfo).RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v error: %v", args, err)
		}
		return out.String()
	}

	if got, want := runCache("cache", "path"), filepath.Join(cacheHome, appName)+"\n"; got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
	if out := runCache("cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("cache clear on missing dir = %q", out)
	}

	writeFile(t, filepath.Join(cacheHome, appName, "ab", "abcdef.json"), `{"data":"","expires_at":"2100-01-01T00:00:00Z"}`)
	if out := runCache("cache", "clear"); !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear = %q", out)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.Contains(out, "version") {
		t.Errorf("--version output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "wsgraph") {
		t.Error("bash completion should mention the command name")
	}
}

func TestFlagValueCompletion(t *testing.T) {
	tests := []struct {
		flag string
		want []string
	}{
		{"--skip-mode", []string{"omit", "source"}},
		{"--output-format", []string{"svg", "png"}},
		{"--graphviz-command", []string{"dot", "neato"}},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			out, err := run(t, cobra.ShellCompRequestCmd, tt.flag, "")
			if err != nil {
				t.Fatalf("completion error: %v", err)
			}
			lines := strings.Split(out, "\n")
			for _, want := range tt.want {
				if !slices.Contains(lines, want) {
					t.Errorf("completions for %s = %q, missing %q", tt.flag, out, want)
				}
			}
		})
	}
}
