package workspace

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func quietLoader() *Loader {
	return NewLoader(log.New(io.Discard))
}

func names(pkgs []Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

func TestLoad_PackageJSONWorkspaces(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name": "@ws/root", "private": true, "workspaces": ["packages/*"]}`)
	writeFile(t, root, "packages/b/package.json", `{"name": "@ws/b", "version": "1.0.0", "dependencies": {}, "devDependencies": {}, "peerDependencies": {}}`)
	writeFile(t, root, "packages/a/package.json", `{"name": "@ws/a", "version": "2.0.0", "private": true, "dependencies": {"@ws/b": "1.0.0"}}`)

	ws, err := quietLoader().Load(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, ManifestName, ws.Source)
	assert.Equal(t, "@ws/", ws.Scope())
	require.Equal(t, []string{"@ws/a", "@ws/b"}, names(ws.Packages))

	a := ws.Packages[0]
	assert.True(t, a.Private)
	assert.Equal(t, "packages/a", a.Dir)
	assert.Equal(t, map[string]string{"@ws/b": "1.0.0"}, a.Dependencies)
	assert.Nil(t, a.DevDependencies, "absent field must decode to nil")
	assert.Nil(t, a.PeerDependencies, "absent field must decode to nil")

	b := ws.Packages[1]
	assert.NotNil(t, b.DevDependencies, "empty object must decode to an empty map")
	assert.Empty(t, b.DevDependencies)
}

func TestLoad_YarnObjectWorkspaces(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"workspaces": {"packages": ["libs/*"], "nohoist": ["**/x"]}}`)
	writeFile(t, root, "libs/one/package.json", `{"name": "one"}`)

	ws, err := quietLoader().Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, names(ws.Packages))
	assert.Equal(t, "", ws.Scope())
}

func TestLoad_Lerna(t *testing.T) {
	t.Run("explicit packages", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"name": "root", "workspaces": ["ignored/*"]}`)
		writeFile(t, root, "lerna.json", `{"packages": ["modules/*"]}`)
		writeFile(t, root, "modules/m/package.json", `{"name": "m"}`)
		writeFile(t, root, "ignored/i/package.json", `{"name": "i"}`)

		ws, err := quietLoader().Load(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, lernaFile, ws.Source)
		assert.Equal(t, []string{"m"}, names(ws.Packages))
	})

	t.Run("default packages", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"name": "root"}`)
		writeFile(t, root, "lerna.json", `{"version": "independent"}`)
		writeFile(t, root, "packages/p/package.json", `{"name": "p"}`)

		ws, err := quietLoader().Load(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, []string{"packages/*"}, ws.Patterns)
		assert.Equal(t, []string{"p"}, names(ws.Packages))
	})

	t.Run("use workspaces", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"name": "root", "workspaces": ["apps/*"]}`)
		writeFile(t, root, "lerna.json", `{"useWorkspaces": true}`)
		writeFile(t, root, "apps/web/package.json", `{"name": "web"}`)

		ws, err := quietLoader().Load(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, ManifestName, ws.Source)
		assert.Equal(t, []string{"web"}, names(ws.Packages))
	})
}

func TestLoad_PNPM(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name": "root"}`)
	writeFile(t, root, "pnpm-workspace.yaml", "packages:\n  - 'apps/**'\n  - 'tools/cli'\n  - '!**/fixtures/**'\n")
	writeFile(t, root, "apps/web/package.json", `{"name": "web"}`)
	writeFile(t, root, "apps/group/api/package.json", `{"name": "api"}`)
	writeFile(t, root, "apps/web/fixtures/demo/package.json", `{"name": "demo"}`)
	writeFile(t, root, "apps/web/node_modules/dep/package.json", `{"name": "dep"}`)
	writeFile(t, root, "tools/cli/package.json", `{"name": "cli"}`)

	ws, err := quietLoader().Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, pnpmFile, ws.Source)
	assert.Equal(t, []string{"api", "web", "cli"}, names(ws.Packages))
}

func TestLoad_NegatedPatterns(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"workspaces": ["packages/*", "!packages/skip"]}`)
		writeFile(t, root, "packages/a/package.json", `{"name": "a"}`)
		writeFile(t, root, "packages/skip/package.json", `{"name": "skip"}`)

		ws, err := quietLoader().Load(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, names(ws.Packages))
	})

	t.Run("double star", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"workspaces": ["packages/**", "!**/examples/**"]}`)
		writeFile(t, root, "packages/a/package.json", `{"name": "a"}`)
		writeFile(t, root, "packages/a/examples/demo/package.json", `{"name": "demo"}`)
		writeFile(t, root, "packages/group/b/package.json", `{"name": "b"}`)

		ws, err := quietLoader().Load(context.Background(), root)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, names(ws.Packages))
	})
}

func TestLoad_Deduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"workspaces": ["packages/*", "packages/a"]}`)
	writeFile(t, root, "packages/a/package.json", `{"name": "a"}`)

	ws, err := quietLoader().Load(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, ws.Packages, 1)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  errs.Code
	}{
		{
			name:  "no root manifest",
			files: map[string]string{"packages/a/package.json": `{"name": "a"}`},
			code:  errs.ErrCodeFileNotFound,
		},
		{
			name:  "no workspaces",
			files: map[string]string{"package.json": `{"name": "solo"}`},
			code:  errs.ErrCodeInvalidManifest,
		},
		{
			name: "broken member manifest",
			files: map[string]string{
				"package.json":            `{"workspaces": ["packages/*"]}`,
				"packages/a/package.json": `{"name": `,
			},
			code: errs.ErrCodeInvalidManifest,
		},
		{
			name: "member without name",
			files: map[string]string{
				"package.json":            `{"workspaces": ["packages/*"]}`,
				"packages/a/package.json": `{"version": "1.0.0"}`,
			},
			code: errs.ErrCodeInvalidManifest,
		},
		{
			name: "member with invalid name",
			files: map[string]string{
				"package.json":            `{"workspaces": ["packages/*"]}`,
				"packages/a/package.json": `{"name": "../evil"}`,
			},
			code: errs.ErrCodeInvalidPackage,
		},
		{
			name: "pattern escaping root",
			files: map[string]string{
				"package.json": `{"workspaces": ["../elsewhere/*"]}`,
			},
			code: errs.ErrCodeInvalidManifest,
		},
		{
			name: "broken lerna.json",
			files: map[string]string{
				"package.json": `{"workspaces": ["packages/*"]}`,
				"lerna.json":   `[`,
			},
			code: errs.ErrCodeInvalidManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, root, rel, content)
			}
			_, err := quietLoader().Load(context.Background(), root)
			require.Error(t, err)
			assert.Equal(t, tt.code, errs.GetCode(err), "error: %v", err)
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"workspaces": ["packages/*"]}`)
	writeFile(t, root, "packages/a/package.json", `{"name": "a"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietLoader().Load(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPackageScope(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"@moodlenet/core", "@moodlenet/"},
		{"plain", ""},
		{"@broken", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (Package{Name: tt.name}).Scope(); got != tt.want {
			t.Errorf("Scope(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWorkspaceScope(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		packages []string
		want     string
	}{
		{"scoped root", "@ws/root", []string{"@other/a"}, "@ws/"},
		{"shared package scope", "monorepo", []string{"@acme/ui", "@acme/theme"}, "@acme/"},
		{"mixed package scopes", "monorepo", []string{"@acme/ui", "theme"}, ""},
		{"unscoped packages", "monorepo", []string{"ui", "theme"}, ""},
		{"no packages", "monorepo", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := &Workspace{Manifest: Package{Name: tt.root}}
			for _, name := range tt.packages {
				ws.Packages = append(ws.Packages, Package{Name: name})
			}
			assert.Equal(t, tt.want, ws.Scope())
		})
	}
}
