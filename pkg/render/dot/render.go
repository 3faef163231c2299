package dot

import (
	"bytes"
	"context"
	"maps"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

// DefaultCommand is the layout engine used when none is configured.
const DefaultCommand = "dot"

// embeddedFormats are the output formats the in-process engine can produce.
var embeddedFormats = map[string]graphviz.Format{
	"dot":  graphviz.XDOT,
	"svg":  graphviz.SVG,
	"png":  graphviz.PNG,
	"jpg":  graphviz.JPG,
	"jpeg": graphviz.JPG,
}

// embeddedLayouts are the layout engines compiled into go-graphviz.
var embeddedLayouts = map[string]graphviz.Layout{
	"dot":       graphviz.DOT,
	"neato":     graphviz.NEATO,
	"fdp":       graphviz.FDP,
	"sfdp":      graphviz.SFDP,
	"circo":     graphviz.CIRCO,
	"twopi":     graphviz.TWOPI,
	"osage":     graphviz.OSAGE,
	"patchwork": graphviz.PATCHWORK,
}

// EmbeddedFormats returns the sorted output formats rendered in-process.
func EmbeddedFormats() []string { return slices.Sorted(maps.Keys(embeddedFormats)) }

// EmbeddedLayouts returns the sorted layout engines available in-process.
func EmbeddedLayouts() []string { return slices.Sorted(maps.Keys(embeddedLayouts)) }

// formatRe accepts Graphviz -T values such as "svg", "png:cairo" or "plain-ext".
var formatRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_:-]*$`)

// Renderer lays out DOT source with a Graphviz engine.
//
// With no Directory set and a format/engine pair the embedded engine
// supports, rendering happens in-process via go-graphviz. Otherwise the
// Graphviz binary named by Command is executed, looked up in Directory when
// set and on PATH when not.
type Renderer struct {
	Command   string // layout engine: dot, neato, fdp, ...
	Directory string // directory holding the Graphviz binaries
}

// Render lays out dot and returns it encoded in format.
func (r Renderer) Render(ctx context.Context, dot, format string) ([]byte, error) {
	if !formatRe.MatchString(format) {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "invalid output format %q", format)
	}
	if r.Embedded(format) {
		return renderEmbedded(ctx, dot, embeddedLayouts[r.command()], embeddedFormats[format])
	}
	return r.renderExternal(ctx, dot, format)
}

// Embedded reports whether format would be rendered in-process.
func (r Renderer) Embedded(format string) bool {
	if r.Directory != "" {
		return false
	}
	_, okFormat := embeddedFormats[format]
	_, okLayout := embeddedLayouts[r.command()]
	return okFormat && okLayout
}

func (r Renderer) command() string {
	if r.Command == "" {
		return DefaultCommand
	}
	return r.Command
}

func renderEmbedded(ctx context.Context, dot string, layout graphviz.Layout, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

// renderExternal shells out to the Graphviz binary, feeding DOT on stdin.
func (r Renderer) renderExternal(ctx context.Context, dot, format string) ([]byte, error) {
	bin := r.command()
	if r.Directory != "" {
		bin = filepath.Join(r.Directory, bin)
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err,
			"graphviz command %q not found. Install Graphviz or pass --graphviz-directory", bin)
	}

	cmd := exec.CommandContext(ctx, path, "-T"+format)
	cmd.Stdin = strings.NewReader(dot)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRender, err, "%s -T%s: %s", bin, format, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
