package workspace

import (
	"encoding/json"
	"os"
	"strings"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

// ManifestName is the file name of a package manifest.
const ManifestName = "package.json"

// Package is a workspace package as declared by its package.json.
type Package struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Private          bool              `json:"private"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`

	// Dir is the manifest directory relative to the workspace root,
	// slash-separated.
	Dir string `json:"-"`
}

// Scope returns the npm scope of the package name including the trailing
// slash ("@moodlenet/" for "@moodlenet/core"), or "" for unscoped names.
func (p Package) Scope() string {
	if !strings.HasPrefix(p.Name, "@") {
		return ""
	}
	i := strings.IndexByte(p.Name, '/')
	if i < 0 {
		return ""
	}
	return p.Name[:i+1]
}

// manifestFile is the subset of package.json read by the loader. The root
// manifest additionally carries the workspaces declaration.
type manifestFile struct {
	Package
	Workspaces workspacesField `json:"workspaces"`
}

// workspacesField accepts both the npm/yarn array form and the yarn
// {"packages": [...]} object form.
type workspacesField []string

func (w *workspacesField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*w = list
		return nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = obj.Packages
	return nil
}

// ReadManifest parses the package.json at path. The package must have a
// name that passes [errs.ValidatePackageName].
func ReadManifest(path string) (*Package, error) {
	m, err := decodeManifest(path)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "%s: missing \"name\"", path)
	}
	if err := errs.ValidatePackageName(m.Name); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPackage, err, "%s", path)
	}
	return &m.Package, nil
}

func decodeManifest(path string) (*manifestFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read manifest")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "read manifest")
	}

	var m manifestFile
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return &m, nil
}
