package depgraph

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

// Dependency field names as they appear in package.json.
const (
	FieldPeerDependencies = "peerDependencies"
	FieldDevDependencies  = "devDependencies"
)

// MissingFieldError reports a non-skipped package without a
// peerDependencies or devDependencies block.
type MissingFieldError struct {
	Package string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("no %s in %s", e.Field, e.Package)
}

// Code implements errs.Coder.
func (e *MissingFieldError) Code() errs.Code { return errs.ErrCodeMissingDependencyField }

// MismatchError reports a package whose workspace-scoped peer dependencies
// and dev dependencies differ. Peers and Devs are the sorted name@version
// tokens that were compared.
type MismatchError struct {
	Package string
	Peers   []string
	Devs    []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("peers and dev deps not congruent in %s\ndevs: %s\npeers: %s",
		e.Package, strings.Join(e.Devs, ","), strings.Join(e.Peers, ","))
}

// Code implements errs.Coder.
func (e *MismatchError) Code() errs.Code { return errs.ErrCodePeerDevMismatch }

// OnlyPeers returns tokens declared as peers but missing from devs.
func (e *MismatchError) OnlyPeers() []string { return difference(e.Peers, e.Devs) }

// OnlyDevs returns tokens declared as devs but missing from peers.
func (e *MismatchError) OnlyDevs() []string { return difference(e.Devs, e.Peers) }

// DuplicateError reports two input records with the same package name.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate package name %s", e.Name)
}

// Code implements errs.Coder.
func (e *DuplicateError) Code() errs.Code { return errs.ErrCodeDuplicatePackage }

func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	var out []string
	for _, s := range a {
		if !in[s] {
			out = append(out, s)
		}
	}
	return out
}
