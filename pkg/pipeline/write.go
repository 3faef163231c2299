package pipeline

import (
	"io"
	"os"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

// Write writes data to path, or to stdout when path is empty.
func Write(data []byte, path string, stdout io.Writer) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return errs.Wrap(errs.ErrCodeOutputWrite, err, "write stdout")
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeOutputWrite, err, "write %s", path)
	}
	return nil
}
