package resolve

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound marks a candidate the default resolver could not locate.
	ErrNotFound = errors.New("module not found")

	// ErrDirectoryImport marks a candidate that names a directory rather
	// than a file.
	ErrDirectoryImport = errors.New("directory import not supported")
)

// NotFoundError reports the candidate that failed to resolve.
type NotFoundError struct {
	Specifier string
	Path      string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" && e.Path != e.Specifier {
		return fmt.Sprintf("cannot find module %q (probed %s)", e.Specifier, e.Path)
	}
	return fmt.Sprintf("cannot find module %q", e.Specifier)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err means the candidate does not exist as an
// importable file. These are the only errors that advance the fallback chain
// under FallbackNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDirectoryImport) ||
		errors.Is(err, fs.ErrNotExist)
}
