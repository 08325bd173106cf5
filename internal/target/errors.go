package target

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports a config file that does not exist yet. Callers match
// it with errors.Is; the concrete error carries the target and path.
var ErrNotFound = errors.New("config file not found")

// NotFoundError tags ErrNotFound with the target and path it occurred on.
type NotFoundError struct {
	TargetID string
	Path     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s: config file not found", e.TargetID, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedDocumentError reports a config file whose content is not
// parseable JSON at all.
type MalformedDocumentError struct {
	TargetID string
	Path     string
	Err      error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: %s: malformed document: %v", e.TargetID, e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// InvalidConfigError reports a parseable document whose entries violate the
// expected shape. Problems holds one field-level message per violation.
type InvalidConfigError struct {
	TargetID string
	Path     string
	Problems []string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s: %s: invalid config:\n  - %s",
		e.TargetID, e.Path, strings.Join(e.Problems, "\n  - "))
}

// IOError reports a filesystem failure during a read, backup, or write.
type IOError struct {
	TargetID string
	Path     string
	Op       string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %s failed: %v", e.TargetID, e.Path, e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
