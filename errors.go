// FILE: lixenwraith/execution/errors.go
package execution

import (
	"errors"
	"fmt"
	"strings"
)

// Declaration errors. These indicate a programming error in an option group
// and abort binding immediately.
var (
	ErrNotStatic       = errors.New("option can only be applied to package-level storage")
	ErrFinalOption     = errors.New("option cannot be final")
	ErrDuplicateOption = errors.New("multiple declarations of option")
)

// Binding errors
var (
	ErrTypeMismatch       = errors.New("setting an array to a non-array field")
	ErrInvalidType        = errors.New("invalid type")
	ErrUnrecognizedOption = errors.New("unrecognized option")
	ErrMissingRequired    = errors.New("missing required option")
)

// Discovery and source errors
var (
	ErrClassNotFound   = errors.New("class not found")
	ErrNotDirectory    = errors.New("not a directory")
	ErrNoSuchDirectory = errors.New("could not find directory")
	ErrNoMoreFiles     = errors.New("no more elements")
	ErrCLIParse        = errors.New("failed to parse command-line arguments")
	ErrConfigNotFound  = errors.New("configuration file not found")
)

// BindError reports a failed assignment of a raw value to an option field.
type BindError struct {
	Field string // fully qualified field name
	Value string // raw value that was being assigned
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cannot assign option field: %s value: %q cause: %v", e.Field, e.Value, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// MissingOption names one required option that no property fulfilled.
type MissingOption struct {
	Name  string // canonical option name
	Field string // fully qualified field name
}

// MissingOptionsError aggregates every unfulfilled required option of a run.
type MissingOptionsError struct {
	Missing []MissingOption
}

func (e *MissingOptionsError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s <in %s>", m.Name, m.Field))
	}
	return fmt.Sprintf("%d missing required option(s): %s", len(e.Missing), strings.Join(parts, ", "))
}

func (e *MissingOptionsError) Unwrap() error {
	return ErrMissingRequired
}
