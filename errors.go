// errors.go
package stationctl

import (
	"errors"
	"fmt"

	"github.com/station-tools/stationctl/pkg/backend"
)

var (
	// ErrRootRequired indicates the operation needs elevated privilege
	ErrRootRequired = errors.New("root privilege required")

	// ErrNetworkRequired indicates the operation needs connectivity
	ErrNetworkRequired = errors.New("network connectivity required")

	// ErrPackageNotFound indicates the package is absent from the
	// backend's index or repository
	ErrPackageNotFound = errors.New("package not found")

	// ErrBootstrap indicates a backend precondition step failed
	ErrBootstrap = backend.ErrBootstrap
)

// Re-export backend error types for callers that only import the root
// package.
type (
	ExecError        = backend.ExecError
	UnsupportedError = backend.UnsupportedError
)

// Error wraps an operation failure with its context.
type Error struct {
	Op      string       // install, uninstall, update
	Backend backend.Type // backend in use, if resolved
	Package string       // package ref, if applicable
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Package != "" && e.Backend != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Package, e.Backend, e.Err)
	case e.Package != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
