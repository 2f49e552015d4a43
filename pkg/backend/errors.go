// pkg/backend/errors.go
package backend

import (
	"errors"
	"fmt"
)

// ErrBootstrap indicates a backend precondition step (service activation,
// symlink creation, remote registration) failed. It blocks all further
// operations for that backend within the call.
var ErrBootstrap = errors.New("backend bootstrap failed")

// UnsupportedError indicates the requested backend has no recipe for the
// needed operation.
type UnsupportedError struct {
	Backend Type
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported backend: %s", e.Backend)
}

// ExecError indicates a backend command exited non-zero. It carries the
// backend, the package ref and the failing stage.
type ExecError struct {
	Backend  Type
	Package  string
	Stage    string // install, remove, refresh, upgrade, ...
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s %s: exit status %d", e.Backend, e.Stage, e.Package, e.ExitCode)
	}
	return fmt.Sprintf("%s %s: exit status %d", e.Backend, e.Stage, e.ExitCode)
}

func bootstrapErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrBootstrap)...)
}
