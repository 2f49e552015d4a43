// pkg/execx/execx.go
package execx

import (
	"context"
	"strings"

	gocmd "github.com/go-cmd/cmd"
	"github.com/rs/zerolog"
)

// maxOutputBytes caps how much of each output stream is retained.
const maxOutputBytes = 1 << 20 // 1 MiB

// Result holds the outcome of one external command invocation.
// A non-zero exit code is data, not an error; errors are reserved for
// commands that could not be started or were cancelled.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the command exited zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner is the single boundary through which all external commands run.
// Backends describe their recipes as argument lists and hand them here,
// which keeps the orchestration logic testable with a fake runner.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// CmdRunner executes commands on the host.
type CmdRunner struct {
	logger zerolog.Logger
}

// NewRunner creates a runner that logs every invocation at debug level.
func NewRunner(logger zerolog.Logger) *CmdRunner {
	return &CmdRunner{logger: logger}
}

// Run executes name with args, blocking until the command finishes or ctx
// is cancelled. Cancellation stops the child process.
func (r *CmdRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	r.logger.Debug().Str("command", name).Strs("args", args).Msg("executing command")

	c := gocmd.NewCmdOptions(gocmd.Options{Buffered: true}, name, args...)
	statusChan := c.Start()

	var status gocmd.Status
	select {
	case status = <-statusChan:
	case <-ctx.Done():
		_ = c.Stop()
		status = <-statusChan
		return Result{ExitCode: -1}, ctx.Err()
	}

	if status.Error != nil {
		return Result{ExitCode: -1}, status.Error
	}

	res := Result{
		ExitCode: status.Exit,
		Stdout:   joinLines(status.Stdout),
		Stderr:   joinLines(status.Stderr),
	}

	r.logger.Debug().
		Str("command", name).
		Int("exit", res.ExitCode).
		Msg("command finished")

	return res, nil
}

func joinLines(lines []string) string {
	out := strings.Join(lines, "\n")
	if len(out) > maxOutputBytes {
		out = out[:maxOutputBytes] + "\n[output truncated]"
	}
	return out
}
