// pkg/execx/execx_test.go
package execx

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdRunnerCapturesExitAndStreams(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	res, err := runner.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")

	require.NoError(t, err, "a non-zero exit is data, not an error")
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Succeeded())
	assert.Contains(t, res.Stdout, "out")
	assert.Contains(t, res.Stderr, "err")
}

func TestCmdRunnerSuccess(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	res, err := runner.Run(context.Background(), "sh", "-c", "true")

	require.NoError(t, err)
	assert.True(t, res.Succeeded())
}

func TestCmdRunnerMissingBinary(t *testing.T) {
	runner := NewRunner(zerolog.Nop())

	_, err := runner.Run(context.Background(), "definitely-not-a-real-command-io2u3")

	assert.Error(t, err)
}

func TestCmdRunnerCancellation(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, "sh", "-c", "sleep 30")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFakeRunnerScripting(t *testing.T) {
	fake := NewFakeRunner()
	fake.Respond("apt-get update", Result{ExitCode: 100})
	fake.FailWith("missing-tool --version", errors.New("not found"))

	res, err := fake.Run(context.Background(), "apt-get", "update")
	require.NoError(t, err)
	assert.Equal(t, 100, res.ExitCode)

	_, err = fake.Run(context.Background(), "missing-tool", "--version")
	assert.Error(t, err)

	res, err = fake.Run(context.Background(), "anything", "else")
	require.NoError(t, err)
	assert.True(t, res.Succeeded(), "unscripted commands succeed by default")

	assert.Equal(t, []string{
		"apt-get update",
		"missing-tool --version",
		"anything else",
	}, fake.Lines())
}
