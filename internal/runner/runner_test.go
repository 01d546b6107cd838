package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Run(t *testing.T) {
	t.Run("captures stdout and stderr", func(t *testing.T) {
		requireShell(t)

		res, err := NewExecRunner().Run(context.Background(), "sh", "-c", "echo out; echo err >&2")

		require.NoError(t, err)
		assert.Equal(t, "out\n", res.Stdout)
		assert.Equal(t, "err\n", res.Stderr)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("maps a non-zero exit to a process error", func(t *testing.T) {
		requireShell(t)

		res, err := NewExecRunner().Run(context.Background(), "sh", "-c", "echo 'fatal: nope' >&2; exit 3")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrRunCommand))
		assert.True(t, domainErrors.IsType(err, domainErrors.TypeProcess))
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "fatal: nope", Stderr(err))
		assert.Contains(t, err.Error(), "fatal: nope")
	})

	t.Run("missing executable", func(t *testing.T) {
		res, err := NewExecRunner().Run(context.Background(), "ghl-definitely-not-a-binary")

		require.Error(t, err)
		assert.Equal(t, -1, res.ExitCode)
		assert.True(t, errors.Is(err, domainErrors.ErrRunCommand))
	})

	t.Run("runs in the configured directory", func(t *testing.T) {
		requireShell(t)
		dir := t.TempDir()

		res, err := (&ExecRunner{Dir: dir}).Run(context.Background(), "sh", "-c", "pwd -P")

		require.NoError(t, err)
		assert.NotEmpty(t, res.Stdout)
	})
}

func TestStderr_NonAppError(t *testing.T) {
	assert.Empty(t, Stderr(errors.New("plain")))
}
