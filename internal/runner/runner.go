package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/ghl/internal/errors"
	"github.com/thomas-vilte/ghl/internal/logger"
)

// Result holds what a finished process printed.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external program and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs programs with os/exec in Dir (the working directory when empty).
type ExecRunner struct {
	Dir string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run returns ErrRunCommand carrying stderr and the exit code when the
// program exits non-zero or cannot be started.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	logger.Debug(ctx, "running command", "command", name, "args", strings.Join(args, " "))

	runErr := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		logger.Debug(ctx, "command failed", "command", name, "exit_code", result.ExitCode, "stderr", strings.TrimSpace(result.Stderr))
		return result, domainErrors.ErrRunCommand.
			WithError(runErr).
			WithContext("command", name+" "+strings.Join(args, " ")).
			WithContext("exit_code", result.ExitCode).
			WithContext("stderr", strings.TrimSpace(result.Stderr))
	}

	logger.Debug(ctx, "command finished", "command", name, "elapsed", time.Since(start))
	return result, nil
}

// Stderr returns the captured stderr attached to a runner error.
func Stderr(err error) string {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		if s, ok := appErr.Context["stderr"].(string); ok {
			return s
		}
	}
	return ""
}
