// Package command runs external tools such as yt-dlp and WhisperX.
//
// Each process starts in its own process group. When the context ends the
// whole group is killed, so helper processes (ffmpeg spawned by yt-dlp,
// python workers spawned by uvx) do not outlive the call.
package command

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"captioner/internal/services"
)

// Runner executes a command and reports failure with its trimmed output.
type Runner func(ctx context.Context, name string, args ...string) error

// OutputRunner executes a command and returns its combined output.
type OutputRunner func(ctx context.Context, name string, args ...string) (string, error)

// waitDelay bounds how long Wait blocks on inherited pipes after a kill.
const waitDelay = 5 * time.Second

const maxOutputTail = 2048

// Run executes name with args and the current environment.
func Run(ctx context.Context, name string, args ...string) error {
	return RunEnv(ctx, nil, name, args...)
}

// RunEnv executes name with extra environment entries appended.
func RunEnv(ctx context.Context, env []string, name string, args ...string) error {
	_, err := run(ctx, env, name, args)
	return err
}

// Output executes name with args and returns its trimmed combined output.
// On failure the output is still returned alongside the classified error.
func Output(ctx context.Context, name string, args ...string) (string, error) {
	output, err := run(ctx, nil, name, args)
	return strings.TrimSpace(string(output)), err
}

func run(ctx context.Context, env []string, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	configureProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	output, err := cmd.CombinedOutput()
	if err == nil {
		return output, nil
	}
	return output, classify(ctx, name, output, err)
}

// IsNotFound reports whether err means the executable could not be started.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// IsTimeout reports whether err came from an expired deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, services.ErrTimeout)
}

// IsExit reports whether the process ran and exited with a non-zero status.
func IsExit(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func classify(ctx context.Context, name string, output []byte, err error) error {
	switch {
	case IsNotFound(err):
		return services.Wrap(services.ErrExternalTool, name, "start", "executable not found", err)
	case ctx.Err() != nil:
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, name, "run", "process group killed after deadline", ctx.Err())
		}
		return services.Wrap(services.ErrTransient, name, "run", "process group killed after cancellation", ctx.Err())
	default:
		return services.Wrap(services.ErrExternalTool, name, "run", tail(output), err)
	}
}

func tail(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > maxOutputTail {
		text = "..." + text[len(text)-maxOutputTail:]
	}
	return text
}
