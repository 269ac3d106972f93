package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external binary and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand is the default CommandRunner. Output is included in the error so
// ffmpeg and friends explain themselves.
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// StreamingRunner returns a CommandRunner that mirrors process output to w
// while it runs. Used for verbose mode.
func StreamingRunner(w io.Writer) CommandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
		cmd.Stdout = w
		cmd.Stderr = w
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, nil
	}
}

// EnvRunner returns a CommandRunner that behaves like RunCommand with extra
// KEY=VALUE entries appended to the inherited environment.
func EnvRunner(env ...string) CommandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
		cmd.Env = append(os.Environ(), env...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return output, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
		}
		return output, nil
	}
}
