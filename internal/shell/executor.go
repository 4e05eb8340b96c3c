// Package shell runs commands through a privileged shell and reads kernel
// virtual files with them.
package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"xtra-telemetry/internal/logger"
)

var ErrEmptyOutput = errors.New("empty output")

// Executor runs one shell command line and returns its stdout.
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
}

// SuExecutor wraps every command as `<binary> -c <command>`.
type SuExecutor struct {
	binary  string
	timeout time.Duration
	log     logger.Logger
}

func NewSuExecutor(binary string, timeout time.Duration, log logger.Logger) *SuExecutor {
	if binary == "" {
		binary = "su"
	}

	return &SuExecutor{
		binary:  binary,
		timeout: timeout,
		log:     log,
	}
}

func (e *SuExecutor) Execute(ctx context.Context, command string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := NewCommand(e.binary, "-c", command).Run(ctx)
	if err != nil {
		e.log.Debug("shell: command failed", "command", command, "error", err)
		return "", err
	}

	return out, nil
}

func CatCommand(path string) string {
	return fmt.Sprintf("cat %s 2>/dev/null", path)
}

func ExistsCommand(path string) string {
	return fmt.Sprintf("[ -e %s ] && echo 1", path)
}

// ReadFile returns the trimmed content of a virtual file.
func ReadFile(ctx context.Context, exec Executor, path string) (string, error) {
	out, err := exec.Execute(ctx, CatCommand(path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("read %s: %w", path, ErrEmptyOutput)
	}

	return out, nil
}

func Exists(ctx context.Context, exec Executor, path string) bool {
	out, err := exec.Execute(ctx, ExistsCommand(path))
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "1"
}

// Run executes a command and trims its output. Empty output is an error.
func Run(ctx context.Context, exec Executor, command string) (string, error) {
	out, err := exec.Execute(ctx, command)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%s: %w", command, ErrEmptyOutput)
	}

	return out, nil
}
