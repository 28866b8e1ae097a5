package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spitkov/yns/internal/common/fetch"
	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/script"
)

// Executor performs one lifecycle action for a package
type Executor interface {
	Perform(ctx context.Context, scriptURL string, op Operation, name string) error
}

// ScriptExecutor downloads a lifecycle script to a temporary file and runs it
type ScriptExecutor struct {
	fetcher fetch.Fetcher
	runner  script.Runner
	tempDir string
	timeout time.Duration
}

// ExecutorOption is a functional option for configuring ScriptExecutor
type ExecutorOption func(*ScriptExecutor)

// WithTempDir sets the directory scripts are written to; empty means os.TempDir()
func WithTempDir(dir string) ExecutorOption {
	return func(e *ScriptExecutor) {
		e.tempDir = dir
	}
}

// WithScriptTimeout bounds every script run; 0 disables the deadline
func WithScriptTimeout(d time.Duration) ExecutorOption {
	return func(e *ScriptExecutor) {
		e.timeout = d
	}
}

// NewScriptExecutor creates an executor fetching with f and running with r
func NewScriptExecutor(f fetch.Fetcher, r script.Runner, opts ...ExecutorOption) *ScriptExecutor {
	e := &ScriptExecutor{fetcher: f, runner: r}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Perform fetches scriptURL, runs it and classifies the result.
// The temporary script file is removed on every path.
func (e *ScriptExecutor) Perform(ctx context.Context, scriptURL string, op Operation, name string) error {
	body, err := e.fetcher.Fetch(ctx, scriptURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	path, err := e.writeScript(body, op, name)
	if path != "" {
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Debug("could not remove %s: %v", path, rmErr)
			}
		}()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	logger.Debug("running %s script for %s: %s", op, name, path)
	outcome, err := e.runner.Run(runCtx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptAbnormal, err)
	}
	logger.Debug("%s script for %s finished: exited=%t code=%d %s",
		op, name, outcome.Exited, outcome.ExitCode, outcome.Detail)

	switch {
	case outcome.Success():
		return nil
	case outcome.Exited:
		return &ScriptError{Op: op, ExitCode: outcome.ExitCode}
	default:
		return fmt.Errorf("%w: %s", ErrScriptAbnormal, outcome.Detail)
	}
}

// writeScript stores body in a fresh executable file. The returned path is
// set whenever a file was created, even if a later step failed.
func (e *ScriptExecutor) writeScript(body []byte, op Operation, name string) (string, error) {
	f, err := os.CreateTemp(e.tempDir, fmt.Sprintf("yns_%s_%s_*.sh", op, sanitizeName(name)))
	if err != nil {
		return "", err
	}
	path := f.Name()

	if _, err := f.Write(body); err != nil {
		f.Close()
		return path, err
	}
	if err := f.Close(); err != nil {
		return path, err
	}
	if err := os.Chmod(path, 0755); err != nil {
		return path, err
	}
	return path, nil
}

// sanitizeName keeps package names from escaping the temp directory
func sanitizeName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c == '/' || c == os.PathSeparator || c == '*' {
			b[i] = '_'
		}
	}
	return string(b)
}

// Ensure ScriptExecutor implements Executor
var _ Executor = (*ScriptExecutor)(nil)
