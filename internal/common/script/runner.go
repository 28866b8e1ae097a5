package script

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultShell runs files that the kernel refuses to execute directly
const DefaultShell = "/bin/sh"

const (
	busyRetries = 3
	busyDelay   = 50 * time.Millisecond
)

// ExecRunner runs scripts as child processes attached to the given streams
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Shell interprets files without a "#!" line
	Shell string
}

// NewExecRunner creates an ExecRunner bound to the process standard streams
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Shell:  DefaultShell,
	}
}

// Run executes path directly. A file without an interpreter line is handed
// to the shell, the same way a shell treats it.
func (r *ExecRunner) Run(ctx context.Context, path string) (Outcome, error) {
	outcome, err := r.run(ctx, path)
	// A freshly written file can still be held open by a concurrent fork.
	for attempt := 0; attempt < busyRetries && errors.Is(err, syscall.ETXTBSY); attempt++ {
		time.Sleep(busyDelay)
		outcome, err = r.run(ctx, path)
	}
	if err != nil && errors.Is(err, syscall.ENOEXEC) && r.Shell != "" {
		return r.run(ctx, r.Shell, path)
	}
	return outcome, err
}

func (r *ExecRunner) run(ctx context.Context, name string, args ...string) (Outcome, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return Outcome{Exited: true, ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return classify(ctx, exitErr.ProcessState), nil
	}

	return Outcome{}, err
}

// classify maps a finished process state onto an Outcome
func classify(ctx context.Context, state *os.ProcessState) Outcome {
	if state.Exited() {
		return Outcome{Exited: true, ExitCode: state.ExitCode()}
	}

	detail := state.String()
	if ctx.Err() != nil {
		detail += " (" + ctx.Err().Error() + ")"
	}
	return Outcome{Detail: detail}
}

// Ensure ExecRunner implements Runner interface
var _ Runner = (*ExecRunner)(nil)
