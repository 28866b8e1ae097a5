package output

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInterrupted is returned by ReadLine when its context ends before a
// line arrives
var ErrInterrupted = errors.New("input interrupted")

// clearSequence moves the cursor home and clears the screen
const clearSequence = "\033[H\033[2J"

// Terminal reports progress and asks questions on a terminal.
// It shares its input reader with the interactive shell so that buffered
// input is never lost between a prompt and the next command line.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer

	// AssumeYes answers every confirmation with yes without reading input
	AssumeYes bool
	// Quiet suppresses progress and success lines; errors are always shown
	Quiet bool
	// isTerminal reports whether out is attached to a terminal
	isTerminal func() bool
}

// NewTerminal creates a Terminal reading answers from in
func NewTerminal(in *bufio.Reader, out, errOut io.Writer) *Terminal {
	return &Terminal{
		in:         in,
		out:        out,
		err:        errOut,
		isTerminal: IsTerminal,
	}
}

// NewStdTerminal creates a Terminal bound to the process standard streams
func NewStdTerminal() *Terminal {
	return NewTerminal(bufio.NewReader(os.Stdin), os.Stdout, os.Stderr)
}

type readResult struct {
	line string
	err  error
}

// ReadLine reads one line from the shared input, or returns ErrInterrupted
// once ctx is done. An interrupted read keeps waiting in the background, so
// the Terminal must not be read again after ErrInterrupted.
func (t *Terminal) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	done := make(chan readResult, 1)
	go func() {
		line, err := t.in.ReadString('\n')
		done <- readResult{line: line, err: err}
	}()

	select {
	case r := <-done:
		return r.line, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}

// Output returns the writer used for regular output
func (t *Terminal) Output() io.Writer {
	return t.out
}

// Progress prints "[N%] message"
func (t *Terminal) Progress(message string, percent int) {
	if t.Quiet {
		return
	}
	Progress.Fprintf(t.out, "[%d%%] %s\n", percent, message)
}

// Success prints a success message
func (t *Terminal) Success(format string, args ...interface{}) {
	if t.Quiet {
		return
	}
	Success.Fprintf(t.out, format+"\n", args...)
}

// Info prints an informational message
func (t *Terminal) Info(format string, args ...interface{}) {
	if t.Quiet {
		return
	}
	Info.Fprintf(t.out, format+"\n", args...)
}

// Warn prints a warning message
func (t *Terminal) Warn(format string, args ...interface{}) {
	Warning.Fprintf(t.err, "Warning: "+format+"\n", args...)
}

// Error prints an error message to the error stream
func (t *Terminal) Error(format string, args ...interface{}) {
	Error.Fprintf(t.err, "Error: "+format+"\n", args...)
}

// Confirm asks a yes/no question. Only "y" or "Y" accept; anything else,
// including a closed input stream or a done ctx, declines.
func (t *Terminal) Confirm(ctx context.Context, question string) bool {
	fmt.Fprintf(t.out, "%s [y/N] ", question)
	if t.AssumeYes {
		fmt.Fprintln(t.out, "y")
		return true
	}

	line, err := t.ReadLine(ctx)
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}

	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// Clear clears the screen when output is a terminal
func (t *Terminal) Clear() {
	if t.isTerminal != nil && t.isTerminal() {
		fmt.Fprint(t.out, clearSequence)
	}
}
