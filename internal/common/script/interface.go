package script

import "context"

// Outcome describes how a script process terminated.
type Outcome struct {
	// Exited is true when the process returned normally with an exit code
	Exited bool
	// ExitCode is the process exit code, meaningful only when Exited is true
	ExitCode int
	// Detail describes abnormal termination, e.g. "signal: killed"
	Detail string
}

// Success reports a normal exit with code 0
func (o Outcome) Success() bool {
	return o.Exited && o.ExitCode == 0
}

// Runner executes a local executable file to completion.
// This interface allows for mocking script execution in tests.
type Runner interface {
	// Run executes the file at path and reports how it terminated.
	// An error means the process could not be started at all.
	Run(ctx context.Context, path string) (Outcome, error)
}
