package pkgmgr

import "context"

// Reporter receives user-facing progress and answers confirmations.
// output.Terminal is the interactive implementation.
type Reporter interface {
	Progress(message string, percent int)
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Confirm(ctx context.Context, question string) bool
}

// nopReporter discards output and declines every confirmation
type nopReporter struct{}

func (nopReporter) Progress(string, int)                 {}
func (nopReporter) Info(string, ...interface{})          {}
func (nopReporter) Success(string, ...interface{})       {}
func (nopReporter) Warn(string, ...interface{})          {}
func (nopReporter) Error(string, ...interface{})         {}
func (nopReporter) Confirm(context.Context, string) bool { return false }
