package pkgmgr

import (
	"errors"
	"fmt"
)

// Error variables for reconciliation failures
var (
	// ErrIndexUnavailable is returned when the remote index cannot be fetched or parsed
	ErrIndexUnavailable = errors.New("package index unavailable")
	// ErrNotFound is returned when a package is absent from the index
	ErrNotFound = errors.New("package not found in repository")
	// ErrNotInstalled is returned when a package is absent from the ledger
	ErrNotInstalled = errors.New("package is not installed")
	// ErrUserDeclined is returned when a confirmation prompt is declined
	ErrUserDeclined = errors.New("operation declined")
	// ErrDownloadFailed is returned when a lifecycle script cannot be downloaded
	ErrDownloadFailed = errors.New("failed to download script")
	// ErrScriptFailed is returned when a lifecycle script exits with a nonzero code
	ErrScriptFailed = errors.New("script failed")
	// ErrScriptAbnormal is returned when a lifecycle script is killed or crashes
	ErrScriptAbnormal = errors.New("script terminated abnormally")
	// ErrPersistFailed is returned when the ledger cannot be written
	ErrPersistFailed = errors.New("failed to save installed package database")
)

// Operation names a lifecycle action on a package
type Operation string

// Operation constants
const (
	OpInstall Operation = "install"
	OpRemove  Operation = "remove"
	OpUpgrade Operation = "upgrade"
	OpList    Operation = "list"
	OpUpdate  Operation = "update"
)

// noun returns the human form used in script failure messages
func (op Operation) noun() string {
	switch op {
	case OpInstall:
		return "Installation"
	case OpRemove:
		return "Removal"
	case OpUpgrade:
		return "Update"
	default:
		return string(op)
	}
}

// ScriptError reports a lifecycle script that ran and exited nonzero
type ScriptError struct {
	Op       Operation
	ExitCode int
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s failed with exit code: %d", e.Op.noun(), e.ExitCode)
}

// Is makes errors.Is(err, ErrScriptFailed) match any ScriptError
func (e *ScriptError) Is(target error) bool {
	return target == ErrScriptFailed
}

// OpError records the operation and package a failure belongs to
type OpError struct {
	Op      Operation
	Package string
	Err     error
}

func (e *OpError) Error() string {
	if e.Package == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op Operation, pkg string, err error) error {
	return &OpError{Op: op, Package: pkg, Err: err}
}

// Kind is the failure taxonomy name of an error
type Kind string

// Kind constants, one per sentinel
const (
	KindNone             Kind = ""
	KindIndexUnavailable Kind = "IndexUnavailable"
	KindNotFound         Kind = "NotFound"
	KindNotInstalled     Kind = "NotInstalled"
	KindUserDeclined     Kind = "UserDeclined"
	KindDownloadFailed   Kind = "DownloadFailed"
	KindScriptFailed     Kind = "ScriptFailed"
	KindScriptAbnormal   Kind = "ScriptAbnormal"
	KindPersistFailed    Kind = "PersistFailed"
	KindUnknown          Kind = "Unknown"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrIndexUnavailable, KindIndexUnavailable},
	{ErrNotFound, KindNotFound},
	{ErrNotInstalled, KindNotInstalled},
	{ErrUserDeclined, KindUserDeclined},
	{ErrDownloadFailed, KindDownloadFailed},
	{ErrScriptFailed, KindScriptFailed},
	{ErrScriptAbnormal, KindScriptAbnormal},
	{ErrPersistFailed, KindPersistFailed},
}

// KindOf classifies err into the failure taxonomy
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
