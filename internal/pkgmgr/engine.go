package pkgmgr

import (
	"context"
	"fmt"
	"iter"

	"github.com/spitkov/yns/internal/common/logger"
)

// Outcome is the non-failure result of an operation
type Outcome int

const (
	// Done means the lifecycle script ran and the ledger was updated
	Done Outcome = iota
	// Skipped means nothing needed doing or the user chose not to
	Skipped
)

func (o Outcome) String() string {
	if o == Skipped {
		return "skipped"
	}
	return "done"
}

// SkipReason explains a Skipped outcome
type SkipReason int

const (
	NoReason SkipReason = iota
	AlreadyUpToDate
	UserDeclined
)

func (r SkipReason) String() string {
	switch r {
	case AlreadyUpToDate:
		return "already up to date"
	case UserDeclined:
		return "declined by user"
	default:
		return ""
	}
}

// Result reports a successful or skipped operation
type Result struct {
	Outcome Outcome
	Reason  SkipReason
	// Version is the version recorded in the ledger afterwards, if any
	Version string
}

func done(version string) Result {
	return Result{Outcome: Done, Version: version}
}

func skipped(reason SkipReason, version string) Result {
	return Result{Outcome: Skipped, Reason: reason, Version: version}
}

// State is the relation between a package's index entry and the ledger
type State int

const (
	StateUnknown State = iota
	StateNotInstalled
	StateInstalledSame
	StateInstalledStale
)

func (s State) String() string {
	switch s {
	case StateNotInstalled:
		return "NotInstalled"
	case StateInstalledSame:
		return "InstalledSame"
	case StateInstalledStale:
		return "InstalledStale"
	default:
		return "Unknown"
	}
}

// Status is the list classification of a package
type Status string

// Status values, matching the names used by the output palette
const (
	StatusInstalled       Status = "installed"
	StatusUpdateAvailable Status = "update available"
	StatusAvailable       Status = "available"
)

// ListItem is one row of a package listing
type ListItem struct {
	Name             string
	Status           Status
	InstalledVersion string
	IndexVersion     string
}

// Engine applies install, remove and upgrade decisions to the ledger
type Engine struct {
	store     *IndexStore
	ledger    *Ledger
	executor  Executor
	reporter  Reporter
	assumeYes bool
}

// EngineOption is a functional option for configuring Engine
type EngineOption func(*Engine)

// WithReporter sets where progress is shown and confirmations are asked
func WithReporter(r Reporter) EngineOption {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithAssumeYes accepts every confirmation without asking
func WithAssumeYes(yes bool) EngineOption {
	return func(e *Engine) {
		e.assumeYes = yes
	}
}

// NewEngine creates an engine. Without WithReporter output is discarded and
// confirmations are declined.
func NewEngine(store *IndexStore, ledger *Ledger, executor Executor, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		ledger:   ledger,
		executor: executor,
		reporter: nopReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ledger returns the installed package record
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// Store returns the index store
func (e *Engine) Store() *IndexStore {
	return e.store
}

// StateOf classifies name against ix and the ledger
func (e *Engine) StateOf(ix *Index, name string) State {
	entry, ok := ix.Get(name)
	if !ok {
		return StateUnknown
	}
	installed, ok := e.ledger.Get(name)
	switch {
	case !ok:
		return StateNotInstalled
	case installed.Version == entry.Version:
		return StateInstalledSame
	default:
		return StateInstalledStale
	}
}

// confirm asks the reporter unless assumeYes is set. A ctx that ended while
// waiting for the answer is returned as the error.
func (e *Engine) confirm(ctx context.Context, question string) (bool, error) {
	if e.assumeYes {
		return true, nil
	}
	ok := e.reporter.Confirm(ctx, question)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return ok, nil
}

func (e *Engine) refresh(ctx context.Context) (*Index, error) {
	e.reporter.Progress("Updating package cache", 0)
	ix, err := e.store.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	e.reporter.Progress("Updating package cache", 100)
	e.reporter.Success("Package cache updated successfully")
	return ix, nil
}

// Update refreshes the index without touching any package
func (e *Engine) Update(ctx context.Context) (*Index, error) {
	ix, err := e.refresh(ctx)
	if err != nil {
		return nil, opError(OpUpdate, "", err)
	}
	return ix, nil
}

// Install installs name, or offers an upgrade when an older version is
// already installed.
func (e *Engine) Install(ctx context.Context, name string) (Result, error) {
	ix, err := e.refresh(ctx)
	if err != nil {
		return Result{}, opError(OpInstall, name, err)
	}

	entry, ok := ix.Get(name)
	if !ok {
		return Result{}, opError(OpInstall, name, ErrNotFound)
	}

	installed, _ := e.ledger.Get(name)
	switch e.StateOf(ix, name) {
	case StateInstalledSame:
		e.reporter.Success("%s is already installed (version %s)", name, installed.Version)
		return skipped(AlreadyUpToDate, installed.Version), nil

	case StateInstalledStale:
		e.reporter.Progress(fmt.Sprintf("New version available: %s (currently installed: %s)",
			entry.Version, installed.Version), 0)
		accepted, err := e.confirm(ctx, "Would you like to upgrade?")
		if err != nil {
			return Result{}, opError(OpInstall, name, err)
		}
		if !accepted {
			e.reporter.Success("Keeping current version %s", installed.Version)
			return skipped(UserDeclined, installed.Version), nil
		}
		return e.Upgrade(ctx, name)
	}

	ok, err = e.confirm(ctx, fmt.Sprintf("Install %s@%s?", name, entry.Version))
	if err != nil {
		return Result{}, opError(OpInstall, name, err)
	}
	if !ok {
		return Result{}, opError(OpInstall, name, ErrUserDeclined)
	}

	e.reporter.Progress("Downloading installation script", 0)
	e.reporter.Progress(fmt.Sprintf("Installing %s@%s", name, entry.Version), 50)
	if err := e.executor.Perform(ctx, entry.scriptURL(OpInstall), OpInstall, name); err != nil {
		return Result{}, opError(OpInstall, name, err)
	}

	e.ledger.Put(InstalledEntry{Name: name, Version: entry.Version})
	if err := e.persist(); err != nil {
		return Result{}, opError(OpInstall, name, err)
	}

	e.reporter.Success("%s@%s installed successfully", name, entry.Version)
	return done(entry.Version), nil
}

// Remove runs the removal script of an installed package and forgets it
func (e *Engine) Remove(ctx context.Context, name string) (Result, error) {
	installed, ok := e.ledger.Get(name)
	if !ok {
		return Result{}, opError(OpRemove, name, ErrNotInstalled)
	}

	confirmed, err := e.confirm(ctx, fmt.Sprintf("Remove %s@%s?", name, installed.Version))
	if err != nil {
		return Result{}, opError(OpRemove, name, err)
	}
	if !confirmed {
		return Result{}, opError(OpRemove, name, ErrUserDeclined)
	}

	ix, err := e.refresh(ctx)
	if err != nil {
		return Result{}, opError(OpRemove, name, err)
	}

	entry, ok := ix.Get(name)
	if !ok {
		return Result{}, opError(OpRemove, name, ErrNotFound)
	}

	e.reporter.Progress("Downloading removal script", 0)
	e.reporter.Progress("Removing "+name, 50)
	if err := e.executor.Perform(ctx, entry.scriptURL(OpRemove), OpRemove, name); err != nil {
		return Result{}, opError(OpRemove, name, err)
	}

	e.ledger.Remove(name)
	if err := e.persist(); err != nil {
		return Result{}, opError(OpRemove, name, err)
	}

	e.reporter.Success("%s removed successfully", name)
	return done(""), nil
}

// Upgrade runs the update script when the index offers a different version
func (e *Engine) Upgrade(ctx context.Context, name string) (Result, error) {
	installed, ok := e.ledger.Get(name)
	if !ok {
		return Result{}, opError(OpUpgrade, name, ErrNotInstalled)
	}

	ix, err := e.refresh(ctx)
	if err != nil {
		return Result{}, opError(OpUpgrade, name, err)
	}

	entry, ok := ix.Get(name)
	if !ok {
		return Result{}, opError(OpUpgrade, name, ErrNotFound)
	}

	if installed.Version == entry.Version {
		e.reporter.Success("%s is already up to date (%s)", name, installed.Version)
		return skipped(AlreadyUpToDate, installed.Version), nil
	}

	e.reporter.Progress("Downloading update script", 0)
	e.reporter.Progress(fmt.Sprintf("Updating %s from %s to %s", name, installed.Version, entry.Version), 50)
	if err := e.executor.Perform(ctx, entry.scriptURL(OpUpgrade), OpUpgrade, name); err != nil {
		return Result{}, opError(OpUpgrade, name, err)
	}

	e.ledger.Put(InstalledEntry{Name: name, Version: entry.Version})
	if err := e.persist(); err != nil {
		return Result{}, opError(OpUpgrade, name, err)
	}

	e.reporter.Success("%s updated to version %s", name, entry.Version)
	return done(entry.Version), nil
}

// List refreshes the index and returns its packages classified against the
// ledger. The ledger is read as the sequence is consumed.
func (e *Engine) List(ctx context.Context) (iter.Seq[ListItem], error) {
	ix, err := e.refresh(ctx)
	if err != nil {
		return nil, opError(OpList, "", err)
	}
	return e.items(ix), nil
}

// ListCached is List over the cached index, without network access
func (e *Engine) ListCached() (iter.Seq[ListItem], error) {
	ix, err := e.store.Cached()
	if err != nil {
		return nil, opError(OpList, "", err)
	}
	return e.items(ix), nil
}

func (e *Engine) items(ix *Index) iter.Seq[ListItem] {
	return func(yield func(ListItem) bool) {
		for entry := range ix.All() {
			item := ListItem{
				Name:         entry.Name,
				Status:       StatusAvailable,
				IndexVersion: entry.Version,
			}
			if installed, ok := e.ledger.Get(entry.Name); ok {
				item.InstalledVersion = installed.Version
				item.Status = StatusUpdateAvailable
				if installed.Version == entry.Version {
					item.Status = StatusInstalled
				}
			}
			if !yield(item) {
				return
			}
		}
	}
}

// persist saves the ledger. The in-memory mutation is kept on failure since
// the script already ran.
func (e *Engine) persist() error {
	if err := e.ledger.Save(); err != nil {
		logger.Debug("ledger save failed: %v", err)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}
