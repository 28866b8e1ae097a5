package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/spitkov/yns/internal/common/config"
	"github.com/spitkov/yns/internal/common/fetch"
	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/output"
	"github.com/spitkov/yns/internal/common/script"
	"github.com/spitkov/yns/internal/pkgmgr"
)

// app wires the engine to the terminal. It is the handler behind both the
// single-shot commands and the interactive shell.
type app struct {
	// ctx is cancelled by SIGINT or SIGTERM
	ctx     context.Context
	cfg     *config.Config
	term    *output.Terminal
	fetcher *fetch.RetryableHTTPClient
	engine  *pkgmgr.Engine
}

func newApp(ctx context.Context, c *config.Config) *app {
	term := output.NewStdTerminal()
	term.AssumeYes = assumeYes
	term.Quiet = quiet

	fetcher := newFetcher(c)
	store := pkgmgr.NewIndexStore(c.Repository.IndexURL, fetcher, c.CacheFile())
	ledger := pkgmgr.LoadLedger(c.Paths.InstalledDB)
	executor := pkgmgr.NewScriptExecutor(fetcher, script.NewExecRunner(),
		pkgmgr.WithTempDir(c.Paths.TempDir),
		pkgmgr.WithScriptTimeout(c.ScriptTimeout()),
	)

	return &app{
		ctx:     ctx,
		cfg:     c,
		term:    term,
		fetcher: fetcher,
		engine: pkgmgr.NewEngine(store, ledger, executor,
			pkgmgr.WithReporter(term),
			pkgmgr.WithAssumeYes(assumeYes),
		),
	}
}

func newFetcher(c *config.Config) *fetch.RetryableHTTPClient {
	retry := fetch.DefaultRetryConfig()
	retry.MaxRetries = c.Network.Retries
	retry.Timeout = c.NetworkTimeout()
	return fetch.NewRetryableHTTPClientWithConfig(retry)
}

// fail reports err and exits with status 1, or exits with exitInterrupted
// when a signal ended the command
func (a *app) fail(err error) {
	if a.ctx.Err() != nil {
		logger.Debug("interrupted: %v", err)
		logger.Close()
		os.Exit(exitInterrupted)
	}
	logger.Debug("failure kind: %s", pkgmgr.KindOf(err))
	a.term.Error("%v", err)
	logger.Close()
	os.Exit(1)
}

func (a *app) Update(ctx context.Context) error {
	_, err := a.engine.Update(ctx)
	return err
}

func (a *app) Install(ctx context.Context, name string) error {
	_, err := a.engine.Install(ctx, name)
	return err
}

func (a *app) Remove(ctx context.Context, name string) error {
	_, err := a.engine.Remove(ctx, name)
	return err
}

func (a *app) Upgrade(ctx context.Context, name string) error {
	_, err := a.engine.Upgrade(ctx, name)
	return err
}

func (a *app) List(ctx context.Context) error {
	items, err := a.engine.List(ctx)
	if err != nil {
		return err
	}
	printList(a.term.Output(), items)
	return nil
}

// ListCached lists the cached index without going to the network
func (a *app) ListCached() error {
	items, err := a.engine.ListCached()
	if err != nil {
		return err
	}
	if mod, ok := a.engine.Store().CacheModTime(); ok {
		output.Dim.Fprintf(a.term.Output(), "(cached %s ago)\n", time.Since(mod).Round(time.Second))
	}
	printList(a.term.Output(), items)
	return nil
}

// printList renders the package listing in index order
func printList(w io.Writer, items iter.Seq[pkgmgr.ListItem]) {
	fmt.Fprint(w, "\nAvailable packages:\n")
	fmt.Fprint(w, "==================\n")
	for item := range items {
		status := output.FormatStatus(string(item.Status), item.InstalledVersion, item.IndexVersion)
		fmt.Fprintf(w, "%s %s\n", item.Name, status)
	}
}
