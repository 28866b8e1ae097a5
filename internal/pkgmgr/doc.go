// Package pkgmgr reconciles the remote package index with the local record
// of installed packages.
//
// The package implements:
//   - IndexStore: fetches and decodes the remote index, caching the raw payload
//   - Ledger: the persisted name -> version record of installed packages
//   - ScriptExecutor: downloads a lifecycle script, runs it and classifies the exit
//   - Engine: install, remove, upgrade and list on top of the three above
//
// The Ledger only changes after a lifecycle script exits with status 0 for
// that package and operation. Every other outcome leaves it as it was.
//
// Usage:
//
//	store := pkgmgr.NewIndexStore(cfg.Repository.IndexURL, fetcher, cfg.CacheFile())
//	ledger := pkgmgr.LoadLedger(cfg.Paths.InstalledDB)
//	exec := pkgmgr.NewScriptExecutor(fetcher, script.NewExecRunner())
//	engine := pkgmgr.NewEngine(store, ledger, exec, pkgmgr.WithReporter(term))
//	result, err := engine.Install(ctx, "foo")
package pkgmgr
