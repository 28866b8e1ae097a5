package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/output"
	"github.com/spitkov/yns/internal/common/version"
	"github.com/spitkov/yns/internal/pkgmgr"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Show configuration, paths and installed packages",
	Long:  `Print the effective configuration source, storage paths, cache state and the installed package database. Nothing is downloaded.`,
	Args:  cobra.NoArgs,
	Run:   runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) {
	a := newApp(cmd.Context(), cfg)
	printDebug(a.term.Output(), a, time.Now())
}

func printDebug(w io.Writer, a *app, now time.Time) {
	field := func(name, value string) {
		fmt.Fprintf(w, "  %-16s %s\n", name+":", value)
	}

	output.Header.Fprintln(w, "Environment")
	field("version", version.Short())
	field("config", describeSource(a.cfg))
	field("euid", fmt.Sprint(geteuid()))
	field("require root", fmt.Sprint(a.cfg.Privilege.RequireRoot))
	if dir, err := logger.LogDir(); err == nil {
		field("log dir", dir)
	}

	store := a.engine.Store()
	fmt.Fprintln(w)
	output.Header.Fprintln(w, "Repository")
	field("index url", store.URL())
	field("cache file", store.CachePath())
	if mod, ok := store.CacheModTime(); ok {
		field("cache age", now.Sub(mod).Round(time.Second).String())
		if ix, err := store.Cached(); err == nil {
			field("cached packages", fmt.Sprint(ix.Len()))
		} else {
			field("cache state", output.Sprint(output.Warning, "unreadable"))
		}
	} else {
		field("cache age", output.Sprint(output.Dim, "never updated"))
	}

	ledger := a.engine.Ledger()
	fmt.Fprintln(w)
	output.Header.Fprintln(w, "Installed packages")
	field("database", ledger.Path())
	if _, err := os.Stat(ledger.Path()); err != nil {
		field("state", output.Sprint(output.Dim, "not created yet"))
	}
	printInstalled(w, ledger.Entries())
}

func printInstalled(w io.Writer, entries []pkgmgr.InstalledEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\n", output.FormatPackage(e.Name, e.Version))
	}
}
