package pkgmgr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spitkov/yns/internal/common/logger"
)

// InstalledEntry records one installed package
type InstalledEntry struct {
	Name    string
	Version string
}

// ledgerRecord is the on-disk value stored under each package name
type ledgerRecord struct {
	Version string `json:"version"`
}

// Ledger is the local record of installed packages.
// Mutations are in memory until Save is called.
type Ledger struct {
	entries map[string]InstalledEntry
	// path is the file the ledger is persisted to
	path string
}

// LoadLedger reads the ledger at path. A missing or unreadable file yields
// an empty ledger; the file is overwritten on the next Save.
func LoadLedger(path string) *Ledger {
	l := &Ledger{
		entries: make(map[string]InstalledEntry),
		path:    path,
	}

	if err := l.load(); err != nil && !os.IsNotExist(err) {
		logger.Debug("ignoring unreadable installed database %s: %v", path, err)
		l.entries = make(map[string]InstalledEntry)
	}
	return l
}

func (l *Ledger) load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}

	var records map[string]ledgerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	for name, rec := range records {
		l.entries[name] = InstalledEntry{Name: name, Version: rec.Version}
	}
	return nil
}

// Path returns the file backing the ledger
func (l *Ledger) Path() string {
	return l.path
}

// Get returns the entry for name and whether the package is installed
func (l *Ledger) Get(name string) (InstalledEntry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// Put records entry, replacing any existing entry of the same name
func (l *Ledger) Put(entry InstalledEntry) {
	l.entries[entry.Name] = entry
}

// Remove forgets name. Removing an absent name is a no-op.
func (l *Ledger) Remove(name string) {
	delete(l.entries, name)
}

// Len returns the number of installed packages
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns all installed packages sorted by name
func (l *Ledger) Entries() []InstalledEntry {
	entries := make([]InstalledEntry, 0, len(l.entries))
	for _, e := range l.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Save writes the whole ledger to disk through a temporary file and rename
func (l *Ledger) Save() error {
	records := make(map[string]ledgerRecord, len(l.entries))
	for name, e := range l.entries {
		records[name] = ledgerRecord{Version: e.Version}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal installed database: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write installed database: %w", err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename installed database: %w", err)
	}

	logger.Debug("saved %d installed package(s) to %s", len(records), l.path)
	return nil
}
