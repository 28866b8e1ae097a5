package pkgmgr

import (
	"errors"
	"fmt"
	"iter"

	"github.com/mailru/easyjson/jlexer"
)

// PackageEntry is one package as described by the remote index
type PackageEntry struct {
	Name       string
	Version    string
	InstallURL string
	RemoveURL  string
	UpdateURL  string
}

// scriptURL returns the lifecycle script for op
func (e PackageEntry) scriptURL(op Operation) string {
	switch op {
	case OpInstall:
		return e.InstallURL
	case OpRemove:
		return e.RemoveURL
	case OpUpgrade:
		return e.UpdateURL
	}
	return ""
}

// Index is the set of packages offered by the repository, in payload order
type Index struct {
	entries []PackageEntry
	pos     map[string]int
}

func newIndex() *Index {
	return &Index{pos: make(map[string]int)}
}

// add inserts e, replacing an earlier entry of the same name in place
func (ix *Index) add(e PackageEntry) {
	if i, ok := ix.pos[e.Name]; ok {
		ix.entries[i] = e
		return
	}
	ix.pos[e.Name] = len(ix.entries)
	ix.entries = append(ix.entries, e)
}

// Get looks up a package by name
func (ix *Index) Get(name string) (PackageEntry, bool) {
	if ix == nil {
		return PackageEntry{}, false
	}
	i, ok := ix.pos[name]
	if !ok {
		return PackageEntry{}, false
	}
	return ix.entries[i], true
}

// Len returns the number of packages
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Names returns package names in payload order
func (ix *Index) Names() []string {
	if ix == nil {
		return nil
	}
	names := make([]string, len(ix.entries))
	for i, e := range ix.entries {
		names[i] = e.Name
	}
	return names
}

// All iterates entries in payload order
func (ix *Index) All() iter.Seq[PackageEntry] {
	return func(yield func(PackageEntry) bool) {
		if ix == nil {
			return
		}
		for _, e := range ix.entries {
			if !yield(e) {
				return
			}
		}
	}
}

var (
	errNotObject       = errors.New("index is not a JSON object")
	errMissingPackages = errors.New(`index has no "packages" object`)
)

// ParseIndex decodes a raw index payload, keeping the order in which
// package names appear.
func ParseIndex(data []byte) (*Index, error) {
	in := &jlexer.Lexer{Data: data}
	ix := newIndex()

	if in.IsNull() {
		return nil, errNotObject
	}

	found := false
	in.Delim('{')
	for in.Ok() && !in.IsDelim('}') {
		key := in.String()
		in.WantColon()
		switch key {
		case "packages":
			if in.IsNull() {
				return nil, errMissingPackages
			}
			if err := parsePackages(in, ix); err != nil {
				return nil, err
			}
			found = true
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()

	if err := in.Error(); err != nil {
		return nil, fmt.Errorf("malformed index: %w", err)
	}
	if !found {
		return nil, errMissingPackages
	}
	return ix, nil
}

func parsePackages(in *jlexer.Lexer, ix *Index) error {
	in.Delim('{')
	for in.Ok() && !in.IsDelim('}') {
		name := in.String()
		in.WantColon()
		entry, err := parseEntry(in, name)
		if err != nil {
			return err
		}
		if in.Ok() {
			ix.add(entry)
		}
		in.WantComma()
	}
	in.Delim('}')
	return nil
}

func parseEntry(in *jlexer.Lexer, name string) (PackageEntry, error) {
	entry := PackageEntry{Name: name}
	if in.IsNull() {
		return entry, fmt.Errorf("package %q is not an object", name)
	}

	var seen struct{ version, install, remove, update bool }
	in.Delim('{')
	for in.Ok() && !in.IsDelim('}') {
		key := in.String()
		in.WantColon()
		if in.IsNull() {
			return entry, fmt.Errorf("package %q: field %q is null", name, key)
		}
		switch key {
		case "version":
			entry.Version, seen.version = in.String(), true
		case "install":
			entry.InstallURL, seen.install = in.String(), true
		case "remove":
			entry.RemoveURL, seen.remove = in.String(), true
		case "update":
			entry.UpdateURL, seen.update = in.String(), true
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')

	if !in.Ok() {
		return entry, nil
	}
	switch {
	case !seen.version:
		return entry, fmt.Errorf("package %q has no version", name)
	case !seen.install:
		return entry, fmt.Errorf("package %q has no install script", name)
	case !seen.remove:
		return entry, fmt.Errorf("package %q has no remove script", name)
	case !seen.update:
		return entry, fmt.Errorf("package %q has no update script", name)
	}
	return entry, nil
}
