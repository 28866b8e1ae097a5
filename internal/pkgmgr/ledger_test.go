package pkgmgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLedgerMissingFile(t *testing.T) {
	l := LoadLedger(filepath.Join(t.TempDir(), "none", "installed.json"))
	assert.Zero(t, l.Len())
}

func TestLoadLedgerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	l := LoadLedger(path)
	assert.Zero(t, l.Len())

	l.Put(InstalledEntry{Name: "foo", Version: "1.0"})
	require.NoError(t, l.Save())
	assert.Equal(t, []InstalledEntry{{Name: "foo", Version: "1.0"}}, LoadLedger(path).Entries())
}

func TestLedgerFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib", "installed.json")
	l := LoadLedger(path)
	l.Put(InstalledEntry{Name: "foo", Version: "1.0"})
	require.NoError(t, l.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"foo\": {\n        \"version\": \"1.0\"\n    }\n}", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestLedgerReadsVersionRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	content := `{"bar": {"version": "2.1"}, "alpha": {"version": "0.1"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	l := LoadLedger(path)
	assert.Equal(t, []InstalledEntry{
		{Name: "alpha", Version: "0.1"},
		{Name: "bar", Version: "2.1"},
	}, l.Entries())
}

func TestLedgerPutRemove(t *testing.T) {
	l := LoadLedger(filepath.Join(t.TempDir(), "installed.json"))

	l.Put(InstalledEntry{Name: "foo", Version: "1.0"})
	l.Put(InstalledEntry{Name: "foo", Version: "2.0"})
	e, ok := l.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, "2.0", e.Version)

	l.Remove("foo")
	l.Remove("never-installed")
	_, ok = l.Get("foo")
	assert.False(t, ok)
	assert.Zero(t, l.Len())
}
