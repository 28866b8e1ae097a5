package selfupdate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spitkov/yns/internal/common/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	release *github.Release
	err     error
	repo    string
}

func (s *stubSource) GetLatestRelease(ctx context.Context, repository string) (*github.Release, error) {
	s.repo = repository
	return s.release, s.err
}

type stubFetcher struct {
	body []byte
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return s.body, s.err
}

// withExecutable points the executable seams at path for one test
func withExecutable(t *testing.T, path string) {
	t.Helper()
	origExec, origEval := osExecutable, evalSymlinks
	osExecutable = func() (string, error) { return path, nil }
	evalSymlinks = func(p string) (string, error) { return p, nil }
	t.Cleanup(func() {
		osExecutable, evalSymlinks = origExec, origEval
	})
}

func TestCheck(t *testing.T) {
	assets := []github.Asset{{Name: "yns", BrowserDownloadURL: "https://dl.example.org/yns"}}

	tests := []struct {
		name      string
		tag       string
		current   string
		available bool
	}{
		{"same version with v prefix", "v1.2.0", "1.2.0", false},
		{"same version without prefix", "1.2.0", "1.2.0", false},
		{"newer release", "v1.3.0", "1.2.0", true},
		{"older release still differs", "v1.1.0", "1.2.0", true},
		{"only one v stripped", "vv1.2.0", "1.2.0", true},
		{"dev build", "v1.2.0", "dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{release: &github.Release{TagName: tt.tag, Assets: assets}}
			u := NewUpdater(source, &stubFetcher{}, "spitkov/yns", WithCurrentVersion(tt.current))

			check, err := u.Check(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.available, check.UpgradeAvailable)
			assert.Equal(t, "spitkov/yns", source.repo)
			if tt.available {
				require.NotNil(t, check.Asset)
			}
		})
	}
}

func TestCheckNoAssets(t *testing.T) {
	source := &stubSource{release: &github.Release{TagName: "v9.0.0"}}
	u := NewUpdater(source, &stubFetcher{}, "spitkov/yns", WithCurrentVersion("1.0.0"))

	_, err := u.Check(context.Background())
	assert.ErrorIs(t, err, ErrNoAsset)
}

func TestCheckSourceError(t *testing.T) {
	source := &stubSource{err: github.ErrRateLimit}
	u := NewUpdater(source, &stubFetcher{}, "spitkov/yns")

	_, err := u.Check(context.Background())
	assert.ErrorIs(t, err, github.ErrRateLimit)
}

func TestSelectAsset(t *testing.T) {
	platform := github.Asset{Name: "yns_linux_arm64"}
	plain := github.Asset{Name: "yns"}
	other := github.Asset{Name: "yns.tar.gz"}

	tests := []struct {
		name   string
		assets []github.Asset
		want   string
		ok     bool
	}{
		{"platform match wins", []github.Asset{other, plain, platform}, "yns_linux_arm64", true},
		{"plain name next", []github.Asset{other, plain}, "yns", true},
		{"first asset last", []github.Asset{other, {Name: "checksums.txt"}}, "yns.tar.gz", true},
		{"none", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectAsset(tt.assets, "linux", "arm64")
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}
}

func TestApplyReplacesBinary(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "yns")
	require.NoError(t, os.WriteFile(binPath, []byte("old"), 0755))
	withExecutable(t, binPath)

	fetcher := &stubFetcher{body: []byte("new binary")}
	u := NewUpdater(&stubSource{}, fetcher, "spitkov/yns")

	check := &Check{Asset: &github.Asset{Name: "yns", BrowserDownloadURL: "https://dl.example.org/yns"}}
	require.NoError(t, u.Apply(context.Background(), check))

	data, err := os.ReadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, "new binary", string(data))

	info, err := os.Stat(binPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary and backup files should be gone")
	assert.Equal(t, []string{"https://dl.example.org/yns"}, fetcher.urls)
}

func TestApplyDownloadFailureKeepsBinary(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "yns")
	require.NoError(t, os.WriteFile(binPath, []byte("old"), 0755))
	withExecutable(t, binPath)

	tests := []struct {
		name    string
		fetcher *stubFetcher
		wantErr error
	}{
		{"fetch error", &stubFetcher{err: errors.New("offline")}, nil},
		{"empty body", &stubFetcher{body: []byte{}}, ErrEmptyDownload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUpdater(&stubSource{}, tt.fetcher, "spitkov/yns")
			err := u.Apply(context.Background(), &Check{Asset: &github.Asset{BrowserDownloadURL: "x"}})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			data, _ := os.ReadFile(binPath)
			assert.Equal(t, "old", string(data))
		})
	}
}

func TestApplyWithoutAsset(t *testing.T) {
	u := NewUpdater(&stubSource{}, &stubFetcher{}, "spitkov/yns")
	assert.ErrorIs(t, u.Apply(context.Background(), &Check{}), ErrNoAsset)
	assert.ErrorIs(t, u.Apply(context.Background(), nil), ErrNoAsset)
}
