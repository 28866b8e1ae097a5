// Package selfupdate replaces the running yns binary with the latest
// GitHub release.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spitkov/yns/internal/common/fetch"
	"github.com/spitkov/yns/internal/common/github"
	"github.com/spitkov/yns/internal/common/logger"
	"github.com/spitkov/yns/internal/common/version"
)

var (
	// ErrNoAsset is returned when a release carries no downloadable file
	ErrNoAsset = errors.New("release has no downloadable asset")
	// ErrEmptyDownload is returned when the downloaded binary is empty
	ErrEmptyDownload = errors.New("downloaded binary is empty")

	// Test seams for locating the running binary
	osExecutable = os.Executable
	evalSymlinks = filepath.EvalSymlinks
)

// ReleaseSource looks up the newest release of a repository
type ReleaseSource interface {
	GetLatestRelease(ctx context.Context, repository string) (*github.Release, error)
}

// Check is the result of comparing the running version with the latest release
type Check struct {
	CurrentVersion   string
	LatestVersion    string
	Release          *github.Release
	Asset            *github.Asset
	UpgradeAvailable bool
}

// Updater checks for and applies new releases
type Updater struct {
	source         ReleaseSource
	fetcher        fetch.Fetcher
	repository     string
	currentVersion string
	goos           string
	goarch         string
}

// Option configures an Updater
type Option func(*Updater)

// WithCurrentVersion overrides the version the running binary reports
func WithCurrentVersion(v string) Option {
	return func(u *Updater) {
		u.currentVersion = v
	}
}

// WithPlatform overrides the platform used to pick a release asset
func WithPlatform(goos, goarch string) Option {
	return func(u *Updater) {
		u.goos = goos
		u.goarch = goarch
	}
}

// NewUpdater creates an updater for repository ("owner/repo"), downloading
// assets with fetcher.
func NewUpdater(source ReleaseSource, fetcher fetch.Fetcher, repository string, opts ...Option) *Updater {
	u := &Updater{
		source:         source,
		fetcher:        fetcher,
		repository:     repository,
		currentVersion: version.Version,
		goos:           runtime.GOOS,
		goarch:         runtime.GOARCH,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Check fetches the latest release and compares its tag, minus one leading
// "v", with the running version. The strings must match exactly.
func (u *Updater) Check(ctx context.Context) (*Check, error) {
	release, err := u.source.GetLatestRelease(ctx, u.repository)
	if err != nil {
		return nil, fmt.Errorf("fetching latest release: %w", err)
	}

	latest := version.StripPrefix(release.TagName)
	check := &Check{
		CurrentVersion: u.currentVersion,
		LatestVersion:  latest,
		Release:        release,
	}
	logger.Debug("latest release %s, running %s", release.TagName, u.currentVersion)

	if latest == u.currentVersion {
		return check, nil
	}

	asset, ok := SelectAsset(release.Assets, u.goos, u.goarch)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAsset, release.TagName)
	}
	check.Asset = asset
	check.UpgradeAvailable = true
	return check, nil
}

// SelectAsset picks yns_<goos>_<goarch>, then a plain "yns", then the first asset
func SelectAsset(assets []github.Asset, goos, goarch string) (*github.Asset, bool) {
	if len(assets) == 0 {
		return nil, false
	}

	preferred := fmt.Sprintf("yns_%s_%s", goos, goarch)
	for _, name := range []string{preferred, "yns"} {
		for i := range assets {
			if assets[i].Name == name {
				return &assets[i], true
			}
		}
	}
	return &assets[0], true
}

// Apply downloads the selected asset next to the running binary and swaps
// it into place.
func (u *Updater) Apply(ctx context.Context, check *Check) error {
	if check == nil || check.Asset == nil {
		return ErrNoAsset
	}

	execPath, err := resolveExecPath()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	logger.Debug("downloading %s", check.Asset.BrowserDownloadURL)
	data, err := u.fetcher.Fetch(ctx, check.Asset.BrowserDownloadURL)
	if err != nil {
		return fmt.Errorf("downloading binary: %w", err)
	}
	if len(data) == 0 {
		return ErrEmptyDownload
	}

	tmpPath, err := writeBinary(filepath.Dir(execPath), data)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath) // no-op once renamed into place

	return replaceBinary(execPath, tmpPath)
}

func resolveExecPath() (string, error) {
	path, err := osExecutable()
	if err != nil {
		return "", err
	}
	return evalSymlinks(path)
}

// writeBinary stores data in dir so the final rename stays on one filesystem
func writeBinary(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".yns-update-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing binary: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(f.Name(), 0o755); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("setting executable permissions: %w", err)
	}
	return f.Name(), nil
}

// replaceBinary moves current aside, moves the new file in and drops the
// old copy. The old binary is restored if the second rename fails.
func replaceBinary(currentPath, tmpPath string) error {
	oldPath := currentPath + ".old"

	if err := os.Rename(currentPath, oldPath); err != nil {
		return fmt.Errorf("backing up current binary: %w", err)
	}

	if err := os.Rename(tmpPath, currentPath); err != nil {
		_ = os.Rename(oldPath, currentPath)
		return fmt.Errorf("installing new binary: %w", err)
	}

	_ = os.Remove(oldPath)
	return nil
}
