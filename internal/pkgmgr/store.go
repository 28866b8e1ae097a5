package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spitkov/yns/internal/common/fetch"
	"github.com/spitkov/yns/internal/common/logger"
)

// IndexStore fetches the remote index and keeps the last good copy in memory.
// The raw payload of every successful fetch is also written to cachePath.
type IndexStore struct {
	url       string
	fetcher   fetch.Fetcher
	cachePath string
	current   *Index
}

// NewIndexStore creates a store for the index at url. An empty cachePath
// disables the on-disk cache.
func NewIndexStore(url string, fetcher fetch.Fetcher, cachePath string) *IndexStore {
	return &IndexStore{
		url:       url,
		fetcher:   fetcher,
		cachePath: cachePath,
	}
}

// URL returns the index location
func (s *IndexStore) URL() string {
	return s.url
}

// CachePath returns the file the raw index is cached to
func (s *IndexStore) CachePath() string {
	return s.cachePath
}

// Current returns the index from the last successful Refresh, or nil
func (s *IndexStore) Current() *Index {
	return s.current
}

// Refresh fetches and decodes the index. On failure the previous index is
// kept and ErrIndexUnavailable is returned.
func (s *IndexStore) Refresh(ctx context.Context) (*Index, error) {
	logger.Debug("fetching package index from %s", s.url)

	data, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	ix, err := ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	s.current = ix
	logger.Debug("package index has %d package(s)", ix.Len())

	if err := s.writeCache(data); err != nil {
		logger.Warn("could not cache package index: %v", err)
	}
	return ix, nil
}

// Cached decodes the cached payload without touching the network
func (s *IndexStore) Cached() (*Index, error) {
	if s.cachePath == "" {
		return nil, fmt.Errorf("%w: no cache configured", ErrIndexUnavailable)
	}

	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	ix, err := ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%w: cache %s: %v", ErrIndexUnavailable, s.cachePath, err)
	}
	return ix, nil
}

// CacheModTime reports when the cache was last written
func (s *IndexStore) CacheModTime() (time.Time, bool) {
	if s.cachePath == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(s.cachePath)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func (s *IndexStore) writeCache(data []byte) error {
	if s.cachePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0755); err != nil {
		return err
	}

	tmpPath := s.cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, s.cachePath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	logger.Debug("cached package index at %s", s.cachePath)
	return nil
}
