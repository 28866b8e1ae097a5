package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrRateLimit indicates GitHub API rate limit exceeded
	ErrRateLimit = errors.New("GitHub API rate limit exceeded")
	// ErrNotFound indicates the repository or release was not found
	ErrNotFound = errors.New("release not found")
	// ErrAPIError indicates a general GitHub API error
	ErrAPIError = errors.New("GitHub API error")
)

// Doer sends HTTP requests. *http.Client and fetch.RetryableHTTPClient both
// satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles communication with the GitHub API
type Client struct {
	BaseURL    string
	UserAgent  string
	Token      string // GitHub personal access token (optional, increases rate limit)
	HTTPClient Doer
}

// Release is a published GitHub release
type Release struct {
	TagName    string  `json:"tag_name"`
	Name       string  `json:"name"`
	HTMLURL    string  `json:"html_url"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// Asset is a downloadable file attached to a release
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// NewClient creates a new GitHub API client
func NewClient() *Client {
	return &Client{
		BaseURL:   "https://api.github.com",
		UserAgent: "yns",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetLatestRelease fetches the newest non-draft release of repository
// ("owner/repo").
func (c *Client) GetLatestRelease(ctx context.Context, repository string) (*Release, error) {
	if strings.Count(repository, "/") != 1 {
		return nil, fmt.Errorf("%w: invalid repository %q, want owner/repo", ErrAPIError, repository)
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.BaseURL, repository)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("failed to parse GitHub response: %w", err)
	}
	return &release, nil
}

// GetRateLimitInfo returns current rate limit status
func (c *Client) GetRateLimitInfo(ctx context.Context) (remaining int, resetTime time.Time, err error) {
	body, err := c.get(ctx, c.BaseURL+"/rate_limit")
	if err != nil {
		return 0, time.Time{}, err
	}

	var result struct {
		Resources struct {
			Core struct {
				Remaining int   `json:"remaining"`
				Reset     int64 `json:"reset"`
			} `json:"core"`
		} `json:"resources"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return 0, time.Time{}, err
	}

	resetTime = time.Unix(result.Resources.Core.Reset, 0)
	return result.Resources.Core.Remaining, resetTime, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	// Add authorization header if token is set
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Handle rate limiting
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		resetHeader := resp.Header.Get("X-RateLimit-Reset")
		return nil, fmt.Errorf("%w: rate limit resets at %s", ErrRateLimit, resetHeader)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrAPIError, resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
