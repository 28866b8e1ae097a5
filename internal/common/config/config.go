package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultIndexURL is the remote package index
	DefaultIndexURL = "https://raw.githubusercontent.com/spitkov/ynsrepo/refs/heads/main/repo.json"
	// DefaultCacheDir holds the cached copy of the last fetched index
	DefaultCacheDir = "/var/cache/yns"
	// DefaultInstalledDB is the installed package ledger
	DefaultInstalledDB = "/var/lib/yns/installed.json"
	// DefaultSelfUpdateRepository is the GitHub repository publishing yns releases
	DefaultSelfUpdateRepository = "spitkov/yns"

	// SystemConfigDir holds the system-wide configuration files
	SystemConfigDir = "/etc/yns"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownFormat = errors.New("unknown configuration format")
)

// Config represents the application configuration
type Config struct {
	Repository RepositoryConfig `yaml:"repository" toml:"repository"`
	Paths      PathsConfig      `yaml:"paths" toml:"paths"`
	Network    NetworkConfig    `yaml:"network" toml:"network"`
	Scripts    ScriptsConfig    `yaml:"scripts" toml:"scripts"`
	SelfUpdate SelfUpdateConfig `yaml:"self_update" toml:"self_update"`
	Privilege  PrivilegeConfig  `yaml:"privilege" toml:"privilege"`

	// source is the file this configuration was read from, empty for defaults
	source string
}

// RepositoryConfig holds the remote package index location
type RepositoryConfig struct {
	IndexURL string `yaml:"index_url" toml:"index_url"`
}

// PathsConfig holds local storage locations
type PathsConfig struct {
	CacheDir    string `yaml:"cache_dir" toml:"cache_dir"`
	InstalledDB string `yaml:"installed_db" toml:"installed_db"`
	TempDir     string `yaml:"temp_dir,omitempty" toml:"temp_dir,omitempty"` // Empty means os.TempDir()
}

// NetworkConfig holds HTTP settings
type NetworkConfig struct {
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"` // Go duration, empty or "0" disables
	Retries int    `yaml:"retries" toml:"retries"`                     // Retries on 5xx/429 and network errors
}

// ScriptsConfig holds lifecycle script settings
type ScriptsConfig struct {
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"` // Go duration, empty or "0" disables
}

// SelfUpdateConfig holds settings for updating the yns binary itself
type SelfUpdateConfig struct {
	Repository string `yaml:"repository" toml:"repository"` // owner/repo on GitHub
	Token      string `yaml:"token,omitempty" toml:"token,omitempty"`
}

// PrivilegeConfig controls the root check for mutating commands
type PrivilegeConfig struct {
	RequireRoot bool `yaml:"require_root" toml:"require_root"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Repository: RepositoryConfig{IndexURL: DefaultIndexURL},
		Paths: PathsConfig{
			CacheDir:    DefaultCacheDir,
			InstalledDB: DefaultInstalledDB,
		},
		SelfUpdate: SelfUpdateConfig{Repository: DefaultSelfUpdateRepository},
		Privilege:  PrivilegeConfig{RequireRoot: true},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/yns/config.yaml (XDG standard - priority)
// 2. /etc/yns/config.yaml
// 3. /etc/yns/config.toml
func ConfigPaths() ([]string, error) {
	userPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}

	return []string{
		userPath,
		filepath.Join(SystemConfigDir, "config.yaml"),
		filepath.Join(SystemConfigDir, "config.toml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "yns", "config.yaml"), nil
}

// FindConfigPath returns the first existing config file path.
// Returns an empty string if none exists.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Load reads configuration from the first available config file, or returns
// the defaults when there is none.
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return Default(), nil
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path. Keys missing from
// the file keep their default values. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	switch formatOf(path) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.source = path
	return cfg, nil
}

// Source returns the file the configuration was loaded from, or "" for
// built-in defaults.
func (c *Config) Source() string {
	return c.source
}

// SaveTo writes configuration to a specific file path. The format follows
// the file extension.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := c.Marshal(formatOf(path))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the configuration as "yaml" or "toml"
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(c)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Validate checks required fields and duration syntax
func (c *Config) Validate() error {
	if c.Repository.IndexURL == "" {
		return fmt.Errorf("%w: repository.index_url is empty", ErrInvalidConfig)
	}
	if c.Paths.CacheDir == "" {
		return fmt.Errorf("%w: paths.cache_dir is empty", ErrInvalidConfig)
	}
	if c.Paths.InstalledDB == "" {
		return fmt.Errorf("%w: paths.installed_db is empty", ErrInvalidConfig)
	}
	if c.Network.Retries < 0 {
		return fmt.Errorf("%w: network.retries must not be negative", ErrInvalidConfig)
	}
	if _, err := parseDuration("network.timeout", c.Network.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("scripts.timeout", c.Scripts.Timeout); err != nil {
		return err
	}
	return nil
}

// NetworkTimeout returns the per-request HTTP timeout, 0 meaning none
func (c *Config) NetworkTimeout() time.Duration {
	d, _ := parseDuration("network.timeout", c.Network.Timeout)
	return d
}

// ScriptTimeout returns the lifecycle script deadline, 0 meaning none
func (c *Config) ScriptTimeout() time.Duration {
	d, _ := parseDuration("scripts.timeout", c.Scripts.Timeout)
	return d
}

// CacheFile returns the path of the cached index payload
func (c *Config) CacheFile() string {
	return filepath.Join(c.Paths.CacheDir, "repo.json")
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, key)
	}
	return d, nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}
