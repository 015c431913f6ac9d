// Package config manages collabmap settings stored in ~/.collabmap.
//
// Settings are read from config.yaml in the config directory, then
// overridden by environment variables (a .env file in the working
// directory is loaded first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultOpenAlexURL is the OpenAlex API root.
	DefaultOpenAlexURL = "https://api.openalex.org"

	// DefaultORCIDURL is the public ORCID v3 API root.
	DefaultORCIDURL = "https://pub.orcid.org/v3.0"
)

// Config holds collabmap settings.
type Config struct {
	// OpenAlexURL is the OpenAlex API root
	OpenAlexURL string `yaml:"openalex_url,omitempty"`

	// ORCIDURL is the ORCID public API root
	ORCIDURL string `yaml:"orcid_url,omitempty"`

	// Mailto is sent to OpenAlex to join its polite pool
	Mailto string `yaml:"mailto,omitempty"`

	// RequestDelay is the fixed pause after every institution lookup
	RequestDelay time.Duration `yaml:"request_delay,omitempty"`

	// LookupTimeout bounds a single institution lookup
	LookupTimeout time.Duration `yaml:"lookup_timeout,omitempty"`

	// RequestTimeout bounds other API requests
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`

	// Files holds the default table and output paths
	Files Files `yaml:"files,omitempty"`
}

// Files holds the default paths for tables and rendered output.
type Files struct {
	Papers         string `yaml:"papers,omitempty"`
	Locations      string `yaml:"locations,omitempty"`
	Collaborations string `yaml:"collaborations,omitempty"`
	Map            string `yaml:"map,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.OpenAlexURL == "" {
		c.OpenAlexURL = DefaultOpenAlexURL
	}
	if c.ORCIDURL == "" {
		c.ORCIDURL = DefaultORCIDURL
	}
	if c.RequestDelay == 0 {
		c.RequestDelay = 500 * time.Millisecond
	}
	if c.LookupTimeout == 0 {
		c.LookupTimeout = 5 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.Files.Papers == "" {
		c.Files.Papers = "research_paper_collab.csv"
	}
	if c.Files.Locations == "" {
		c.Files.Locations = "university_locations.csv"
	}
	if c.Files.Collaborations == "" {
		c.Files.Collaborations = "collaborations.csv"
	}
	if c.Files.Map == "" {
		c.Files.Map = "university_collab_map.html"
	}
}

// configDirOverride holds a user-specified configuration directory.
// When empty, $COLLABMAP_CONFIG_DIR or $HOME/.collabmap is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the collabmap configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if dir := os.Getenv("COLLABMAP_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".collabmap"), nil
}

// Path returns the path of config.yaml.
func Path() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads config.yaml (defaults when absent) and applies environment overrides.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFromPath(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFromPath reads a config file. The returned error wraps fs.ErrNotExist
// when the file is missing.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COLLABMAP_MAILTO"); v != "" {
		c.Mailto = v
	}
	if v := os.Getenv("COLLABMAP_OPENALEX_URL"); v != "" {
		c.OpenAlexURL = v
	}
	if v := os.Getenv("COLLABMAP_ORCID_URL"); v != "" {
		c.ORCIDURL = v
	}
}

// Save writes the config to config.yaml in the config directory.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
