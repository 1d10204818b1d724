package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Confluence ConfluenceConfig `yaml:"confluence"`
	Photos     PhotosConfig     `yaml:"photos"`
	Validation struct {
		SchemaDir string `yaml:"schema_dir"` // base dir for relative schema paths
	} `yaml:"validation"`
}

type ConfluenceConfig struct {
	BaseURL        string `yaml:"base_url"` // e.g. https://example.atlassian.net/wiki
	Auth           string `yaml:"auth"`     // "basic" (email + API token) or "bearer" (personal access token)
	Email          string `yaml:"email"`
	APIToken       string `yaml:"api_token"`
	SpaceKey       string `yaml:"space_key"`
	ParentPageID   string `yaml:"parent_page_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type PhotosConfig struct {
	Root         string   `yaml:"root"`
	ImageExts    []string `yaml:"image_exts"` // empty: extractor.DefaultImageExts
	VideoExts    []string `yaml:"video_exts"` // empty: extractor.DefaultVideoExts
	ExiftoolPath string   `yaml:"exiftool_path"`
}

// LoadConfig reads path (a missing file means defaults), then applies
// environment overrides. A .env file in the working directory is loaded first.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	override(&cfg.Confluence.BaseURL, "HOUSEKEEPER_CONFLUENCE_URL")
	override(&cfg.Confluence.Email, "HOUSEKEEPER_CONFLUENCE_EMAIL")
	override(&cfg.Confluence.APIToken, "ATLASSIAN_API_TOKEN", "HOUSEKEEPER_CONFLUENCE_TOKEN")
	override(&cfg.Confluence.Auth, "HOUSEKEEPER_CONFLUENCE_AUTH")
	override(&cfg.Confluence.SpaceKey, "HOUSEKEEPER_SPACE_KEY")

	cfg.applyDefaults()
	return &cfg, nil
}

// override sets *dst from the named variables; later names take precedence.
func override(dst *string, names ...string) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
}

func (c *Config) applyDefaults() {
	c.Confluence.BaseURL = strings.TrimRight(strings.TrimSpace(c.Confluence.BaseURL), "/")
	c.Confluence.Auth = strings.ToLower(strings.TrimSpace(c.Confluence.Auth))
	if c.Confluence.Auth == "" {
		c.Confluence.Auth = "basic"
	}
	if c.Confluence.TimeoutSeconds <= 0 {
		c.Confluence.TimeoutSeconds = 30
	}
	if c.Photos.Root == "" {
		c.Photos.Root = "."
	}
}

// Timeout is the per-request timeout of the Confluence client.
func (c ConfluenceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports the first setting missing for talking to Confluence.
func (c ConfluenceConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("confluence base_url not configured (set HOUSEKEEPER_CONFLUENCE_URL or confluence.base_url)")
	}
	if c.APIToken == "" {
		return fmt.Errorf("confluence API token not configured (set ATLASSIAN_API_TOKEN or confluence.api_token)")
	}
	switch c.Auth {
	case "basic":
		if c.Email == "" {
			return fmt.Errorf("confluence email is required for basic auth")
		}
	case "bearer":
	default:
		return fmt.Errorf("unsupported confluence auth mode: %s", c.Auth)
	}
	return nil
}

// SchemaPath resolves a schema argument against validation.schema_dir when it
// is relative and does not exist as given.
func (c *Config) SchemaPath(p string) string {
	if c.Validation.SchemaDir == "" || filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(c.Validation.SchemaDir, p)
}
