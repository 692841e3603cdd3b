// Package config loads the optional souji config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/yamakage/souji/internal/cleaner"
)

// Config is the parsed config file. Every section is optional; the zero
// value is a fully working default.
type Config struct {
	Storage Storage `toml:"storage"`
	Safety  Safety  `toml:"safety"`
	Cache   Cache   `toml:"cache"`
}

// Storage configures the S3-compatible archive backend. The access keys
// may instead come from SOUJI_ACCESS_KEY_ID / SOUJI_SECRET_ACCESS_KEY,
// which take precedence over the file.
type Storage struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key_id"`
	SecretKey string `toml:"secret_access_key"`
}

// Safety extends the compiled cache safety table.
type Safety struct {
	Safe        []string `toml:"safe"`
	NeedsReview []string `toml:"needs_review"`
}

// Cache tunes the cache cleaner's defaults.
type Cache struct {
	MinSizeGB float64 `toml:"min_size_gb"`
}

// Path returns the config file location under the XDG config home.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "souji", "config.toml")
}

// Load reads the config file. A missing file is not an error and yields
// the zero-value config; a malformed file is.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load with an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SafetyOverrides converts the [safety] lists into a tier map. Later
// lists win on a duplicated identifier, with needs_review the most
// conservative outcome.
func (c *Config) SafetyOverrides() map[string]cleaner.SafetyTier {
	if len(c.Safety.Safe) == 0 && len(c.Safety.NeedsReview) == 0 {
		return nil
	}
	overrides := make(map[string]cleaner.SafetyTier,
		len(c.Safety.Safe)+len(c.Safety.NeedsReview))
	for _, id := range c.Safety.Safe {
		overrides[id] = cleaner.Safe
	}
	for _, id := range c.Safety.NeedsReview {
		overrides[id] = cleaner.NeedsReview
	}
	return overrides
}

// CacheMinSize returns the configured cache threshold in bytes, or def
// when unset.
func (c *Config) CacheMinSize(def int64) int64 {
	if c.Cache.MinSizeGB <= 0 {
		return def
	}
	return int64(c.Cache.MinSizeGB * float64(1<<30))
}

// Credentials returns the storage keys, env vars first.
func (c *Config) Credentials() (accessKey, secretKey string) {
	accessKey = os.Getenv("SOUJI_ACCESS_KEY_ID")
	if accessKey == "" {
		accessKey = c.Storage.AccessKey
	}
	secretKey = os.Getenv("SOUJI_SECRET_ACCESS_KEY")
	if secretKey == "" {
		secretKey = c.Storage.SecretKey
	}
	return accessKey, secretKey
}
