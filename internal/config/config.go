// Package config resolves lettercheck settings from defaults, an optional TOML
// file and LETTERCHECK_* environment variables. Command-line flags are applied
// on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LETTERCHECK_"

// Duration is a time.Duration written as a string such as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// APIConfig configures the remote spellcheck API.
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Token   string   `toml:"token"`
	Timeout Duration `toml:"timeout"`
}

// KeysConfig locates the age keys used to encrypt drafts.
type KeysConfig struct {
	Dir            string `toml:"dir"`
	IdentitiesFile string `toml:"identity"`
	RecipientsFile string `toml:"recipient"`
}

// Config holds every setting of the server.
type Config struct {
	Addr       string     `toml:"addr"`
	Port       int        `toml:"port"`
	DataDir    string     `toml:"data_dir"`
	LogFile    string     `toml:"log_file"`
	SessionTTL Duration   `toml:"session_ttl"`
	API        APIConfig  `toml:"api"`
	Keys       KeysConfig `toml:"keys"`
}

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:       "localhost",
		Port:       8080,
		SessionTTL: Duration{2 * time.Hour},
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{30 * time.Second},
		},
	}
}

// Load starts from Default, applies the TOML file at path if it exists, then
// the environment. An empty path skips the file. Derived paths are filled in
// last.
func Load(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Resolve(lookup); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	str("ADDR", &c.Addr)
	str("DATA_DIR", &c.DataDir)
	str("LOG_FILE", &c.LogFile)
	str("API_URL", &c.API.BaseURL)
	str("API_TOKEN", &c.API.Token)
	str("KEYS_DIR", &c.Keys.Dir)
	str("IDENTITIES_FILE", &c.Keys.IdentitiesFile)
	str("RECIPIENTS_FILE", &c.Keys.RecipientsFile)

	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPORT %q: %w", EnvPrefix, v, err)
		}
		c.Port = port
	}

	durations := map[string]*Duration{
		"API_TIMEOUT": &c.API.Timeout,
		"SESSION_TTL": &c.SessionTTL,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
			}
		}
	}

	return nil
}

// Resolve fills in the data directory, keys directory and log file when they
// are unset. The data directory falls back to XDG_DATA_HOME/lettercheck.
func (c *Config) Resolve(lookup LookupFunc) error {
	if c.DataDir == "" {
		xdgDataHome, err := xdgDataHome(lookup)
		if err != nil {
			return fmt.Errorf("unable to determine XDG_DATA_HOME: %w", err)
		}
		c.DataDir = filepath.Join(xdgDataHome, "lettercheck")
	}

	if c.Keys.Dir == "" {
		c.Keys.Dir = filepath.Join(c.DataDir, "keys")
	}

	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "service", "lettercheck.log")
	}

	return nil
}

// DraftsDir is where drafts are stored.
func (c Config) DraftsDir() string {
	return filepath.Join(c.DataDir, "drafts")
}

// DefaultKeys returns key.txt and key.pub from the keys directory when both
// exist, or empty strings otherwise.
func (c Config) DefaultKeys() (identitiesFile, recipientsFile string) {
	identitiesFile = filepath.Join(c.Keys.Dir, "key.txt")
	recipientsFile = filepath.Join(c.Keys.Dir, "key.pub")

	if _, err := os.Stat(identitiesFile); err != nil {
		return "", ""
	}
	if _, err := os.Stat(recipientsFile); err != nil {
		return "", ""
	}

	return identitiesFile, recipientsFile
}

// Validate checks the settings the server cannot run without.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url must be set")
	}
	if c.SessionTTL.Duration <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

func xdgDataHome(lookup LookupFunc) (string, error) {
	if lookup != nil {
		if v, ok := lookup("XDG_DATA_HOME"); ok && v != "" {
			return v, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share"), nil
}
