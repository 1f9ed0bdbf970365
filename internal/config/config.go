package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/dshills/gitlog/internal/gitlog"
	"github.com/rs/zerolog"
)

// Config represents the gitlog configuration.
type Config struct {
	ReposDir   string        `toml:"reposDir"`
	Format     string        `toml:"format"`
	MaxCommits int           `toml:"maxCommits"`
	LogLevel   string        `toml:"logLevel"`
	Privacy    PrivacyConfig `toml:"privacy"`
}

// PrivacyConfig controls redaction of commit data before output.
type PrivacyConfig struct {
	RedactSecrets bool `toml:"redactSecrets"`
	RedactEmails  bool `toml:"redactEmails"`
}

var formats = []string{"text", "json"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		ReposDir:   ".",
		Format:     "text",
		MaxCommits: gitlog.DefaultMaxCommits,
		LogLevel:   "warn",
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("format must be one of text, json; got %q", c.Format)
	}
	if c.MaxCommits <= 0 {
		return fmt.Errorf("maxCommits must be positive; got %d", c.MaxCommits)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	if c.ReposDir == "" {
		return errors.New("reposDir must not be empty")
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for gitlog.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitlog"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "gitlog"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gitlog"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "gitlog"), nil
	default:
		return filepath.Join(home, ".config", "gitlog"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadFile loads config from the config file. The returned metadata records
// which keys the file actually set. A missing file yields a zero Config and
// empty metadata.
func LoadFile() (Config, toml.MetaData, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, toml.MetaData{}, err
	}
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, toml.MetaData{}, nil
		}
		return Config{}, toml.MetaData{}, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, toml.MetaData{}, fmt.Errorf("parsing config file: unknown key %s", undecoded[0])
	}
	return cfg, md, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg, err := Stored()
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Stored returns the defaults overlaid with the config file, ignoring the
// environment and flags.
func Stored() (Config, error) {
	cfg := Default()
	fileCfg, md, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg, md)
	return cfg, nil
}

func mergeFile(dst *Config, src Config, md toml.MetaData) {
	if src.ReposDir != "" {
		dst.ReposDir = src.ReposDir
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if md.IsDefined("maxCommits") {
		dst.MaxCommits = src.MaxCommits
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	// Booleans only override when the file spells them out, so an explicit
	// false is honored and an absent key keeps the default.
	if md.IsDefined("privacy", "redactSecrets") {
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
	if md.IsDefined("privacy", "redactEmails") {
		dst.Privacy.RedactEmails = src.Privacy.RedactEmails
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("GITLOG_REPOS_DIR"); v != "" {
		cfg.ReposDir = v
	}
	if v := os.Getenv("GITLOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("GITLOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GITLOG_MAX_COMMITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GITLOG_MAX_COMMITS must be an integer: %w", err)
		}
		cfg.MaxCommits = n
	}
	if v := os.Getenv("GITLOG_REDACT_SECRETS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GITLOG_REDACT_SECRETS must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	}
	if v := os.Getenv("GITLOG_REDACT_EMAILS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GITLOG_REDACT_EMAILS must be a boolean: %w", err)
		}
		cfg.Privacy.RedactEmails = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the names accepted by SetField.
var Keys = []string{
	"reposDir",
	"format",
	"maxCommits",
	"logLevel",
	"privacy.redactSecrets",
	"privacy.redactEmails",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "reposDir":
		cfg.ReposDir = value
	case "format":
		if !slices.Contains(formats, value) {
			return fmt.Errorf("format must be one of text, json; got %q", value)
		}
		cfg.Format = value
	case "maxCommits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxCommits must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("maxCommits must be positive; got %d", n)
		}
		cfg.MaxCommits = n
	case "logLevel":
		if _, err := zerolog.ParseLevel(value); err != nil {
			return fmt.Errorf("logLevel: %w", err)
		}
		cfg.LogLevel = value
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "privacy.redactEmails":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactEmails must be a boolean: %w", err)
		}
		cfg.Privacy.RedactEmails = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
