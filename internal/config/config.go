package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/guiyumin/vdl/internal/i18n"
	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "vdl"
	configFileName = "config.yml"

	DefaultLanguage = "zh"
)

// YtDlp holds settings for the yt-dlp executable
type YtDlp struct {
	Path        string `yaml:"path"`
	AutoInstall bool   `yaml:"auto_install"`
	Cookies     string `yaml:"cookies"`
}

// Config is the on-disk configuration. Every field is optional.
type Config struct {
	Language  string `yaml:"language"`
	OutputDir string `yaml:"output_dir"`
	Quality   string `yaml:"quality"`
	Proxy     string `yaml:"proxy"`
	Verbose   bool   `yaml:"verbose"`
	YtDlp     YtDlp  `yaml:"ytdlp"`
}

// Keys lists the settable keys in display order; Set and Get reject others
var Keys = []string{
	"language",
	"output_dir",
	"quality",
	"proxy",
	"verbose",
	"ytdlp.path",
	"ytdlp.auto_install",
	"ytdlp.cookies",
}

// Default returns a config with default values
func Default() *Config {
	return &Config{
		Language: DefaultLanguage,
	}
}

// ConfigDir returns the directory holding the config file
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// SavePath returns the config file path, or an empty string if the user
// config directory cannot be determined
func SavePath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFileName)
}

// LoadOrDefault loads the config at path. A missing file (or an empty
// path) yields defaults and no error. A file that cannot be read or parsed
// yields defaults together with the error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Load reads the config at path. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return cfg, nil
}

// SaveTo writes cfg to path, creating parent directories
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func checkKey(key string) (string, error) {
	key = strings.ToLower(key)
	if !slices.Contains(Keys, key) {
		return "", fmt.Errorf("unknown config key %q (keys: %s)", key, strings.Join(Keys, ", "))
	}
	return key, nil
}

// Set assigns a value by dotted key, e.g. "ytdlp.auto_install"
func (c *Config) Set(key, value string) error {
	key, err := checkKey(key)
	if err != nil {
		return err
	}

	switch key {
	case "language":
		if langs := i18n.Languages(); !slices.Contains(langs, value) {
			return fmt.Errorf("unsupported language %q (%s)", value, strings.Join(langs, ", "))
		}
		c.Language = value
	case "output_dir":
		c.OutputDir = value
	case "quality":
		c.Quality = value
	case "proxy":
		c.Proxy = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.Verbose = b
	case "ytdlp.path":
		c.YtDlp.Path = value
	case "ytdlp.auto_install":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.YtDlp.AutoInstall = b
	case "ytdlp.cookies":
		c.YtDlp.Cookies = value
	}
	return nil
}

// Get returns the string form of a dotted key
func (c *Config) Get(key string) (string, error) {
	key, err := checkKey(key)
	if err != nil {
		return "", err
	}

	switch key {
	case "language":
		return c.Language, nil
	case "output_dir":
		return c.OutputDir, nil
	case "quality":
		return c.Quality, nil
	case "proxy":
		return c.Proxy, nil
	case "verbose":
		return strconv.FormatBool(c.Verbose), nil
	case "ytdlp.path":
		return c.YtDlp.Path, nil
	case "ytdlp.auto_install":
		return strconv.FormatBool(c.YtDlp.AutoInstall), nil
	case "ytdlp.cookies":
		return c.YtDlp.Cookies, nil
	}
	return "", nil
}
