// Package config provides configuration types, defaults and loading for tilde.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/tilde/internal/log"
)

// EnvPrefix prefixes environment overrides, e.g. TILDE_EDITOR_QUIT_TIMES.
const EnvPrefix = "TILDE"

// Front ends.
const (
	FrontendTea   = "tea"
	FrontendPlain = "plain"
)

// Config holds all configuration options for tilde.
type Config struct {
	Editor   EditorConfig `mapstructure:"editor" yaml:"editor"`
	Theme    ThemeConfig  `mapstructure:"theme" yaml:"theme"`
	Log      LogConfig    `mapstructure:"log" yaml:"log"`
	Frontend string       `mapstructure:"frontend" yaml:"frontend"` // "tea" (default) or "plain"
	Watch    WatchConfig  `mapstructure:"watch" yaml:"watch"`
}

// EditorConfig holds editing behaviour options.
type EditorConfig struct {
	QuitTimes     int           `mapstructure:"quit_times" yaml:"quit_times"`
	StatusTimeout time.Duration `mapstructure:"status_timeout" yaml:"status_timeout"`
	Highlight     bool          `mapstructure:"highlight" yaml:"highlight"`
}

// ThemeConfig holds colors. Values are hex ("#DCA3A3") or ANSI indexes ("1").
type ThemeConfig struct {
	Number string `mapstructure:"number" yaml:"number"`
	// Profile forces a color profile: "ascii", "ansi", "ansi256", "truecolor".
	// Empty means detect from the terminal.
	Profile string `mapstructure:"profile" yaml:"profile"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
	Level   string `mapstructure:"level" yaml:"level"`
}

// WatchConfig controls external change detection.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			QuitTimes:     3,
			StatusTimeout: 5 * time.Second,
			Highlight:     true,
		},
		Theme: ThemeConfig{
			Number: "#DCA3A3",
		},
		Log: LogConfig{
			Enabled: false,
			Path:    "tilde-debug.log",
			Level:   "debug",
		},
		Frontend: FrontendTea,
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
	}
}

// SetDefaults registers every default with v so that environment overrides
// apply to all keys.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor.quit_times", d.Editor.QuitTimes)
	v.SetDefault("editor.status_timeout", d.Editor.StatusTimeout)
	v.SetDefault("editor.highlight", d.Editor.Highlight)
	v.SetDefault("theme.number", d.Theme.Number)
	v.SetDefault("theme.profile", d.Theme.Profile)
	v.SetDefault("log.enabled", d.Log.Enabled)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("frontend", d.Frontend)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// DefaultDir is ~/.config/tilde.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "tilde")
	}
	return filepath.Join(home, ".config", "tilde")
}

// DefaultPath is the user config file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads path, or config.yaml in DefaultDir when path is empty, into a
// Config on top of the defaults and TILDE_* environment overrides. A missing
// file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			log.ErrorErr(log.CatConfig, "Failed to read config", err, "path", path)
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file, using defaults", "path", path)
	} else {
		log.Debug(log.CatConfig, "Loaded config", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func Validate(cfg Config) error {
	if cfg.Editor.QuitTimes < 0 {
		return fmt.Errorf("editor.quit_times must be >= 0, got %d", cfg.Editor.QuitTimes)
	}
	if cfg.Editor.StatusTimeout <= 0 {
		return fmt.Errorf("editor.status_timeout must be positive, got %s", cfg.Editor.StatusTimeout)
	}
	switch cfg.Frontend {
	case FrontendTea, FrontendPlain:
	default:
		return fmt.Errorf("frontend must be %q or %q, got %q", FrontendTea, FrontendPlain, cfg.Frontend)
	}
	switch strings.ToLower(cfg.Theme.Profile) {
	case "", "ascii", "ansi", "ansi256", "truecolor":
	default:
		return fmt.Errorf("theme.profile: unknown profile %q", cfg.Theme.Profile)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce)
	}
	return nil
}

var sectionComments = map[string]string{
	"editor":   "Editing behaviour",
	"theme":    "Highlight colors: hex (#RRGGBB) or ANSI index",
	"log":      "Debug log, also enabled by --debug",
	"frontend": "Front end: tea (Bubble Tea) or plain (raw terminal)",
	"watch":    "Report changes made to the open file by other programs",
}

// DefaultConfigYAML renders Defaults as a commented YAML document.
func DefaultConfigYAML() (string, error) {
	var node yaml.Node
	if err := node.Encode(Defaults()); err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	node.HeadComment = "tilde configuration"
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if c, ok := sectionComments[key.Value]; ok {
			key.HeadComment = c
		}
	}

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	return string(out), nil
}

// WriteDefault creates a config file at path with default settings and
// comments, creating the parent directory if needed. An existing file is left
// alone unless force is set.
func WriteDefault(fsys afero.Fs, path string, force bool) error {
	log.Debug(log.CatConfig, "Writing default config", "path", path)

	if !force {
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return fmt.Errorf("checking config file: %w", err)
		}
		if exists {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	text, err := DefaultConfigYAML()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, []byte(text), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", path)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", path)
	return nil
}
