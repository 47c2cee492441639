// Package config loads hilite configuration from TOML or YAML files
// with an environment variable overlay. A missing config file is not
// an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/hilite/internal/style"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "HILITE_"

// Config holds the engine configuration.
type Config struct {
	// Palette overrides builtin colors by name.
	Palette map[string]string `toml:"palette" yaml:"palette"`

	// FontSize is the document base font size in points.
	FontSize int `toml:"font_size" yaml:"font_size"`

	// InitScript is the path to an optional Lua init script that
	// registers custom decoration kinds.
	InitScript string `toml:"init_script" yaml:"init_script"`

	// CompressAt is the token body size above which the codec
	// compresses; 0 uses the codec default, negative disables.
	CompressAt int `toml:"compress_at" yaml:"compress_at"`
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying parse error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Palette:  map[string]string{},
		FontSize: 12,
	}
}

// Load reads configuration from path, chooses the format by file
// extension (.toml, .yaml, .yml), applies the environment overlay,
// and validates the result. A missing file yields the defaults with
// the overlay applied.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Not an error; defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := unmarshal(path, data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	applyEnv(&cfg)

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// unmarshal parses data by extension.
func unmarshal(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// applyEnv overlays HILITE_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "FONT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FontSize = n
		}
	}
	if v := os.Getenv(EnvPrefix + "INIT_SCRIPT"); v != "" {
		cfg.InitScript = v
	}
	if v := os.Getenv(EnvPrefix + "COMPRESS_AT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CompressAt = n
		}
	}
}

// validate checks the loaded configuration.
func validate(cfg Config) error {
	if cfg.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %d", cfg.FontSize)
	}
	return style.Palette(cfg.Palette).Validate()
}

// StylePalette merges the configured palette over the defaults.
func (c Config) StylePalette() style.Palette {
	p := style.DefaultPalette()
	for name, val := range c.Palette {
		p[name] = val
	}
	return p
}
