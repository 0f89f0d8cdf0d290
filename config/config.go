package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents thumbasm's on-disk configuration.
type Config struct {
	// Assemble settings
	Assemble struct {
		PadOddOutput   bool `toml:"pad_odd_output"`
		TreatLintAsErr bool `toml:"treat_lint_as_error"`
		MaxErrors      int  `toml:"max_errors"`
	} `toml:"assemble"`

	// Output settings
	Output struct {
		DefaultFormat string `toml:"default_format"` // hex, bin, listing
		BytesPerLine  int    `toml:"bytes_per_line"`
	} `toml:"output"`

	// TUI settings (internal/listing)
	TUI struct {
		Color         bool `toml:"color"`
		DisasmContext int  `toml:"disasm_context"`
		SourceContext int  `toml:"source_context"`
	} `toml:"tui"`

	// Server settings (apiserver)
	Server struct {
		BindAddress string `toml:"bind_address"`
		MaxBodyMB   int    `toml:"max_body_mb"`
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assemble.PadOddOutput = true
	cfg.Assemble.TreatLintAsErr = false
	cfg.Assemble.MaxErrors = 50

	cfg.Output.DefaultFormat = "hex"
	cfg.Output.BytesPerLine = 16

	cfg.TUI.Color = true
	cfg.TUI.DisasmContext = 5
	cfg.TUI.SourceContext = 5

	cfg.Server.BindAddress = "127.0.0.1:8787"
	cfg.Server.MaxBodyMB = 4

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "thumbasm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "thumbasm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
