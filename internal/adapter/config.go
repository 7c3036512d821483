package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Player  PlayerConfig  `mapstructure:"player"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds backend configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"` // e.g. http://localhost:5000
	Timeout time.Duration `mapstructure:"timeout"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	IPCFlag string   `mapstructure:"ipc_flag"` // e.g. "--input-ipc-server="
}

// StoreConfig holds local persistence configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	PosterFallback string `mapstructure:"poster_fallback"`
	GridColumns    int    `mapstructure:"grid_columns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultPosterFallback is shown for catalog entries without artwork
const DefaultPosterFallback = "https://via.placeholder.com/240x360/111/fff?text=StreamFlix"

var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 15 * time.Second,
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultDataPath(), "session.db"),
		},
		UI: UIConfig{
			PosterFallback: DefaultPosterFallback,
			GridColumns:    0, // auto
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "streamflix.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the per-user data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streamflix")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "streamflix")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "streamflix")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "streamflix")
	}
}

// LoadConfig loads configuration from file and environment.
// A non-empty path overrides the search locations.
func LoadConfig(path string) (*Config, error) {
	return loadConfig(viper.GetViper(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (STREAMFLIX_API_BASE_URL, ...)
	v.SetEnvPrefix("STREAMFLIX")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv applies during Unmarshal
// even when the key is absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"api.base_url", "api.timeout",
		"player.command", "player.args", "player.ipc_flag",
		"store.path",
		"ui.poster_fallback", "ui.grid_columns",
		"logging.file", "logging.level",
	} {
		_ = v.BindEnv(key)
	}
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("api.base_url", cfg.API.BaseURL)
	viper.Set("api.timeout", cfg.API.Timeout.String())

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)
	viper.Set("player.ipc_flag", cfg.Player.IPCFlag)

	viper.Set("store.path", cfg.Store.Path)

	viper.Set("ui.poster_fallback", cfg.UI.PosterFallback)
	viper.Set("ui.grid_columns", cfg.UI.GridColumns)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
