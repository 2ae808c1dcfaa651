package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		URL     string `yaml:"url"`
		Timeout int    `yaml:"timeout_seconds"`
	} `yaml:"server"`
	User struct {
		Username string `yaml:"username"`
		Token    string `yaml:"token"`
	} `yaml:"user"`
	Output struct {
		Format string `yaml:"format"`
	} `yaml:"output"`
}

var ErrNotInitialized = errors.New("configuration not initialized")

// dirOverride lets tests point the CLI at a scratch directory.
var dirOverride string

func SetDir(dir string) { dirOverride = dir }

func GetConfigDir() (string, error) {
	if dirOverride != "" {
		return dirOverride, nil
	}
	if dir := os.Getenv("MANGACTL_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mangacatalog"), nil
}

func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func Default() *Config {
	cfg := &Config{}
	cfg.Server.URL = "http://localhost:8080"
	cfg.Server.Timeout = 10
	cfg.Output.Format = "text"
	return cfg
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file holds a session token
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes a default config unless one already exists.
func Init(serverURL string) (*Config, error) {
	if cfg, err := Load(); err == nil {
		return cfg, nil
	}
	cfg := Default()
	if serverURL != "" {
		cfg.Server.URL = strings.TrimRight(serverURL, "/")
	}
	return cfg, Save(cfg)
}

func UpdateUserToken(username, token string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.User.Username = username
	cfg.User.Token = token
	return Save(cfg)
}

func ClearUserToken() error {
	return UpdateUserToken("", "")
}

// Set assigns a dotted key such as "server.url".
func Set(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "server.url":
		cfg.Server.URL = strings.TrimRight(value, "/")
	case "server.timeout_seconds":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("invalid integer for server.timeout_seconds")
		}
		cfg.Server.Timeout = n
	case "output.format":
		if value != "text" && value != "json" {
			return fmt.Errorf("output.format must be text or json")
		}
		cfg.Output.Format = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
