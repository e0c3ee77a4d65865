package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	// SuperUserPassphrase guards the visibility gate. Display-level
	// only; it is not an authorization boundary.
	SuperUserPassphrase string `yaml:"super_user_passphrase"`
}

// Load reads configuration from an optional .env file, an optional
// YAML file, and environment variables, in increasing precedence.
func Load() (Config, error) {
	// Missing .env is fine; explicit files and env vars still apply.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "ticketd.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			SuperUserPassphrase: "admin123",
		},
	}

	if path := os.Getenv("TICKETD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TICKETD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TICKETD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TICKETD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TICKETD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TICKETD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if pass := os.Getenv("TICKETD_SUPER_USER_PASSPHRASE"); pass != "" {
		cfg.Auth.SuperUserPassphrase = pass
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
