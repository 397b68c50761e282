package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPort     = "3000"
	defaultDataFile = "sampleData.json"
)

// Config aggregates every setting of the service.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `validate:"required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// StorageConfig locates the data file.
type StorageConfig struct {
	DataFile string `validate:"required"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Env   string `validate:"oneof=production development"`
	Level string `validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
}

var validate = validator.New()

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:  server,
		Storage: storage,
		Log: LogConfig{
			Env:   strings.ToLower(getEnvOrDefault("APP_ENV", "development")),
			Level: strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadServerConfig() (ServerConfig, error) {
	addr, err := parseAddr(os.Getenv("PORT"))
	if err != nil {
		return ServerConfig{}, err
	}

	timeout := 10
	if override, err := parseOptionalIntEnv("SHUTDOWN_TIMEOUT"); err != nil {
		return ServerConfig{}, err
	} else if override != nil {
		timeout = *override
	}

	return ServerConfig{
		Addr:            addr,
		ShutdownTimeout: time.Duration(timeout) * time.Second,
	}, nil
}

// parseAddr turns PORT into a listen address. ":3000" and "host:3000" pass through.
func parseAddr(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		port = defaultPort
	}

	if strings.Contains(port, ":") {
		return port, nil
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	return ":" + port, nil
}

// loadStorageConfig resolves DATA_FILE. Relative paths and the default are
// anchored at the executable's directory.
func loadStorageConfig() (StorageConfig, error) {
	path := getEnvOrDefault("DATA_FILE", defaultDataFile)
	if filepath.IsAbs(path) {
		return StorageConfig{DataFile: path}, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return StorageConfig{}, fmt.Errorf("resolve executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return StorageConfig{DataFile: filepath.Join(filepath.Dir(exe), path)}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
