package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration, loaded from a TOML file
// with environment variable overrides applied on top.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Services ServicesConfig `toml:"services"`
	Storage  StorageConfig  `toml:"storage"`
}

// DatabaseConfig contains SQLite connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"YAP_DATABASE_PATH"`
	MaxOpenConns int    `toml:"max_open_conns" env:"YAP_DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `toml:"max_idle_conns" env:"YAP_DATABASE_MAX_IDLE_CONNS"`
}

// ServerConfig contains HTTP server settings for the entry API. BaseURL is
// what CLI and TUI clients dial; it defaults to localhost on the listen port.
type ServerConfig struct {
	Host    string `toml:"host" env:"YAP_SERVER_HOST"`
	Port    int    `toml:"port" env:"YAP_SERVER_PORT"`
	BaseURL string `toml:"base_url" env:"YAP_SERVER_URL"`
}

// Addr returns the host:port the entry API listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ClientURL returns the URL clients should dial for the entry API.
func (s ServerConfig) ClientURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d", s.Port)
}

// ServicesConfig groups the external collaborator endpoints.
type ServicesConfig struct {
	Transcription TranscriptionConfig `toml:"transcription"`
	Enrichment    EnrichmentConfig    `toml:"enrichment"`
}

// TranscriptionConfig points at the speech-to-text proxy.
type TranscriptionConfig struct {
	BaseURL string `toml:"base_url" env:"YAP_TRANSCRIPTION_URL"`
}

// EnrichmentConfig points at the prompt proxy deriving title, summary and
// key insights from a transcript. APIKey is optional; when set it is sent as
// a bearer token.
type EnrichmentConfig struct {
	BaseURL string `toml:"base_url" env:"YAP_ENRICHMENT_URL"`
	APIKey  string `toml:"api_key" env:"YAP_ENRICHMENT_API_KEY"`
}

// StorageConfig contains the recordings blob store credentials. An empty
// endpoint disables uploads: entries are created with the local path instead.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint" env:"YAP_STORAGE_ENDPOINT"`
	AccessKey string `toml:"access_key" env:"YAP_STORAGE_ACCESS_KEY"`
	SecretKey string `toml:"secret_key" env:"YAP_STORAGE_SECRET_KEY"`
	Bucket    string `toml:"bucket" env:"YAP_STORAGE_BUCKET"`
	UseSSL    bool   `toml:"use_ssl" env:"YAP_STORAGE_USE_SSL"`
}

// LoadConfig reads a TOML configuration file from path, then applies
// environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config built from the embedded example file, with
// environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	if err := applyEnvOverrides(&config); err != nil {
		panic(fmt.Sprintf("failed to apply environment overrides: %v", err))
	}
	return &config
}

func applyEnvOverrides(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CreateConfigFile writes the embedded example config to path, refusing to
// clobber an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
