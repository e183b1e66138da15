// Package common provides shared configuration and logging setup for
// the auctionet binaries.
//
// Configuration is read from the environment (with an optional .env
// file), then overlaid with an optional YAML config file. Command-line
// flags in the individual binaries take final precedence.
package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/auctionet/auctionet/api/httpserver"
	"github.com/auctionet/auctionet/identity"
)

// Config holds the settings shared by the server binaries.
type Config struct {
	ListenAddr  string `env:"AUCTIONET_LISTEN_ADDR, default=:8080" yaml:"listen_addr"`
	MetricsAddr string `env:"AUCTIONET_METRICS_ADDR, default=:9090" yaml:"metrics_addr"`
	EnablePprof bool   `env:"AUCTIONET_PPROF, default=false" yaml:"enable_pprof"`
	LogJSON     bool   `env:"AUCTIONET_LOG_JSON, default=false" yaml:"log_json"`
	LogDebug    bool   `env:"AUCTIONET_LOG_DEBUG, default=false" yaml:"log_debug"`

	// DirectoryURL is where auctiond announces itself. Empty disables
	// announcing, for standalone runs.
	DirectoryURL string `env:"AUCTIONET_DIRECTORY_URL" yaml:"directory_url"`

	// PublicEndpoint is the URL other peers reach this service at.
	PublicEndpoint string `env:"AUCTIONET_PUBLIC_ENDPOINT" yaml:"public_endpoint"`

	// SeedLogBackend selects the durable seed log: "file" or "postgres".
	SeedLogBackend string `env:"AUCTIONET_SEED_LOG, default=file" yaml:"seed_log"`
	SeedLogPath    string `env:"AUCTIONET_SEED_LOG_PATH, default=auctionet-seeds.jsonl" yaml:"seed_log_path"`

	// PeerStoreBackend selects the directory's peer store: "memory" or
	// "postgres".
	PeerStoreBackend string `env:"AUCTIONET_PEER_STORE, default=memory" yaml:"peer_store"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains the PostgreSQL connection settings used by
// both the seed log and the directory peer store.
type PostgresConfig struct {
	Host     string `env:"AUCTIONET_PG_HOST, default=localhost" yaml:"host"`
	Port     int    `env:"AUCTIONET_PG_PORT, default=5432" yaml:"port"`
	User     string `env:"AUCTIONET_PG_USER, default=postgres" yaml:"user"`
	Password string `env:"AUCTIONET_PG_PASSWORD" yaml:"password"`
	Database string `env:"AUCTIONET_PG_DATABASE, default=auctionet" yaml:"database"`
	SSLMode  string `env:"AUCTIONET_PG_SSLMODE, default=disable" yaml:"ssl_mode"`
}

// Identity converts the settings into the identity package's config.
func (c *PostgresConfig) Identity() *identity.PostgresConfig {
	return &identity.PostgresConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
	}
}

// ConnectionString returns the lib/pq connection string.
func (c *PostgresConfig) ConnectionString() string {
	return c.Identity().ConnectionString()
}

// Load reads configuration from the environment and, if configFile is
// non-empty, overlays it with the YAML file's values.
func Load(configFile string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("reading environment config: %w", err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configFile, err)
		}
	}

	return &cfg, nil
}

// NewLogger creates the process logger. JSON output is for production,
// text for local runs.
func NewLogger(jsonOutput, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// ServerConfig builds the HTTP server config from the loaded settings.
func ServerConfig(cfg *Config, log *slog.Logger) *httpserver.HTTPServerConfig {
	return &httpserver.HTTPServerConfig{
		ListenAddr:               cfg.ListenAddr,
		MetricsAddr:              cfg.MetricsAddr,
		EnablePprof:              cfg.EnablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}
}
