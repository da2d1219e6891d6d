package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the YAML file Load reads when no path is given.
const DefaultPath = "config.yaml"

// Config holds all configuration for the FlySQL gateway.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
// The database password must only come from the environment.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL holding airportdb)
	Database DatabaseConfig `yaml:"database"`

	// Ad-hoc query limits
	Query QueryConfig `yaml:"query"`

	// CORS configuration for the browser frontend
	CORS CORSConfig `yaml:"cors"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"flysql"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"airportdb"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// QueryConfig bounds ad-hoc query execution.
type QueryConfig struct {
	MaxPageSize     int `yaml:"max_page_size" env:"QUERY_MAX_PAGE_SIZE" env-default:"1000"`
	DefaultPageSize int `yaml:"default_page_size" env:"QUERY_DEFAULT_PAGE_SIZE" env-default:"100"`
	TimeoutSeconds  int `yaml:"timeout_seconds" env:"QUERY_TIMEOUT_SECONDS" env-default:"30"`
	HistoryLimit    int `yaml:"history_limit" env:"QUERY_HISTORY_LIMIT" env-default:"100"`
}

// Timeout returns the per-statement deadline.
func (q *QueryConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	// AllowedOriginsStr is a comma-separated list of origins ("*" for any).
	AllowedOriginsStr string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	// AllowedOrigins is parsed from AllowedOriginsStr (not from config file).
	AllowedOrigins []string `yaml:"-"`
}

// Load reads configuration from the YAML file at path with environment
// variable overrides. A missing file is not an error: configuration then
// comes from the environment and defaults alone. An empty path means
// DefaultPath.
func Load(version, path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{
		Version: version,
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat %s: %w", path, statErr)
	}

	cfg.CORS.AllowedOrigins = parseList(cfg.CORS.AllowedOriginsStr)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the gateway runs in a local/dev environment.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

func (c *Config) validate() error {
	if c.Query.MaxPageSize < 1 {
		return fmt.Errorf("query.max_page_size must be at least 1")
	}
	if c.Query.DefaultPageSize < 1 {
		return fmt.Errorf("query.default_page_size must be at least 1")
	}
	// Lowering only the maximum also lowers the default.
	c.Query.DefaultPageSize = min(c.Query.DefaultPageSize, c.Query.MaxPageSize)
	if c.Query.TimeoutSeconds < 1 {
		return fmt.Errorf("query.timeout_seconds must be at least 1")
	}
	if c.Query.HistoryLimit < 1 {
		return fmt.Errorf("query.history_limit must be at least 1")
	}
	return nil
}

// parseList splits a comma-separated value, dropping empty items.
func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ConnectionString returns a PostgreSQL URL.
// User, password and database are escaped for their URL positions, so
// characters such as @, /, # and spaces in passwords survive parsing.
func (c *DatabaseConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(ResolveHostForDocker(c.Host), strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker reports whether /.dockerenv exists. Cached after the
// first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// ResolveHostForDocker maps localhost to host.docker.internal when the
// gateway runs in a container, so a database on the host stays reachable.
func ResolveHostForDocker(host string) string {
	if IsRunningInDocker() && (host == "localhost" || host == "127.0.0.1") {
		return "host.docker.internal"
	}
	return host
}
