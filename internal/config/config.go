package config

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"

	"github.com/jbweber/homelab/customercare/internal/datastore"
	"github.com/jbweber/homelab/customercare/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. CUSTOMERCARE_LOG_LEVEL
const EnvPrefix = "CUSTOMERCARE"

// Config holds all configuration for the customercare service
type Config struct {
	DBPath                string         `mapstructure:"db_path"`
	Port                  string         `mapstructure:"port"`
	MaxDevicesPerCustomer int            `mapstructure:"max_devices_per_customer"`
	ShutdownTimeout       time.Duration  `mapstructure:"shutdown_timeout"`
	Log                   logging.Config `mapstructure:"log"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		DBPath:                "~/customercare/data/customercare.db",
		Port:                  "8080",
		MaxDevicesPerCustomer: 3,
		ShutdownTimeout:       10 * time.Second,
		Log:                   logging.DefaultConfig(),
	}
}

// SetDefaults registers every key with its default so environment
// variables are honored by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("port", d.Port)
	v.SetDefault("max_devices_per_customer", d.MaxDevicesPerCustomer)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
}

// Load resolves the configuration from defaults, the optional YAML file at
// path, CUSTOMERCARE_* environment variables and whatever flags were bound
// to v, in increasing order of precedence.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting the service cannot run with
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DBPath) == "":
		return errors.New("db_path must not be empty")
	case strings.TrimSpace(c.Port) == "":
		return errors.New("port must not be empty")
	case c.MaxDevicesPerCustomer < 1:
		return fmt.Errorf("max_devices_per_customer must be at least 1, got %d", c.MaxDevicesPerCustomer)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// DSN builds the sqlite connection string. Every pooled connection enforces
// foreign keys, waits on a busy database and takes the write lock at BEGIN
// so that count-then-insert cannot interleave.
func (c *Config) DSN() string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Set("_txlock", "immediate")
	return "file:" + c.expandPath(c.DBPath) + "?" + params.Encode()
}

// InitializeDatabase opens, tunes and migrates the database and wires the repositories
func (c *Config) InitializeDatabase() (*datastore.Datastore, error) {
	dbPath := c.expandPath(c.DBPath)

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply performance optimizations
	OptimizeDatabaseConnection(db)

	if err := ApplyPragmaOptimizations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}

	ds, err := datastore.Open(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return ds, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}
