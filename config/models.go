package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
	HTTP       HTTPConfig     `mapstructure:"http"`
	Logging    LoggingConfig  `mapstructure:"logging"`
	Storage    StorageConfig  `mapstructure:"storage"`
	Admin      AdminConfig    `mapstructure:"admin"`
	Connection Connection     `mapstructure:"-"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	switch c.Storage.Backend {
	case "memory":
		return nil
	case "postgres":
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Connection.DSN() == "" {
		return errors.New("postgres connection is required")
	}
	if c.Connection.Source() == SourceFields {
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if c.Postgres.Host == "" {
			return errors.New("postgres.host is required")
		}
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// AdminConfig lists the emails allowed to call administrative routes.
type AdminConfig struct {
	Emails []string `mapstructure:"emails"`
}

// IsAdmin reports whether email matches a configured administrator.
func (a AdminConfig) IsAdmin(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, e := range a.Emails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	DSNFile        string        `mapstructure:"dsn_file"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// ConnectionSource tells where the DSN came from.
type ConnectionSource string

const (
	// SourceEnv means DATABASE_URL was set.
	SourceEnv ConnectionSource = "env"
	// SourceFile means the DSN was read from postgres.dsn_file.
	SourceFile ConnectionSource = "file"
	// SourceFields means the DSN was built from postgres.* settings.
	SourceFields ConnectionSource = "fields"
)

// Connection is the resolved database descriptor. It is a value type with
// unexported fields so it cannot be changed after startup.
type Connection struct {
	dsn    string
	source ConnectionSource
}

// NewConnection builds a descriptor from an explicit DSN.
func NewConnection(dsn string) Connection {
	return Connection{dsn: dsn, source: SourceFields}
}

// DSN returns the connection string.
func (c Connection) DSN() string { return c.dsn }

// Source returns where the DSN was resolved from.
func (c Connection) Source() ConnectionSource { return c.source }
