// Package config loads the server configuration.
//
// Values are resolved in increasing priority: built-in defaults, an optional JSON
// config file, command-line flags, environment variables.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	internalerrors "github.com/Schera-ole/empstatus/internal/errors"
)

type ServerConfig struct {
	Address         string `koanf:"address"`
	DatabaseDSN     string `koanf:"database_dsn"`
	APIToken        string `koanf:"api_token"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`
	LogToDB         bool   `koanf:"log_to_db"`
	AuditFile       string `koanf:"audit_file"`
	MigrationsPath  string `koanf:"migrations_path"`
}

func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         "localhost:8080",
		CacheTTLSeconds: 60,
		LogToDB:         true,
		MigrationsPath:  "migrations",
	}
}

// NewServerConfig builds the configuration from os.Args and the environment.
func NewServerConfig() (*ServerConfig, error) {
	return ParseServerConfig(os.Args[1:])
}

func ParseServerConfig(args []string) (*ServerConfig, error) {
	config := defaultServerConfig()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configFile := fs.String("c", "", "path to JSON config file")
	address := fs.String("a", config.Address, "address")
	databaseDSN := fs.String("d", config.DatabaseDSN, "database dsn, in-memory storage when empty")
	apiToken := fs.String("t", config.APIToken, "bearer token required by the API")
	cacheTTL := fs.Int("ttl", config.CacheTTLSeconds, "response cache TTL in seconds, 0 disables caching")
	logToDB := fs.Bool("log-db", config.LogToDB, "persist audit events to the logs table")
	auditFile := fs.String("audit-file", config.AuditFile, "path to audit log file")
	migrationsPath := fs.String("m", config.MigrationsPath, "path to migrations directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if envConfig := os.Getenv("CONFIG"); envConfig != "" {
		*configFile = envConfig
	}
	if *configFile != "" {
		if err := loadFile(*configFile, config); err != nil {
			return nil, err
		}
	}

	// Flags only win over the file when given explicitly.
	setters := map[string]func(){
		"a":          func() { config.Address = *address },
		"d":          func() { config.DatabaseDSN = *databaseDSN },
		"t":          func() { config.APIToken = *apiToken },
		"ttl":        func() { config.CacheTTLSeconds = *cacheTTL },
		"log-db":     func() { config.LogToDB = *logToDB },
		"audit-file": func() { config.AuditFile = *auditFile },
		"m":          func() { config.MigrationsPath = *migrationsPath },
	}
	fs.Visit(func(f *flag.Flag) {
		if set, ok := setters[f.Name]; ok {
			set()
		}
	})

	envVars := map[string]*string{
		"ADDRESS":         &config.Address,
		"DATABASE_DSN":    &config.DatabaseDSN,
		"API_TOKEN":       &config.APIToken,
		"AUDIT_FILE":      &config.AuditFile,
		"MIGRATIONS_PATH": &config.MigrationsPath,
	}
	for envVar, field := range envVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*field = envValue
		}
	}

	if envCacheTTL := os.Getenv("CACHE_TTL_SECONDS"); envCacheTTL != "" {
		ttl, err := strconv.Atoi(envCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
		}
		config.CacheTTLSeconds = ttl
	}

	if envLogToDB := os.Getenv("LOG_TO_DB"); envLogToDB != "" {
		logToDB, err := strconv.ParseBool(envLogToDB)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_TO_DB: %w", err)
		}
		config.LogToDB = logToDB
	}

	return config, nil
}

func loadFile(path string, config *ServerConfig) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return errors.Wrapf(err, "loading config file %s", path)
	}
	if err := k.Unmarshal("", config); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Validate reports configuration that the server must not start with.
// A missing API token is treated as a misconfiguration, never as "auth disabled".
func (c *ServerConfig) Validate() error {
	if c.APIToken == "" {
		return internalerrors.ErrMissingAPIToken
	}
	if c.Address == "" {
		return errors.New("address must not be empty")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache TTL must not be negative, got %d", c.CacheTTLSeconds)
	}
	return nil
}

// CacheTTL returns the response cache lifetime.
func (c *ServerConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
