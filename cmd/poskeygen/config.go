package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the vendor tool settings, read from POSKEYGEN_* variables.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Ledger selects where issued licenses are recorded: "", "postgres" or "mongo".
	Ledger        string `envconfig:"LEDGER"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"poslicense"`
	LedgerTable   string `envconfig:"LEDGER_TABLE" default:"pos_license_ledger"`

	PrivateKeyFile string `envconfig:"PRIVATE_KEY_FILE" default:"private_key.pem"`
	PublicKeyFile  string `envconfig:"PUBLIC_KEY_FILE" default:"public_key.pem"`
}

// loadConfig reads optional .env files, then the environment.
func loadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("POSKEYGEN", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	switch cfg.Ledger {
	case "", "postgres", "mongo":
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger)
	}
	return &cfg, nil
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
