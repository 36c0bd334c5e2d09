package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults used when neither a flag nor an environment variable is set.
const (
	DefaultDBPath      = "zaloga.sqlite3"
	DefaultAddr        = ":8080"
	DefaultLogFormat   = "text"
	DefaultCORSOrigins = "*"
)

// Config holds the process settings.
type Config struct {
	DBPath      string
	Addr        string
	LogPath     string
	LogFormat   string
	CORSOrigins []string
}

// Usage is printed for -h.
const Usage = `Usage: zaloga [serve|audit] [flags]

Commands:
  serve                   run the HTTP API (default)
  audit                   check item quantities against the movement ledger

Flags:
  -d, -db <path>          SQLite database path (env ZALOGA_DB, default: zaloga.sqlite3)
  -a, -addr <host:port>   listen address (env ZALOGA_ADDR, default: :8080)
  -l, -log <path>         log file path (env ZALOGA_LOG, default: stdout/stderr only)
  -log-format <fmt>       text or json (env ZALOGA_LOG_FORMAT, default: text)
  -cors-origins <list>    comma-separated allowed origins (env ZALOGA_CORS_ORIGINS, default: *)
  -env <path>             dotenv file to load first (default: .env if present)
  -h, -help               show this help and exit
`

// Load parses args. Environment variables, optionally loaded from a dotenv
// file, provide the flag defaults.
func Load(args []string, output io.Writer) (*Config, error) {
	envPath, err := findEnvFlag(args)
	if err != nil {
		return nil, err
	}
	if err := loadEnv(envPath); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("zaloga", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { fmt.Fprint(output, Usage) }

	cfg := &Config{}

	fs.StringVar(&cfg.DBPath, "db", env("ZALOGA_DB", DefaultDBPath), "")
	fs.StringVar(&cfg.DBPath, "d", env("ZALOGA_DB", DefaultDBPath), "")

	fs.StringVar(&cfg.Addr, "addr", env("ZALOGA_ADDR", DefaultAddr), "")
	fs.StringVar(&cfg.Addr, "a", env("ZALOGA_ADDR", DefaultAddr), "")

	fs.StringVar(&cfg.LogPath, "log", env("ZALOGA_LOG", ""), "")
	fs.StringVar(&cfg.LogPath, "l", env("ZALOGA_LOG", ""), "")

	fs.StringVar(&cfg.LogFormat, "log-format", env("ZALOGA_LOG_FORMAT", DefaultLogFormat), "")

	var origins string
	fs.StringVar(&origins, "cors-origins", env("ZALOGA_CORS_ORIGINS", DefaultCORSOrigins), "")

	// Already consumed above.
	fs.String("env", "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg.CORSOrigins = splitList(origins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path must not be empty")
	}
	if c.Addr == "" {
		return errors.New("listen address must not be empty")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// findEnvFlag extracts -env before the real parse so the file can feed the
// other flags' defaults.
func findEnvFlag(args []string) (string, error) {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "env" {
			continue
		}
		if hasValue {
			return value, nil
		}
		if i+1 >= len(args) {
			return "", errors.New("flag needs an argument: -env")
		}
		return args[i+1], nil
	}
	return "", nil
}

// loadEnv loads a dotenv file without overriding variables already set. An
// explicit path must exist; the default .env is optional.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		return nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
	}
	return nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
