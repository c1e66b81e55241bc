// Package config reads the desk server settings from flags and the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"
)

// Defaults.
const (
	DefaultDBPath     = "transferhub.sqlite3"
	DefaultAddr       = ":8080"
	DefaultBackendURL = "http://127.0.0.1:8000"
)

const usage = `Usage: transferhub [flags]

Flags:
  -d, -db <path>          SQLite state database path (default: transferhub.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -b, -backend <url>      transfer backend base URL (default: http://127.0.0.1:8000)
  -z, -tz <name>          desk time zone, e.g. Europe/Ljubljana (default: local)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Every flag can also be set with an environment variable:
  TRANSFERHUB_DB, TRANSFERHUB_ADDR, TRANSFERHUB_BACKEND_URL, TRANSFERHUB_TZ,
  TRANSFERHUB_LOG. Flags take precedence.
`

// Config is the resolved server configuration.
type Config struct {
	DBPath     string
	Addr       string
	BackendURL string
	TimeZone   string
	Location   *time.Location
	LogPath    string
}

// Load parses args (without the program name). Environment values from getenv
// become the flag defaults. flag.ErrHelp is returned as is after printing the
// usage to out.
func Load(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("transferhub", flag.ContinueOnError)
	fs.SetOutput(out)

	dbPath := env("TRANSFERHUB_DB", DefaultDBPath)
	fs.StringVar(&cfg.DBPath, "db", dbPath, "")
	fs.StringVar(&cfg.DBPath, "d", dbPath, "")

	addr := env("TRANSFERHUB_ADDR", DefaultAddr)
	fs.StringVar(&cfg.Addr, "addr", addr, "")
	fs.StringVar(&cfg.Addr, "a", addr, "")

	backend := env("TRANSFERHUB_BACKEND_URL", DefaultBackendURL)
	fs.StringVar(&cfg.BackendURL, "backend", backend, "")
	fs.StringVar(&cfg.BackendURL, "b", backend, "")

	tz := env("TRANSFERHUB_TZ", "")
	fs.StringVar(&cfg.TimeZone, "tz", tz, "")
	fs.StringVar(&cfg.TimeZone, "z", tz, "")

	logPath := env("TRANSFERHUB_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logPath, "")
	fs.StringVar(&cfg.LogPath, "l", logPath, "")

	fs.Usage = func() { fmt.Fprint(out, usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return errors.New("database path must not be empty")
	}
	if c.Addr == "" {
		return errors.New("listen address must not be empty")
	}

	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend URL %q: scheme must be http or https", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: missing host", c.BackendURL)
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")

	c.Location = time.Local
	if c.TimeZone != "" {
		loc, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
		}
		c.Location = loc
	}
	return nil
}
