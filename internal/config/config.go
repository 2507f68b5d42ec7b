// Package config loads reachy-blocks configuration from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Default robot configuration.
const (
	DefaultRobotPort  = "8000"
	DefaultAPIURL     = "http://localhost:" + DefaultRobotPort + "/api"
	DefaultServerAddr = ":3000"
	DefaultStaticDir  = "./dist"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "auto"
)

// Daemon holds the robot daemon connection settings.
type Daemon struct {
	APIURL string `toml:"api_url"`
}

// Server holds the extension server settings.
type Server struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

// Logging holds log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration file structure.
type Config struct {
	Daemon  Daemon  `toml:"daemon"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Daemon:  Daemon{APIURL: DefaultAPIURL},
		Server:  Server{Addr: DefaultServerAddr, StaticDir: DefaultStaticDir},
		Logging: Logging{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// DefaultPath returns ~/.config/reachy-blocks/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "reachy-blocks", "config.toml"), nil
}

// Load reads the file at path (or the default path when empty), applies
// environment overrides and validates the result. A missing file is not an
// error; the returned bool reports whether one was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, false, err
		}
		path = p
	}

	exists := false
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", path, err)
		}
		exists = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, false, fmt.Errorf("open config: %w", err)
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// applyEnv overlays ROBOT_IP, REACHY_API_URL and LOG_LEVEL. REACHY_API_URL
// wins over ROBOT_IP.
func (c *Config) applyEnv() {
	if ip := os.Getenv("ROBOT_IP"); ip != "" {
		c.Daemon.APIURL = RobotAPIURL(ip)
	}
	if u := os.Getenv("REACHY_API_URL"); u != "" {
		c.Daemon.APIURL = u
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

func (c *Config) normalize() {
	c.Daemon.APIURL = strings.TrimSuffix(strings.TrimSpace(c.Daemon.APIURL), "/")
	if c.Daemon.APIURL == "" {
		c.Daemon.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if strings.TrimSpace(c.Server.StaticDir) == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate checks the configuration for values the daemon client cannot use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Daemon.APIURL)
	if err != nil {
		return fmt.Errorf("daemon.api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("daemon.api_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("daemon.api_url: missing host")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	return nil
}

// RobotAPIURL returns the daemon REST base URL for a robot reachable at robotIP.
func RobotAPIURL(robotIP string) string {
	return fmt.Sprintf("http://%s:%s/api", robotIP, DefaultRobotPort)
}

// Sample returns a commented configuration file with default values.
func Sample() string {
	return `# reachy-blocks configuration

[daemon]
# Base URL of the Reachy Mini daemon REST API.
api_url = "` + DefaultAPIURL + `"

[server]
addr = "` + DefaultServerAddr + `"
# Directory holding the built extension bundle.
static_dir = "` + DefaultStaticDir + `"

[logging]
level = "info"    # debug, info, warn, error
format = "auto"   # auto, text, json
`
}
