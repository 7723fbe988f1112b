package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "realreach"

	// DefaultSampleSize is the number of followers the mock source generates.
	DefaultSampleSize = 30

	// DefaultLoginDelay is the simulated OAuth round trip of the mock login.
	DefaultLoginDelay = 1500 * time.Millisecond

	// DefaultConcurrency is the number of followers scored in parallel.
	DefaultConcurrency = 8

	// DefaultServerAddr is the listen address of the local HTTP API.
	// It binds to loopback only; the API has no authentication of its own.
	DefaultServerAddr = "127.0.0.1:8080"
)

// Config holds all configuration options for RealReach.
// It is populated from defaults, the optional config file and CLI flags, in
// that order, and passed through the application rather than kept global.
type Config struct {
	// Verbose enables debug logging. When false only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .realreach is searched in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file, or nil.
	File *File

	// DataDir is the directory of the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/realreach on Linux).
	DataDir string

	// RedisURL selects the Redis store instead of SQLite when set.
	RedisURL string

	// ServerAddr is the listen address of `realreach serve`.
	ServerAddr string

	// SampleSize is the number of followers generated per mock analysis.
	SampleSize int

	// Seed makes mock follower generation reproducible when Seeded is true.
	Seed uint64

	// Seeded reports whether Seed was set.
	Seeded bool

	// LoginDelay is the simulated login delay. Zero logs in immediately.
	LoginDelay time.Duration

	// Concurrency is the number of followers scored in parallel.
	Concurrency int

	// JSONReport selects JSON output for results and exports.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output for results and exports.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DataDir:     XDGDataDir(),
		ServerAddr:  DefaultServerAddr,
		SampleSize:  DefaultSampleSize,
		LoginDelay:  DefaultLoginDelay,
		Concurrency: DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for RealReach.
// On Linux: ~/.local/share/realreach
// On macOS: ~/Library/Application Support/realreach
// On Windows: %LOCALAPPDATA%\realreach
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for RealReach.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the global settings of f into c.
// Fields that f leaves empty keep their current value.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.File = f

	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.RedisURL != "" {
		c.RedisURL = f.RedisURL
	}
	if f.ServerAddr != "" {
		c.ServerAddr = f.ServerAddr
	}
}

// ForPlatform returns a copy of c with the overrides the configuration file
// sets for platform applied on top of its defaults section.
func (c *Config) ForPlatform(platform string) *Config {
	out := *c
	if c.File == nil {
		return &out
	}

	pc := c.File.PlatformConfig(platform)
	if pc.SampleSize != 0 {
		out.SampleSize = pc.SampleSize
	}
	if pc.Seed != nil {
		out.Seed = *pc.Seed
		out.Seeded = true
	}
	if pc.LoginDelay != nil {
		out.LoginDelay = *pc.LoginDelay
	}
	if pc.Concurrency != 0 {
		out.Concurrency = pc.Concurrency
	}
	return &out
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.SampleSize <= 0 {
		return ErrInvalidSampleSize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.LoginDelay < 0 {
		return ErrInvalidLoginDelay
	}
	if c.RedisURL != "" &&
		!strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return ErrInvalidRedisURL
	}
	if c.ServerAddr == "" {
		return ErrEmptyServerAddr
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
