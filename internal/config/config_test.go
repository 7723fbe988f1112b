package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies the defaults so that changing one is a deliberate act.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default SampleSize is 30", func(t *testing.T) {
		t.Parallel()
		if cfg.SampleSize != 30 {
			t.Errorf("expected SampleSize to be 30, got %d", cfg.SampleSize)
		}
	})

	t.Run("default LoginDelay is 1.5 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.LoginDelay != 1500*time.Millisecond {
			t.Errorf("expected LoginDelay to be 1.5s, got %v", cfg.LoginDelay)
		}
	})

	t.Run("default Concurrency is 8", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 8 {
			t.Errorf("expected Concurrency to be 8, got %d", cfg.Concurrency)
		}
	})

	t.Run("default ServerAddr is loopback", func(t *testing.T) {
		t.Parallel()
		if cfg.ServerAddr != "127.0.0.1:8080" {
			t.Errorf("expected ServerAddr to be '127.0.0.1:8080', got '%s'", cfg.ServerAddr)
		}
	})

	t.Run("default DataDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DataDir != XDGDataDir() {
			t.Errorf("expected DataDir %q, got %q", XDGDataDir(), cfg.DataDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"zero sample size", func(c *Config) { c.SampleSize = 0 }, ErrInvalidSampleSize},
		{"negative sample size", func(c *Config) { c.SampleSize = -1 }, ErrInvalidSampleSize},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"negative login delay", func(c *Config) { c.LoginDelay = -time.Second }, ErrInvalidLoginDelay},
		{"zero login delay", func(c *Config) { c.LoginDelay = 0 }, nil},
		{"redis url", func(c *Config) { c.RedisURL = "redis://localhost:6379/0" }, nil},
		{"tls redis url", func(c *Config) { c.RedisURL = "rediss://cache.internal:6380" }, nil},
		{"http redis url", func(c *Config) { c.RedisURL = "http://localhost:6379" }, ErrInvalidRedisURL},
		{"empty server addr", func(c *Config) { c.ServerAddr = "" }, ErrEmptyServerAddr},
		{"json and markdown", func(c *Config) {
			c.JSONReport = true
			c.MarkdownReport = true
		}, ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func uint64Ptr(v uint64) *uint64 { return &v }

func durationPtr(d time.Duration) *time.Duration { return &d }

// TestFilePlatformConfig tests merging of defaults and platform overrides.
func TestFilePlatformConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: PlatformConfig{
			SampleSize: 50,
			LoginDelay: durationPtr(time.Second),
		},
		Platforms: map[string]PlatformConfig{
			"twitter": {
				SampleSize:  100,
				Seed:        uint64Ptr(42),
				Concurrency: 2,
			},
			"facebook": {
				LoginDelay: durationPtr(0),
			},
		},
	}

	tests := []struct {
		name     string
		platform string
		want     PlatformConfig
	}{
		{
			name:     "unknown platform gets defaults",
			platform: "instagram",
			want:     PlatformConfig{SampleSize: 50, LoginDelay: durationPtr(time.Second)},
		},
		{
			name:     "override replaces set fields only",
			platform: "twitter",
			want: PlatformConfig{
				SampleSize:  100,
				Seed:        uint64Ptr(42),
				LoginDelay:  durationPtr(time.Second),
				Concurrency: 2,
			},
		},
		{
			name:     "explicit zero delay overrides",
			platform: "facebook",
			want:     PlatformConfig{SampleSize: 50, LoginDelay: durationPtr(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := file.PlatformConfig(tt.platform)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PlatformConfig(%q) mismatch (-want +got):\n%s", tt.platform, diff)
			}
		})
	}
}

// TestApplyFileAndForPlatform tests how file settings reach the Config.
func TestApplyFileAndForPlatform(t *testing.T) {
	t.Parallel()

	t.Run("nil file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if cfg.File != nil || cfg.ServerAddr != DefaultServerAddr {
			t.Errorf("unexpected config after nil file: %+v", cfg)
		}
		if got := cfg.ForPlatform("twitter"); got.SampleSize != DefaultSampleSize {
			t.Errorf("expected default sample size, got %d", got.SampleSize)
		}
	})

	t.Run("global and platform settings", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{
			DataDir:    "/tmp/realreach",
			RedisURL:   "redis://localhost:6379/1",
			ServerAddr: "127.0.0.1:9090",
			Platforms: map[string]PlatformConfig{
				"instagram": {SampleSize: 12, Seed: uint64Ptr(7), LoginDelay: durationPtr(0)},
			},
		})

		if cfg.DataDir != "/tmp/realreach" || cfg.RedisURL != "redis://localhost:6379/1" || cfg.ServerAddr != "127.0.0.1:9090" {
			t.Errorf("global settings not applied: %+v", cfg)
		}

		ig := cfg.ForPlatform("instagram")
		if ig.SampleSize != 12 || !ig.Seeded || ig.Seed != 7 || ig.LoginDelay != 0 {
			t.Errorf("unexpected instagram config: %+v", ig)
		}
		if cfg.SampleSize != DefaultSampleSize || cfg.Seeded {
			t.Error("ForPlatform must not modify the receiver")
		}

		tw := cfg.ForPlatform("twitter")
		if tw.SampleSize != DefaultSampleSize || tw.Seeded || tw.LoginDelay != DefaultLoginDelay {
			t.Errorf("unexpected twitter config: %+v", tw)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.realreach")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".realreach")
		content := `dataDir: /var/lib/realreach
serverAddr: 127.0.0.1:9999
defaults:
  sampleSize: 40
  loginDelay: 250ms
platforms:
  twitter:
    seed: 1234
    concurrency: 4
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			DataDir:    "/var/lib/realreach",
			ServerAddr: "127.0.0.1:9999",
			Defaults: PlatformConfig{
				SampleSize: 40,
				LoginDelay: durationPtr(250 * time.Millisecond),
			},
			Platforms: map[string]PlatformConfig{
				"twitter": {Seed: uint64Ptr(1234), Concurrency: 4},
			},
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("LoadConfigFile mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".realreach")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Platforms map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".realreach")
		if err := os.WriteFile(configPath, []byte("defaults:\n  sampleSize: 5\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Platforms == nil {
			t.Error("expected Platforms map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		if result := FindConfigFile(""); filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %s in current directory, got %q", DefaultConfigFile, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if filepath.Base(dir) != AppName {
				t.Errorf("expected %s dir to end in %q, got %q", name, AppName, dir)
			}
		})
	}
}
