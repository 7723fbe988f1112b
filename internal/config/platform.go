package config

import "time"

// PlatformConfig holds analysis settings that can differ per platform.
// Zero or nil fields mean "not set".
type PlatformConfig struct {
	// SampleSize overrides the number of mock followers.
	SampleSize int `yaml:"sampleSize,omitempty"`

	// Seed fixes the mock follower generator.
	Seed *uint64 `yaml:"seed,omitempty"`

	// LoginDelay overrides the simulated login delay, e.g. "500ms".
	LoginDelay *time.Duration `yaml:"loginDelay,omitempty"`

	// Concurrency overrides the number of followers scored in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// File represents the structure of the .realreach configuration file.
type File struct {
	// DataDir overrides the SQLite data directory.
	DataDir string `yaml:"dataDir,omitempty"`

	// RedisURL selects the Redis store.
	RedisURL string `yaml:"redisUrl,omitempty"`

	// ServerAddr overrides the HTTP API listen address.
	ServerAddr string `yaml:"serverAddr,omitempty"`

	// Defaults applies to every platform unless overridden in Platforms.
	Defaults PlatformConfig `yaml:"defaults,omitempty"`

	// Platforms maps platform names ("twitter", "instagram", "facebook")
	// to their overrides.
	Platforms map[string]PlatformConfig `yaml:"platforms,omitempty"`
}

// PlatformConfig returns the configuration for a platform: the defaults
// section with the platform specific values merged on top.
func (f *File) PlatformConfig(platform string) PlatformConfig {
	result := f.Defaults

	override, ok := f.Platforms[platform]
	if !ok {
		return result
	}
	if override.SampleSize != 0 {
		result.SampleSize = override.SampleSize
	}
	if override.Seed != nil {
		result.Seed = override.Seed
	}
	if override.LoginDelay != nil {
		result.LoginDelay = override.LoginDelay
	}
	if override.Concurrency != 0 {
		result.Concurrency = override.Concurrency
	}
	return result
}
