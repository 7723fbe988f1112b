// Package config provides the configuration of RealReach: defaults, the
// optional .realreach YAML file with per-platform overrides, and the XDG
// directories used for persistent data.
package config
