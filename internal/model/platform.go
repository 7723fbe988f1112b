package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedPlatform is returned for platform names that are not supported.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform represents a social media platform a user can log in with.
type Platform string

// Supported platforms.
const (
	// PlatformTwitter represents Twitter/X.
	PlatformTwitter Platform = "twitter"
	// PlatformInstagram represents Instagram.
	PlatformInstagram Platform = "instagram"
	// PlatformFacebook represents Facebook.
	PlatformFacebook Platform = "facebook"
)

// Platforms returns every supported platform in display order.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformInstagram, PlatformFacebook}
}

// String returns the string representation of the Platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid returns true if this is a supported platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTwitter, PlatformInstagram, PlatformFacebook:
		return true
	default:
		return false
	}
}

// ParsePlatform converts user input into a Platform.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w %q (supported: twitter, instagram, facebook)", ErrUnsupportedPlatform, s)
	}
	return p, nil
}
