package model

import (
	"fmt"
	"strings"
)

// Severity represents how strongly an issue indicates a fake or inactive follower.
//
// Severity is an ordered integer so that results can be compared and sorted;
// it is serialized as its lowercase name.
type Severity int

const (
	// SeverityLow indicates a weak signal on its own, such as an empty bio.
	SeverityLow Severity = iota

	// SeverityMedium indicates a moderate signal such as a missing avatar,
	// a skewed follower ratio or a long period of inactivity.
	SeverityMedium

	// SeverityHigh indicates a strong signal such as spam keywords in the bio.
	SeverityHigh
)

// String returns the lowercase name of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// IsValid returns true if s is one of the defined severity levels.
func (s Severity) IsValid() bool {
	return s >= SeverityLow && s <= SeverityHigh
}

// ParseSeverity converts a severity name into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
