// Package severity provides the severity levels attached to comparison findings.
//
// The levels are ordered from least to most severe:
// Info < Warning < Breaking
//
// Every rule currently shipped reports Breaking. Info and Warning are kept so
// that future rules can report non-breaking findings through the same channel.
package severity

import (
	"fmt"
	"strings"
)

// Severity indicates how disruptive a detected change is for existing clients.
type Severity int

const (
	// SeverityInfo indicates an informational finding with no client impact.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a change that may affect some clients.
	SeverityWarning

	// SeverityBreaking indicates a change that can make previously valid
	// client requests, or client assumptions about responses, fail.
	SeverityBreaking
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityBreaking:
		return "breaking"
	default:
		return "unknown"
	}
}

// Parse converts a case-insensitive severity name into a Severity.
func Parse(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "breaking":
		return SeverityBreaking, nil
	default:
		return 0, fmt.Errorf("severity: unknown level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so severities render as
// their names in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityInfo || s > SeverityBreaking {
		return nil, fmt.Errorf("severity: cannot marshal unknown level %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
