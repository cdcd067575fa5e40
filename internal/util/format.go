package util //nolint:revive // package name util hosts shared helpers used by transports and the admin CLI

import (
	"strings"
	"time"
)

// FormatElapsed formats a delivery duration for display, handling edge cases.
// Returns "—" for zero or negative durations, truncates to milliseconds for readability.
func FormatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "—"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}

// Fallback returns value unless it is blank, in which case fallback is returned.
func Fallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
