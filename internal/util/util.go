package util

import (
	"fmt"
	"time"
)

// FormatUptime renders a duration as a human-readable uptime string.
func FormatUptime(d time.Duration) string {
	seconds := int(d.Seconds()) % 60
	minutes := int(d.Minutes()) % 60
	hours := int(d.Hours())
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hour%s, %d minute%s, %d second%s",
			hours, Plural(hours),
			minutes, Plural(minutes),
			seconds, Plural(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s, %d second%s",
			minutes, Plural(minutes),
			seconds, Plural(seconds))
	default:
		return fmt.Sprintf("%d second%s", seconds, Plural(seconds))
	}
}

// Plural returns "s" unless n is exactly one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
