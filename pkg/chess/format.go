package chess

import (
	"fmt"
	"time"
)

// FormatClockTime formats a clock value to a user-friendly string (e.g. "1:30").
// Under ten seconds tenths are shown ("9.4"), above an hour hours are added
// ("1:05:00"). Overtime values get a leading minus sign ("-0:03").
func FormatClockTime(d time.Duration) string {
	timeMs := d.Milliseconds()

	sign := ""
	if timeMs < 0 {
		sign = "-"
		timeMs = -timeMs
	}

	totalSeconds := timeMs / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds / 60) % 60
	seconds := totalSeconds % 60

	// For times less than 10 seconds, show decimal
	if sign == "" && timeMs < 10000 {
		tenths := (timeMs % 1000) / 100
		return fmt.Sprintf("%d.%d", totalSeconds, tenths)
	}

	if hours > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, hours, minutes, seconds)
	}

	return fmt.Sprintf("%s%d:%02d", sign, minutes, seconds)
}
