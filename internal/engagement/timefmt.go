package engagement

import (
	"fmt"
	"time"
)

// FormatTime renders d as MM:SS. Fractions are truncated and negative
// values clamp to zero. Minutes keep growing past 59; there is no hour part.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Remaining returns duration-position, clamped to zero.
func Remaining(position, duration time.Duration) time.Duration {
	return max(duration-position, 0)
}

// Seconds converts fractional seconds to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// TimeReport renders the current and remaining time, one per line.
func TimeReport(position, duration time.Duration) string {
	return "Current Time: " + FormatTime(position) + "\n" +
		"Remaining Time: " + FormatTime(Remaining(position, duration))
}
