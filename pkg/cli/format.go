package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatSeconds formats a clip duration: milliseconds under a second,
// then seconds, then minutes.
func FormatSeconds(s float64) string {
	if s < 1 {
		return fmt.Sprintf("%dms", int(s*1000+0.5))
	}
	if s < 60 {
		return fmt.Sprintf("%.1fs", s)
	}
	mins := int(s / 60)
	return fmt.Sprintf("%dm%.1fs", mins, s-float64(mins*60))
}

// FormatBytes renders a blob size in SI units for header lines.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
