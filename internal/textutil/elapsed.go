package textutil

import (
	"fmt"
	"strings"
	"time"
)

// FormatElapsed spells out a duration as "X days, Y hours, Z minutes, N.NN seconds".
// Leading units that are zero are omitted; seconds are always present.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Seconds()
	whole := int64(total)
	fraction := total - float64(whole)

	days := whole / 86400
	hours := (whole % 86400) / 3600
	minutes := (whole % 3600) / 60
	seconds := float64(whole%60) + fraction

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%d days, ", days)
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%d hours, ", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%d minutes, ", minutes)
	}
	fmt.Fprintf(&b, "%.2f seconds", seconds)
	return b.String()
}
