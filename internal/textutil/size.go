package textutil

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"", "K", "M", "G", "T", "P", "E", "Z"}

// FormatSize renders a byte count with binary prefixes and one decimal place,
// such as "1.0KB" or "0.0B". Sizes beyond zettabytes use the Y prefix.
func FormatSize(bytes int64) string {
	num := float64(bytes)
	for _, unit := range sizeUnits {
		if math.Abs(num) < 1024 {
			return fmt.Sprintf("%3.1f%sB", num, unit)
		}
		num /= 1024
	}
	return fmt.Sprintf("%.1fYB", num)
}
