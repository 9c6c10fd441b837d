// Package units contains helpers to convert byte sizes to human-readable strings.
package units

import (
	"fmt"
	"strings"
)

//nolint:gochecknoglobals
var base2UnitPrefixes = []string{"", "K", "M", "G"}

func niceNumber(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// BytesString formats b with a base-2 suffix (B, KB, MB, GB), two decimals at most.
func BytesString(b uint64) string {
	if b == 0 {
		return "0 B"
	}

	f := float64(b)
	for i := range base2UnitPrefixes {
		if f < 1024 || i == len(base2UnitPrefixes)-1 {
			return fmt.Sprintf("%v %vB", niceNumber(f), base2UnitPrefixes[i])
		}

		f /= 1024
	}

	return ""
}

// Ratio formats a 0..1 fraction as a percentage.
func Ratio(f float64) string {
	return niceNumber(f*100) + "%"
}
