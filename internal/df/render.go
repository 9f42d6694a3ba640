package df

import (
	"fmt"
	"math"
	"strings"
)

const mebi = 1024 * 1024

var byteUnits = []string{"B", "kB", "MB", "GB", "TB", "PB"}

// formatBytes renders a byte count with 1024-based units and two decimals ("103.92 GB").
func formatBytes(b float64) string {
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return "n/a"
	}
	prefix := ""
	if b < 0 {
		prefix = "-"
		b = -b
	}
	unit := 0
	for b >= 1024 && unit < len(byteUnits)-1 {
		b /= 1024
		unit++
	}
	return fmt.Sprintf("%s%.2f %s", prefix, b, byteUnits[unit])
}

var iecUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatSignedIEC renders a byte delta with an explicit sign and IEC units ("-4.32 GiB").
func formatSignedIEC(b float64) string {
	sign := ""
	switch {
	case b > 0:
		sign = "+"
	case b < 0:
		sign = "-"
		b = -b
	}
	unit := 0
	for b >= 1024 && unit < len(iecUnits)-1 {
		b /= 1024
		unit++
	}
	return fmt.Sprintf("%s%.2f %s", sign, b, iecUnits[unit])
}

// formatPercent renders a percentage with two decimals, dropping a single trailing zero
// ("90.0%", "75.79%", "80.1%"). Values below 0.01 keep up to seven decimals so that
// they do not read as zero ("0.001%").
func formatPercent(v float64) string {
	if v == 0 {
		return "0%"
	}
	if math.Abs(v) < 0.01 {
		return strings.TrimRight(fmt.Sprintf("%.7f", v), "0") + "%"
	}
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimSuffix(s, "0")
	return s + "%"
}

// unitOf returns the unit part of a rendered size.
func unitOf(rendered string) string {
	if i := strings.LastIndexByte(rendered, ' '); i >= 0 {
		return rendered[i+1:]
	}
	return ""
}

// formatUsedOf renders "used of max", dropping the unit of the first value when both share it.
func formatUsedOf(usedMB, maxMB float64) string {
	used := formatBytes(usedMB * mebi)
	total := formatBytes(maxMB * mebi)
	if unitOf(used) == unitOf(total) {
		used = strings.TrimSuffix(used, " "+unitOf(used))
	}
	return used + " of " + total
}

// formatTimespan renders a duration in seconds as days and hours ("1 day 0 hours").
func formatTimespan(seconds float64) string {
	if seconds < 3600 {
		return plural(int(math.Round(seconds/60)), "minute")
	}
	hours := int(math.Round(seconds / 3600))
	if hours < 24 {
		return plural(hours, "hour")
	}
	return plural(hours/24, "day") + " " + plural(hours%24, "hour")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
