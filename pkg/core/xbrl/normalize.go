package xbrl

import (
	"strconv"
	"strings"
)

// Suppressed replaces rich-text fact values that still carry inline
// font styling. TextBlock facts sometimes retain embedded CSS which
// would corrupt a flat table.
const Suppressed = "Suppressed"

// NormalizeValue converts a raw fact string into its canonical output
// form. Pure digit strings pass through unscaled — the decimals
// attribute is a rounding indicator, never a multiplier. Y/M/D duration
// strings convert to fractional years. Everything else passes through,
// except styled markup which is suppressed outright.
func NormalizeValue(raw string) string {
	if isASCIIDigits(raw) {
		return raw
	}
	if isDuration(raw) {
		return strconv.FormatFloat(DurationYears(raw), 'f', -1, 64)
	}
	if hasFontStyling(raw) {
		return Suppressed
	}
	return raw
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isDuration(s string) bool {
	if len(s) < 2 || s[0] != 'P' {
		return false
	}
	if s[1] < '0' || s[1] > '9' {
		return false
	}
	return strings.ContainsAny(s, "YMD")
}

// DurationYears converts a duration such as "P5Y6M15D" into fractional
// years. Months count as 1/12 and days as 1/360 of a year — the 360-day
// convention is an intentional simplification.
func DurationYears(s string) float64 {
	years := digitsBefore(s, 'Y')
	months := digitsBefore(s, 'M')
	days := digitsBefore(s, 'D')
	return years + months/12 + days/360
}

// digitsBefore collects the contiguous digit run immediately preceding
// the first occurrence of marker. Absent markers contribute zero.
func digitsBefore(s string, marker byte) float64 {
	pos := strings.IndexByte(s, marker)
	if pos < 0 {
		return 0
	}
	start := pos
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	if start == pos {
		return 0
	}
	v, _ := strconv.ParseFloat(s[start:pos], 64)
	return v
}

func hasFontStyling(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "font-") || strings.Contains(lower, "font:")
}
