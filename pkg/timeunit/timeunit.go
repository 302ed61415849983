// Package timeunit renders integer minute totals for display.
package timeunit

import "strconv"

const MinutesPerDay = 1440

// FormatMinutes turns a minute total into "2h 15m", "2h" or "15m".
// Zero yields "0m". Negative input is a caller contract violation.
func FormatMinutes(total int) string {
	hours := total / 60
	mins := total % 60
	switch {
	case hours > 0 && mins > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(mins) + "m"
	}
}

// Hours returns the total as decimal hours with one fractional digit.
// Rounding follows strconv.FormatFloat (half to even).
func Hours(total int) string {
	return strconv.FormatFloat(float64(total)/60, 'f', 1, 64)
}

// PercentOfDay returns the share of a 1440-minute day with one
// fractional digit.
func PercentOfDay(total int) string {
	return strconv.FormatFloat(float64(total)/MinutesPerDay*100, 'f', 1, 64)
}
