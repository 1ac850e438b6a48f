package main

import (
	"strconv"
	"strings"
	"time"
)

// relativeDate converts a relative age string such as "3 days ago" or
// "Just now" into an absolute dd-mm-yyyy date anchored at now. Months count
// as 30 days and years as 365, matching how the listing displays ages.
// Unrecognized or malformed input yields the empty string.
func relativeDate(text string, now time.Time) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return ""
	}

	switch {
	case strings.Contains(lower, "just now"),
		strings.Contains(lower, "minutes before"),
		strings.Contains(lower, "hours before"):
		return now.Format(dateLayout)
	case strings.Contains(lower, "days ago"):
		n, ok := leadingInt(lower)
		if !ok {
			return ""
		}
		return now.AddDate(0, 0, -n).Format(dateLayout)
	case strings.Contains(lower, "months ago"):
		n, ok := leadingInt(lower)
		if !ok {
			return ""
		}
		return now.AddDate(0, 0, -30*n).Format(dateLayout)
	case strings.Contains(lower, "years ago"):
		n, ok := leadingInt(lower)
		if !ok {
			return ""
		}
		return now.AddDate(0, 0, -365*n).Format(dateLayout)
	}
	return ""
}

func leadingInt(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
