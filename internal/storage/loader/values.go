package loader

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order for text cells that look like dates
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// inferValue converts a raw text cell to the narrowest matching type:
// empty -> nil, integer -> int64, decimal -> float64, date -> time.Time,
// true/false -> bool, anything else stays a string.
func inferValue(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if hasDigit(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		if t, ok := parseDate(s); ok {
			return t
		}
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	return raw
}

func parseDate(s string) (time.Time, bool) {
	if len(s) < len("2006-01-02") || s[4] != '-' {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// hasDigit keeps words like "nan" or "infinity" as text
func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func inferRecord(record []string) []interface{} {
	values := make([]interface{}, len(record))
	for i, cell := range record {
		values[i] = inferValue(cell)
	}
	return values
}
