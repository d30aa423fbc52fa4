package common

import "strconv"

// ParseMoney converts a query parameter into a whole-unit currency
// amount, falling back to the default when the value is missing,
// malformed, or negative.
func ParseMoney(value string, def int64) int64 {
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
