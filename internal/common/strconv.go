package common

import "strconv"

// AtoiDefault parses value, falling back to def when empty or malformed.
// Query parameters like page and limit never fail a request over a typo.
func AtoiDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
