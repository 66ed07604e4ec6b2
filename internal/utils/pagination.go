// Package utils provides small shared helpers for the HTTP layer.
package utils

import "strconv"

// AtoiDefault parses s as an int and returns def when parsing fails or the
// result is not positive. Used for page/limit query parameters.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ClampLimit bounds a page size between 1 and max.
func ClampLimit(limit, max int) int {
	if limit <= 0 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
