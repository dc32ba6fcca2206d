// Package normalize canonicalizes game titles for catalog matching.
package normalize

import (
	"strconv"
	"strings"
)

// Title returns the canonical form of a game title: lowercase, colons
// removed, hyphens replaced with spaces, whitespace collapsed.
// The result is stable under repeated application.
func Title(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// IsAppID reports whether the query parses as a positive numeric app ID.
func IsAppID(query string) bool {
	id, err := strconv.Atoi(strings.TrimSpace(query))
	return err == nil && id > 0
}

// AppID parses the query as an app ID. Returns 0 when the query is not
// a valid positive integer.
func AppID(query string) int {
	id, err := strconv.Atoi(strings.TrimSpace(query))
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
