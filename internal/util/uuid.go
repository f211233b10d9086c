package util

import "regexp"

// Version 1-5, RFC 4122 variant. Stricter than uuid.Parse, which also accepts braces and urn: forms.
var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsValidUUID reports whether s is a canonical hyphenated UUID.
func IsValidUUID(s string) bool {
	return uuidPattern.MatchString(s)
}
