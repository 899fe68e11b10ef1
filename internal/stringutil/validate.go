// Package stringutil validates the string-shaped JSON Schema "format"
// values the evaluator recognizes (§4.C12): email, UUID, date,
// date-time, and URI. Kept separate from internal/jsonschema so the regexes can
// be unit tested without pulling in schema evaluation machinery.
package stringutil

import "regexp"

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRegex     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	dateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
)

// IsValidEmail checks if s is a valid email address, for format: email.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidUUID checks if s is a valid UUID, for format: uuid.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsValidDate checks if s matches YYYY-MM-DD, for format: date.
func IsValidDate(s string) bool {
	return dateRegex.MatchString(s)
}

// IsValidDateTime checks if s starts with an RFC 3339 date-time prefix,
// for format: date-time.
func IsValidDateTime(s string) bool {
	return dateTimeRegex.MatchString(s)
}

// IsValidURI reports whether s looks like an absolute URI (has a
// scheme followed by "//"), for format: uri and uri-reference.
func IsValidURI(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':':
			return i > 0 && len(s) > i+2 && s[i+1] == '/' && s[i+2] == '/'
		case '/', '?', '#':
			return false
		}
	}
	return false
}
