// Package jsonptr escapes RFC 6901 JSON pointer tokens for the
// instance- and keyword-location values carried by httpconform's error
// records.
package jsonptr

import "strings"

// EscapeToken applies RFC 6901 token escaping: "~" → "~0", "/" → "~1".
func EscapeToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}
