package jsonschema

import "github.com/oasconform/httpconform/internal/stringutil"

// validateFormat applies the handful of "format" keyword checks this
// evaluator recognizes; a value failing a recognized format is an
// error, while unknown formats are ignored rather than rejected.
func validateFormat(s, format string) (ok bool, message string) {
	switch format {
	case "email":
		if !stringutil.IsValidEmail(s) {
			return false, "value is not a valid email address"
		}
	case "uri", "uri-reference":
		if !stringutil.IsValidURI(s) {
			return false, "value is not a valid URI"
		}
	case "date":
		if !stringutil.IsValidDate(s) {
			return false, "value is not a valid date (expected YYYY-MM-DD)"
		}
	case "date-time":
		if !stringutil.IsValidDateTime(s) {
			return false, "value is not a valid date-time (expected RFC 3339)"
		}
	case "uuid":
		if !stringutil.IsValidUUID(s) {
			return false, "value is not a valid UUID"
		}
	}
	return true, ""
}
