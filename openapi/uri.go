package openapi

import (
	"net/url"
	"strings"
)

// EscapeJSONPointerToken applies JSON pointer token escaping: "~"
// becomes "~0" and "/" becomes "~1". Order matters — "~" must be
// escaped first, or the "~" in each "~1" produced by escaping "/" would
// itself be re-escaped to "~01".
func EscapeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// UnescapeJSONPointerToken reverses EscapeJSONPointerToken.
func UnescapeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// AbsoluteKeywordLocation resolves the document's URI (possibly
// relative) against the request's Host header, per §4.C10, and appends
// a JSON-pointer fragment built from pointerSegments. When the
// document URI is already absolute, host is ignored.
func (d *Document) AbsoluteKeywordLocation(host string, pointerSegments ...string) string {
	base := d.URI
	resolved := base
	if parsed, err := url.Parse(base); err == nil && !parsed.IsAbs() && host != "" {
		root := &url.URL{Scheme: "https", Host: host, Path: "/"}
		if ref, err := url.Parse(base); err == nil {
			resolved = root.ResolveReference(ref).String()
		}
	}

	var frag strings.Builder
	for _, seg := range pointerSegments {
		frag.WriteByte('/')
		frag.WriteString(escapeFragment(EscapeJSONPointerToken(seg)))
	}
	if frag.Len() == 0 {
		return resolved
	}
	return resolved + "#" + frag.String()
}

// escapeFragment percent-encodes characters not safe in a URI fragment,
// after JSON pointer escaping has already turned "/" into "~1".
func escapeFragment(s string) string {
	u := url.URL{Fragment: s}
	enc := u.EscapedFragment()
	return enc
}
