package httpconform

import (
	"net/url"

	"github.com/oasconform/httpconform/openapi"
)

// resolveAbsoluteKeywordRoot implements §4.C10: the document's own
// identifier may be relative, in which case it is resolved against
// https://<host>/ using the request's Host header. host is empty for
// an off-process caller with no live request (e.g. the CLI replaying a
// captured fixture); doc.BaseURI then supplies the root instead.
func resolveAbsoluteKeywordRoot(doc *openapi.Document, host string) string {
	base := doc.URI
	if base == "" {
		base = doc.BaseURI
	}

	if parsed, err := url.Parse(base); err == nil && parsed.IsAbs() {
		return base + "#"
	}

	if host != "" {
		if root, err := url.Parse("https://" + host + "/"); err == nil {
			if ref, err := url.Parse(base); err == nil {
				return root.ResolveReference(ref).String() + "#"
			}
		}
	}

	if doc.BaseURI != "" {
		return doc.BaseURI + "#"
	}
	return base + "#"
}
