package httpconform

import (
	"mime"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var mediaTypeFold = cases.Fold()

// foldMediaType lowercases (Unicode case-fold, not ASCII-only) a
// type/subtype string for comparison, per §4.C2's case-insensitive
// matching requirement.
func foldMediaType(s string) string {
	return mediaTypeFold.String(s)
}

// MatchMediaType reports whether a document-declared content-type
// pattern matches a request/response's actual media type, applying
// §4.C2's precedence: exact, then "type/*", then "*/*".
func MatchMediaType(pattern, actual string) bool {
	pattern, actual = foldMediaType(pattern), foldMediaType(actual)
	if pattern == "*/*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(actual, prefix)
	}
	return pattern == actual
}

// mediaTypePrecedence ranks a pattern for "best match wins" selection
// among several content-type keys that could all match: lower is
// better (exact beats type/* beats */*).
func mediaTypePrecedence(pattern, actual string) int {
	pattern, actual = foldMediaType(pattern), foldMediaType(actual)
	switch {
	case pattern == actual:
		return 0
	case pattern == "*/*":
		return 2
	case strings.HasSuffix(pattern, "/*") && strings.HasPrefix(actual, pattern[:len(pattern)-1]):
		return 1
	default:
		return -1 // no match
	}
}

// SelectContentEntry picks the best-matching key from a content map
// (requestBody.content or response.content) for an actual media type,
// per the exact → type/* → */* precedence of §4.C2/§4.C5.
func SelectContentEntry[V any](content map[string]V, actual string) (key string, value V, ok bool) {
	bestRank := 3
	for pattern, v := range content {
		rank := mediaTypePrecedence(pattern, actual)
		if rank < 0 {
			continue
		}
		if rank < bestRank {
			bestRank, key, value, ok = rank, pattern, v, true
		}
	}
	return key, value, ok
}

// ParseContentType splits a Content-Type header into its media type and
// charset, defaulting charset to UTF-8 for text/* and +json types per
// §4.C5's decoding rule.
func ParseContentType(header string) (mediaType, charset string, err error) {
	mediaType, params, err := mime.ParseMediaType(header)
	if err != nil {
		return "", "", err
	}
	charset = params["charset"]
	if charset == "" {
		if strings.HasPrefix(mediaType, "text/") || strings.HasSuffix(mediaType, "+json") || mediaType == "application/json" {
			charset = "utf-8"
		}
	}
	return mediaType, charset, nil
}

// DecodeBody decodes raw bytes to UTF-8 using the named charset. An
// unrecognized or empty charset passes bytes through unchanged, on the
// assumption that most real-world bodies are already UTF-8 even when
// charset metadata is absent.
func DecodeBody(raw []byte, charset string) ([]byte, error) {
	if charset == "" || isUTF8Alias(charset) {
		return raw, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return raw, nil
	}
	return decodeWith(enc, raw)
}

func isUTF8Alias(charset string) bool {
	switch foldMediaType(charset) {
	case "utf-8", "utf8":
		return true
	default:
		return false
	}
}

func decodeWith(enc encoding.Encoding, raw []byte) ([]byte, error) {
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
