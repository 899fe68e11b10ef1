// Package httpconform validates HTTP requests and responses against an
// OpenAPI 3.1 document (see the openapi package for the document
// model). It implements the path router, parameter extractor, body
// dispatcher, and result model described by the specification this
// module follows, composing them into ValidateRequest/ValidateResponse.
package httpconform

import (
	"io"
	"iter"
	"net/http"
	"net/url"
)

// Request is the minimal capability set this package needs from an
// HTTP request (§6.2). *http.Request satisfies it via FromHTTPRequest;
// callers that only have captured parts (e.g. off-process replay, a
// test fixture) can use CapturedRequest instead.
type Request interface {
	Method() string
	URL() *url.URL
	Header(name string) (string, bool)
	Headers() iter.Seq2[string, string]
	BodyBytes() ([]byte, bool)
}

// Response is the minimal capability set needed from an HTTP response.
type Response interface {
	StatusCode() int
	Header(name string) (string, bool)
	Headers() iter.Seq2[string, string]
	BodyBytes() ([]byte, bool)
}

// httpRequest adapts *http.Request to Request without copying the body
// unless BodyBytes is actually called.
type httpRequest struct {
	req  *http.Request
	body []byte
	read bool
}

// FromHTTPRequest wraps a standard library request. body, if non-nil,
// is used verbatim by BodyBytes instead of draining req.Body — callers
// that have already read the body (as any net/http handler must, to
// forward it on) should pass it here rather than trying to reread req.Body.
func FromHTTPRequest(req *http.Request, body []byte) Request {
	return &httpRequest{req: req, body: body, read: body != nil}
}

func (r *httpRequest) Method() string  { return r.req.Method }
func (r *httpRequest) URL() *url.URL   { return r.req.URL }

func (r *httpRequest) Header(name string) (string, bool) {
	v := r.req.Header.Get(name)
	if v == "" {
		_, present := r.req.Header[http.CanonicalHeaderKey(name)]
		return "", present
	}
	return v, true
}

func (r *httpRequest) Headers() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for name, values := range r.req.Header {
			if len(values) == 0 {
				continue
			}
			if !yield(name, values[0]) {
				return
			}
		}
	}
}

func (r *httpRequest) BodyBytes() ([]byte, bool) {
	if !r.read {
		r.read = true
		if r.req.Body != nil {
			if b, err := io.ReadAll(r.req.Body); err == nil {
				r.body = b
			}
		}
	}
	return r.body, len(r.body) > 0
}

// Host returns the request's Host header value, used by the URI
// resolver (§4.C10) to build absolute keyword locations.
func (r *httpRequest) Host() string { return r.req.Host }

// httpResponse adapts *http.Response to Response.
type httpResponse struct {
	resp *http.Response
	body []byte
}

// FromHTTPResponse wraps a standard library response with its
// already-read body bytes.
func FromHTTPResponse(resp *http.Response, body []byte) Response {
	return &httpResponse{resp: resp, body: body}
}

func (r *httpResponse) StatusCode() int { return r.resp.StatusCode }

func (r *httpResponse) Header(name string) (string, bool) {
	v := r.resp.Header.Get(name)
	if v == "" {
		_, present := r.resp.Header[http.CanonicalHeaderKey(name)]
		return "", present
	}
	return v, true
}

func (r *httpResponse) Headers() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for name, values := range r.resp.Header {
			if len(values) == 0 {
				continue
			}
			if !yield(name, values[0]) {
				return
			}
		}
	}
}

func (r *httpResponse) BodyBytes() ([]byte, bool) {
	return r.body, len(r.body) > 0
}

// CapturedRequest is an owning, byte-backed Request implementation for
// callers that don't have a live *http.Request — the CLI (C13) and
// tests, per the capability-set Design Note in §9.
type CapturedRequest struct {
	MethodValue string
	URLValue    *url.URL
	HostValue   string
	HeaderMap   map[string]string
	Body        []byte
}

func (c *CapturedRequest) Method() string { return c.MethodValue }
func (c *CapturedRequest) URL() *url.URL  { return c.URLValue }
func (c *CapturedRequest) Host() string   { return c.HostValue }

func (c *CapturedRequest) Header(name string) (string, bool) {
	v, ok := lookupHeader(c.HeaderMap, name)
	return v, ok
}

func (c *CapturedRequest) Headers() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for k, v := range c.HeaderMap {
			if !yield(k, v) {
				return
			}
		}
	}
}

func (c *CapturedRequest) BodyBytes() ([]byte, bool) {
	return c.Body, len(c.Body) > 0
}

// CapturedResponse is the Response counterpart to CapturedRequest.
type CapturedResponse struct {
	Status    int
	HeaderMap map[string]string
	Body      []byte
}

func (c *CapturedResponse) StatusCode() int { return c.Status }

func (c *CapturedResponse) Header(name string) (string, bool) {
	return lookupHeader(c.HeaderMap, name)
}

func (c *CapturedResponse) Headers() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for k, v := range c.HeaderMap {
			if !yield(k, v) {
				return
			}
		}
	}
}

func (c *CapturedResponse) BodyBytes() ([]byte, bool) {
	return c.Body, len(c.Body) > 0
}

func lookupHeader(m map[string]string, name string) (string, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	canonical := http.CanonicalHeaderKey(name)
	for k, v := range m {
		if http.CanonicalHeaderKey(k) == canonical {
			return v, true
		}
	}
	return "", false
}

// hostOf extracts a Host-header-equivalent from any Request, falling
// back to the URL's host when the adapter doesn't separately expose one.
func hostOf(req Request) string {
	type hoster interface{ Host() string }
	if h, ok := req.(hoster); ok {
		if host := h.Host(); host != "" {
			return host
		}
	}
	if u := req.URL(); u != nil {
		return u.Host
	}
	return ""
}
