package openapi

// Option configures a Document at load time, in the teacher's
// httpvalidator/options.go functional-options idiom.
type Option func(*loadConfig) error

type loadConfig struct {
	maxBodySize int64
	strictMode  bool
	baseURI     string
}

func defaultLoadConfig() *loadConfig {
	return &loadConfig{
		maxBodySize: defaultMaxBodySize,
	}
}

// defaultMaxBodySize matches the teacher's httpvalidator default.
const defaultMaxBodySize int64 = 10 << 20 // 10 MiB

// WithMaxBodySize caps the request/response body size httpconform will
// accept before evaluating it against a schema. A body exceeding this
// limit produces KindBodyTooLarge instead of being decoded. n <= 0
// disables the cap.
func WithMaxBodySize(n int64) Option {
	return func(c *loadConfig) error {
		c.maxBodySize = n
		return nil
	}
}

// WithStrictMode rejects requests carrying undeclared query parameters
// or non-standard headers, and responses carrying a status code RFC
// 9110 does not define, matching the teacher's StrictMode semantics.
func WithStrictMode(strict bool) Option {
	return func(c *loadConfig) error {
		c.strictMode = strict
		return nil
	}
}

// WithBaseURI seeds the C10 URI resolver for documents validated
// off-process, where no request carries a Host header to resolve
// AbsoluteKeywordLocation against.
func WithBaseURI(uri string) Option {
	return func(c *loadConfig) error {
		c.baseURI = uri
		return nil
	}
}
