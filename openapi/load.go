package openapi

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"
)

// Load parses a YAML- or JSON-encoded OpenAPI 3.1 document (JSON is
// valid YAML, so no separate codepath is needed) and builds its
// operation and path-template indices. The returned error, if any, is
// always fatal: a partially indexed Document is never returned.
func Load(ctx context.Context, r io.Reader, uri string, opts ...Option) (*Document, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &LoadError{Kind: KindMalformed, Message: "invalid option", Cause: err}
		}
	}

	data, err := readAllContext(ctx, r)
	if err != nil {
		return nil, &LoadError{Kind: KindMalformed, Message: "failed to read document", Cause: err}
	}

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Kind: KindMalformed, Message: "failed to decode document", Cause: err}
	}

	doc := raw.toDocument()
	doc.URI = uri
	doc.MaxBodySize = cfg.maxBodySize
	doc.StrictMode = cfg.strictMode
	doc.BaseURI = cfg.baseURI
	if doc.BaseURI == "" {
		doc.BaseURI = uri
	}

	if err := doc.buildIndices(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadFile opens and loads a document from a filesystem path, using the
// path itself as the document's URI.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: KindMalformed, Message: fmt.Sprintf("cannot open %s", path), Cause: err}
	}
	defer f.Close()
	return Load(ctx, f, path, opts...)
}

// readAllContext reads r fully, honoring ctx cancellation between reads,
// in the teacher's style of threading a context through I/O that is
// otherwise synchronous.
func readAllContext(ctx context.Context, r io.Reader) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(r)
		done <- result{data, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

// rawDocument mirrors Document's wire shape with Paths kept as a raw
// mapping node so that document-order path matching (§4.C3) is
// preserved — a plain Go map would discard insertion order.
type rawDocument struct {
	OpenAPI    string      `yaml:"openapi"`
	Info       *Info       `yaml:"info"`
	Paths      yaml.Node   `yaml:"paths"`
	Components *Components `yaml:"components,omitempty"`
}

func (r *rawDocument) toDocument() *Document {
	doc := &Document{
		OpenAPI:    r.OpenAPI,
		Info:       r.Info,
		Components: r.Components,
	}
	if r.Paths.Kind != yaml.MappingNode {
		return doc
	}
	for i := 0; i+1 < len(r.Paths.Content); i += 2 {
		keyNode, valNode := r.Paths.Content[i], r.Paths.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			continue
		}
		var item PathItem
		if err := valNode.Decode(&item); err != nil {
			continue
		}
		doc.Paths.Set(key, &item)
	}
	return doc
}
