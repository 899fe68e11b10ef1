// Command oasconform validates a captured HTTP request/response pair
// against an OpenAPI 3.1 document and prints the validation Result as
// JSON. It is the only place in the repository that touches os.Args,
// os.Exit, or process-level I/O.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/oasconform/httpconform/httpconform"
	"github.com/oasconform/httpconform/openapi"
	"github.com/segmentio/encoding/json"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		fmt.Println("oasconform v0.1.0")
	case "help", "-h", "--help":
		printUsage()
	case "validate":
		if err := handleValidate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

type validateFlags struct {
	docPath      string
	requestPath  string
	responsePath string
	operationID  string
	pathTemplate string
	baseURI      string
	maxBodySize  int64
	strict       bool
	verbose      bool
}

func setupValidateFlags() (*flag.FlagSet, *validateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &validateFlags{}

	fs.StringVar(&flags.docPath, "doc", "", "path to the OpenAPI document (required)")
	fs.StringVar(&flags.requestPath, "request", "", "path to the captured request JSON (required; use - for stdin)")
	fs.StringVar(&flags.responsePath, "response", "", "path to the captured response JSON (optional)")
	fs.StringVar(&flags.operationID, "operation-id", "", "hint: the operationId the request resolves to")
	fs.StringVar(&flags.pathTemplate, "path-template", "", "hint: the path template the request resolves to")
	fs.StringVar(&flags.baseURI, "base-uri", "", "document base URI for the C10 resolver when no Host header is available")
	fs.Int64Var(&flags.maxBodySize, "max-body-size", 0, "maximum accepted body size in bytes (0 = document default)")
	fs.BoolVar(&flags.strict, "strict", false, "reject undeclared query parameters and headers, and status codes RFC 9110 does not define")
	fs.BoolVar(&flags.verbose, "v", false, "log resolution steps to stderr")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: oasconform validate -doc <file> -request <file> [-response <file>]\n\n")
		fmt.Fprintf(out, "Validate a captured HTTP request (and optionally its response) against\n")
		fmt.Fprintf(out, "an OpenAPI 3.1 document, printing the validation Result as JSON.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  oasconform validate -doc api.yaml -request req.json\n")
		fmt.Fprintf(out, "  oasconform validate -doc api.yaml -request req.json -response resp.json\n")
		fmt.Fprintf(out, "  cat req.json | oasconform validate -doc api.yaml -request -\n")
	}

	return fs, flags
}

func handleValidate(args []string) error {
	fs, flags := setupValidateFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if flags.docPath == "" {
		fs.Usage()
		return fmt.Errorf("-doc is required")
	}
	if flags.requestPath == "" {
		fs.Usage()
		return fmt.Errorf("-request is required")
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var loadOpts []openapi.Option
	if flags.baseURI != "" {
		loadOpts = append(loadOpts, openapi.WithBaseURI(flags.baseURI))
	}
	if flags.maxBodySize > 0 {
		loadOpts = append(loadOpts, openapi.WithMaxBodySize(flags.maxBodySize))
	}
	if flags.strict {
		loadOpts = append(loadOpts, openapi.WithStrictMode(true))
	}

	ctx := context.Background()
	logger.Debug("loading document", "path", flags.docPath)
	doc, err := openapi.LoadFile(ctx, flags.docPath, loadOpts...)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	reqData, err := readInput(flags.requestPath)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}
	var capturedReq capturedRequestJSON
	if err := json.Unmarshal(reqData, &capturedReq); err != nil {
		return fmt.Errorf("decoding request JSON: %w", err)
	}
	req, err := capturedReq.toRequest()
	if err != nil {
		return fmt.Errorf("invalid captured request: %w", err)
	}

	eval := httpconform.NewDefaultEvaluator(doc)
	hint := httpconform.PathMatchHint{OperationID: flags.operationID, PathTemplate: flags.pathTemplate}

	logger.Debug("validating request", "method", req.Method(), "path", req.URL().Path)
	requestResult, match := httpconform.ValidateRequest(doc, req, hint, eval)

	output := map[string]any{"request": requestResult}
	invalid := !requestResult.IsValid()

	if flags.responsePath != "" {
		respData, err := readInput(flags.responsePath)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		var capturedResp capturedResponseJSON
		if err := json.Unmarshal(respData, &capturedResp); err != nil {
			return fmt.Errorf("decoding response JSON: %w", err)
		}
		resp := capturedResp.toResponse()

		logger.Debug("validating response", "status", resp.StatusCode())
		responseResult := httpconform.ValidateResponse(doc, resp, match, eval)
		output["response"] = responseResult
		invalid = invalid || !responseResult.IsValid()
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(encoded))

	if invalid {
		os.Exit(1)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// capturedRequestJSON is the CLI's wire format for a captured request
// fixture, decoded into an httpconform.CapturedRequest.
type capturedRequestJSON struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

func (c capturedRequestJSON) toRequest() (httpconform.Request, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	return &httpconform.CapturedRequest{
		MethodValue: c.Method,
		URLValue:    u,
		HeaderMap:   c.Headers,
		Body:        []byte(c.Body),
	}, nil
}

// capturedResponseJSON is the CLI's wire format for a captured response
// fixture, decoded into an httpconform.CapturedResponse.
type capturedResponseJSON struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

func (c capturedResponseJSON) toResponse() httpconform.Response {
	return &httpconform.CapturedResponse{
		Status:    c.Status,
		HeaderMap: c.Headers,
		Body:      []byte(c.Body),
	}
}

func printUsage() {
	fmt.Println(`oasconform - OpenAPI 3.1 request/response conformance validator

Usage:
  oasconform <command> [options]

Commands:
  validate    Validate a captured request/response pair against a document
  version     Show version information
  help        Show this help message

Examples:
  oasconform validate -doc api.yaml -request req.json
  oasconform validate -doc api.yaml -request req.json -response resp.json

Run 'oasconform <command> --help' for more information on a command.`)
}
