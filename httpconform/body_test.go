package httpconform

import (
	"testing"

	"github.com/oasconform/httpconform/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	result Result
}

func (s stubEvaluator) Evaluate(schema *openapi.Schema, instance any, opts EvalOptions) Result {
	return s.result
}

func TestValidateRequestBody_RejectsBodyOnGetWithoutDeclaration(t *testing.T) {
	req := &CapturedRequest{Body: []byte(`{"a":1}`)}
	result := ValidateRequestBody(req, "get", nil, nil, 0, "")
	require.False(t, result.IsValid())
	assert.Equal(t, KindUnexpectedBodyForGetHead, result.Errors()[0].Kind)
}

func TestValidateRequestBody_EmptyOptionalBodyIsValid(t *testing.T) {
	req := &CapturedRequest{}
	body := &openapi.RequestBody{Required: false, Content: map[string]*openapi.MediaType{
		"application/json": {Schema: &openapi.Schema{Type: "object"}},
	}}
	result := ValidateRequestBody(req, "post", body, nil, 0, "")
	assert.True(t, result.IsValid())
}

func TestValidateRequestBody_MissingRequiredBody(t *testing.T) {
	req := &CapturedRequest{}
	body := &openapi.RequestBody{Required: true, Content: map[string]*openapi.MediaType{
		"application/json": {Schema: &openapi.Schema{Type: "object"}},
	}}
	result := ValidateRequestBody(req, "post", body, nil, 0, "")
	require.False(t, result.IsValid())
	assert.Equal(t, KindMissingRequiredParameter, result.Errors()[0].Kind)
}

func TestValidateRequestBody_NoMatchingContentType(t *testing.T) {
	req := &CapturedRequest{
		Body:      []byte(`<xml/>`),
		HeaderMap: map[string]string{"Content-Type": "application/xml"},
	}
	body := &openapi.RequestBody{Content: map[string]*openapi.MediaType{
		"application/json": {Schema: &openapi.Schema{Type: "object"}},
	}}
	result := ValidateRequestBody(req, "post", body, nil, 0, "")
	require.False(t, result.IsValid())
	assert.Equal(t, KindNoMatchingContentType, result.Errors()[0].Kind)
}

func TestValidateRequestBody_ForbiddenSchema(t *testing.T) {
	req := &CapturedRequest{
		Body:      []byte(`{}`),
		HeaderMap: map[string]string{"Content-Type": "application/json"},
	}
	body := &openapi.RequestBody{Content: map[string]*openapi.MediaType{
		"application/json": {Forbidden: true},
	}}
	result := ValidateRequestBody(req, "post", body, nil, 0, "")
	require.False(t, result.IsValid())
	assert.Equal(t, KindEntityForbidden, result.Errors()[0].Kind)
}

func TestValidateRequestBody_DispatchesToEvaluator(t *testing.T) {
	req := &CapturedRequest{
		Body:      []byte(`{"name":"fido"}`),
		HeaderMap: map[string]string{"Content-Type": "application/json"},
	}
	body := &openapi.RequestBody{Content: map[string]*openapi.MediaType{
		"application/json": {Schema: &openapi.Schema{Type: "object", Required: []string{"name"}}},
	}}
	eval := stubEvaluator{result: Valid(nil)}
	result := ValidateRequestBody(req, "post", body, eval, 0, "")
	assert.True(t, result.IsValid())
}

func TestValidateResponseBody_NoContentIsValid(t *testing.T) {
	resp := &CapturedResponse{Status: 204}
	result := ValidateResponseBody(resp, &openapi.Response{}, nil, 0, "")
	assert.True(t, result.IsValid())
}
