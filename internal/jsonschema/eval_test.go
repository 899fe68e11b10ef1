package jsonschema

import (
	"context"
	"strings"
	"testing"

	"github.com/oasconform/httpconform/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petDoc = `
openapi: 3.1.0
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
          minLength: 1
        tag:
          $ref: "#/components/schemas/Tag"
    Tag:
      type: string
      pattern: "^[a-z]+$"
    Litter:
      type: object
      additionalProperties:
        type: integer
      properties:
        breed:
          type: string
    Basket:
      type: array
      items:
        type: string
`

func mustLoadPetDoc(t *testing.T) *openapi.Document {
	t.Helper()
	doc, err := openapi.Load(context.Background(), strings.NewReader(petDoc), "pets.yaml")
	require.NoError(t, err)
	return doc
}

func petSchema(t *testing.T, doc *openapi.Document) *openapi.Schema {
	t.Helper()
	schema, ok := doc.Components.Schemas["Pet"]
	require.True(t, ok)
	return schema
}

func namedSchema(t *testing.T, doc *openapi.Document, name string) *openapi.Schema {
	t.Helper()
	schema, ok := doc.Components.Schemas[name]
	require.True(t, ok)
	return schema
}

func TestEvaluate_ValidObject(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	result := eval.Evaluate(petSchema(t, doc), map[string]any{"name": "Rex", "tag": "dog"}, Options{})
	assert.True(t, result.IsValid())
}

func TestEvaluate_MissingRequiredProperty(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	result := eval.Evaluate(petSchema(t, doc), map[string]any{}, Options{})
	require.False(t, result.IsValid())
	assert.Equal(t, "/name", result.Errors[0].InstanceLocation)
}

func TestEvaluate_RefPatternViolation(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	result := eval.Evaluate(petSchema(t, doc), map[string]any{"name": "Rex", "tag": "DOG"}, Options{})
	require.False(t, result.IsValid())
	assert.Equal(t, "/tag", result.Errors[0].InstanceLocation)
}

func TestEvaluate_TypeMismatch(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	result := eval.Evaluate(petSchema(t, doc), map[string]any{"name": 123.0}, Options{})
	require.False(t, result.IsValid())
	assert.Equal(t, KindSchemaViolation, result.Errors[0].Kind)
}

func TestEvaluate_ReadOnlyRejectedInRequestMode(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	schema := &openapi.Schema{Type: "string", ReadOnly: true}
	result := eval.Evaluate(schema, "value", Options{RejectReadOnly: true})
	require.False(t, result.IsValid())
	assert.Equal(t, KindReadOnlyViolation, result.Errors[0].Kind)
}

func TestEvaluate_EnumRejection(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	schema := &openapi.Schema{Type: "string", Enum: []any{"a", "b"}}
	result := eval.Evaluate(schema, "c", Options{})
	require.False(t, result.IsValid())
}

func TestEvaluate_ArrayUniqueItemsViolation(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	schema := &openapi.Schema{Type: "array", UniqueItems: true}
	result := eval.Evaluate(schema, []any{"a", "a"}, Options{})
	require.False(t, result.IsValid())
}

// Basket.Items and Litter.AdditionalProperties are loaded straight
// through YAML rather than built as Go struct literals, so these
// exercise Schema.UnmarshalYAML's "*Schema or bool" union resolution
// directly: without it, items/additionalProperties would decode as
// map[string]interface{} and every type-mismatched element below
// would silently pass.
func TestEvaluate_ObjectValuedItemsSchemaRejectsTypeMismatch(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	schema := namedSchema(t, doc, "Basket")
	result := eval.Evaluate(schema, []any{"toy", 7.0}, Options{})
	require.False(t, result.IsValid())
	assert.Equal(t, "/1", result.Errors[0].InstanceLocation)
}

func TestEvaluate_ObjectValuedAdditionalPropertiesSchemaRejectsTypeMismatch(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	schema := namedSchema(t, doc, "Litter")
	result := eval.Evaluate(schema, map[string]any{"breed": "tabby", "size": "large"}, Options{})
	require.False(t, result.IsValid())
	assert.Equal(t, "/size", result.Errors[0].InstanceLocation)
}

func TestEvaluate_NestedPropertyFailureRollsUpToParent(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	schema := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"hello": {Type: "string", Pattern: "^[0-9]+$"},
		},
	}
	result := eval.Evaluate(schema, map[string]any{"hello": 123.0}, Options{})
	require.False(t, result.IsValid())
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "/hello", result.Errors[0].InstanceLocation)
	assert.Equal(t, "", result.Errors[1].InstanceLocation)
	assert.Equal(t, "not all properties are valid", result.Errors[1].Message)
}

func TestEvaluate_NumericMultipleOf(t *testing.T) {
	doc := mustLoadPetDoc(t)
	eval := New(doc)
	multipleOf := 5.0
	schema := &openapi.Schema{Type: "number", MultipleOf: &multipleOf}
	result := eval.Evaluate(schema, 7.0, Options{})
	require.False(t, result.IsValid())
}
