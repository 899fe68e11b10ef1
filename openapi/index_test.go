package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreDoc = `
openapi: "3.1.0"
info:
  title: test
  version: "1.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: ok
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
`

func mustLoad(t *testing.T, doc string) *Document {
	t.Helper()
	d, err := Load(context.Background(), strings.NewReader(doc), "https://example.com/openapi.yaml")
	require.NoError(t, err)
	return d
}

func TestLoad_BuildsPathAndOperationIndex(t *testing.T) {
	d := mustLoad(t, petstoreDoc)

	assert.Equal(t, []string{"/pets", "/pets/{petId}"}, d.Paths.Templates())

	tmpl, method, ok := d.OperationPath("getPet")
	require.True(t, ok)
	assert.Equal(t, "/pets/{petId}", tmpl)
	assert.Equal(t, "get", method)

	caps, ok := d.MatchTemplate("/pets/{petId}", "/pets/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"petId": "42"}, caps)

	tmpl, caps, ok = d.MatchPathIndex("/pets/42")
	require.True(t, ok)
	assert.Equal(t, "/pets/{petId}", tmpl)
	assert.Equal(t, "42", caps["petId"])
}

func TestLoad_DuplicateOperationIDIsFatal(t *testing.T) {
	const doc = `
openapi: "3.1.0"
info: {title: t, version: "1.0"}
paths:
  /a:
    get:
      operationId: dup
      responses: {"200": {description: ok}}
  /b:
    get:
      operationId: dup
      responses: {"200": {description: ok}}
`
	_, err := Load(context.Background(), strings.NewReader(doc), "mem://doc")
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, KindDuplicateOperationID, loadErr.Kind)
}

func TestLoad_DuplicateCaptureNameIsFatal(t *testing.T) {
	const doc = `
openapi: "3.1.0"
info: {title: t, version: "1.0"}
paths:
  /x/{id}/y/{id}:
    get:
      responses: {"200": {description: ok}}
`
	_, err := Load(context.Background(), strings.NewReader(doc), "mem://doc")
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, KindDuplicateCaptureName, loadErr.Kind)
}

func TestDocument_ParametersMerging(t *testing.T) {
	const doc = `
openapi: "3.1.0"
info: {title: t, version: "1.0"}
paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema: {type: string}
      - name: verbose
        in: query
        schema: {type: boolean}
    get:
      operationId: getItem
      parameters:
        - name: verbose
          in: query
          required: true
          schema: {type: boolean}
      responses: {"200": {description: ok}}
`
	d := mustLoad(t, doc)
	item := d.Paths.Get("/items/{id}")
	params := d.Parameters("/items/{id}", item.Get)
	require.Len(t, params, 2)

	var verbose *Parameter
	for _, p := range params {
		if p.Name == "verbose" {
			verbose = p
		}
	}
	require.NotNil(t, verbose)
	assert.True(t, verbose.Required, "operation-level parameter should win over path-level")
}
