package httpconform

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/oasconform/httpconform/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreDoc = `
openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
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
        "404":
          description: not found
`

func mustLoadDoc(t *testing.T) *openapi.Document {
	t.Helper()
	doc, err := openapi.Load(context.Background(), strings.NewReader(petstoreDoc), "petstore.yaml")
	require.NoError(t, err)
	return doc
}

func reqFor(method, rawPath string) Request {
	u, _ := url.Parse(rawPath)
	return &CapturedRequest{MethodValue: method, URLValue: u}
}

func TestFindPath_DocumentOrderFallback(t *testing.T) {
	doc := mustLoadDoc(t)
	match, errs := FindPath(doc, reqFor("GET", "/pets/42"), PathMatchHint{})
	require.Empty(t, errs)
	assert.Equal(t, "/pets/{petId}", match.PathTemplate)
	assert.Equal(t, "42", match.PathCaptures["petId"])
	assert.Equal(t, "getPet", match.OperationID)
}

func TestFindPath_HintedOperationID(t *testing.T) {
	doc := mustLoadDoc(t)
	match, errs := FindPath(doc, reqFor("GET", "/pets/7"), PathMatchHint{OperationID: "getPet"})
	require.Empty(t, errs)
	assert.Equal(t, "7", match.PathCaptures["petId"])
}

func TestFindPath_InconsistentHints(t *testing.T) {
	doc := mustLoadDoc(t)
	_, errs := FindPath(doc, reqFor("GET", "/pets/7"), PathMatchHint{PathTemplate: "/pets", OperationID: "getPet"})
	require.Len(t, errs, 1)
	assert.Equal(t, KindOptionsInconsistent, errs[0].Kind)
}

func TestFindPath_NoMatch(t *testing.T) {
	doc := mustLoadDoc(t)
	_, errs := FindPath(doc, reqFor("GET", "/widgets"), PathMatchHint{})
	require.Len(t, errs, 1)
	assert.Equal(t, KindNoPathMatch, errs[0].Kind)
}

func TestFindPath_NoMatchingOperation(t *testing.T) {
	doc := mustLoadDoc(t)
	_, errs := FindPath(doc, reqFor("DELETE", "/pets/42"), PathMatchHint{})
	require.Len(t, errs, 1)
	assert.Equal(t, KindNoMatchingOperation, errs[0].Kind)
}
