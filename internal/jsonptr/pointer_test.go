package jsonptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeToken(t *testing.T) {
	assert.Equal(t, "a~1b", EscapeToken("a/b"))
	assert.Equal(t, "a~0b", EscapeToken("a~b"))
	assert.Equal(t, "a~0~1b", EscapeToken("a~/b"))
	assert.Equal(t, "plain", EscapeToken("plain"))
}
