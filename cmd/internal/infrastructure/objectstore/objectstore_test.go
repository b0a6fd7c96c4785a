package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("manual.pdf", nil))
	assert.Equal(t, "image/png", ContentType("sem-extensao", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.Contains(t, ContentType("blob", []byte("hello world")), "text/plain")
}
