package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	withCode := New(ErrorTypeServerError, "bad gateway", 502)
	assert.Equal(t, "server_error error (code 502): bad gateway", withCode.Error())

	withoutCode := New(ErrorTypeNetwork, "connection refused", 0)
	assert.Equal(t, "network error: connection refused", withoutCode.Error())
}

func TestTypeForStatusCode(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, TypeForStatusCode(404))
	assert.Equal(t, ErrorTypeServerError, TypeForStatusCode(500))
	assert.Equal(t, ErrorTypeServerError, TypeForStatusCode(503))
	assert.Equal(t, ErrorTypeUnknown, TypeForStatusCode(403))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrorTypeNetwork))
	assert.True(t, IsTransient(ErrorTypeServerError))
	assert.True(t, IsTransient(ErrorTypeFilesystem))
	assert.False(t, IsTransient(ErrorTypeNotFound))
	assert.False(t, IsTransient(ErrorTypeParsing))
	assert.False(t, IsTransient(ErrorTypeUnknown))
}
