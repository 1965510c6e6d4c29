package roomservice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceError(t *testing.T) {
	raw := "M_LIMIT_EXCEEDED: ServiceError: [429] Too Many Requests (http://localhost:8008/login)"

	parsed := ParseServiceError(raw)
	require.NotNil(t, parsed)
	assert.Equal(t, "M_LIMIT_EXCEEDED", parsed.Code)
	assert.Equal(t, "Too Many Requests", parsed.Message)
	assert.Equal(t, 429, parsed.StatusCode)
	assert.Equal(t, "localhost:8008", parsed.Host)
	assert.Equal(t, "/login", parsed.Endpoint)
}

func TestParseServiceErrorNoMatch(t *testing.T) {
	for _, raw := range []string{
		"",
		"connection refused",
		"M_FORBIDDEN: you shall not pass",
		"m_lowercase: ServiceError: [403] nope (http://x/y)",
	} {
		assert.Nil(t, ParseServiceError(raw), raw)
	}
}

func TestTranslateErrorNil(t *testing.T) {
	assert.NoError(t, TranslateError("login", nil))
}

func TestTranslateErrorKeepsStructured(t *testing.T) {
	orig := &ServiceError{Code: "M_FORBIDDEN", Message: "denied", StatusCode: 403}

	err := TranslateError("joining room", orig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "joining room failed")

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestTranslateErrorParsesLegacyString(t *testing.T) {
	raw := errors.New("M_UNKNOWN_TOKEN: ServiceError: [401] Invalid token (https://chat.example.org/sync)")

	err := TranslateError("sync", raw)
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "M_UNKNOWN_TOKEN", svcErr.Code)
	assert.Equal(t, 401, svcErr.StatusCode)
	assert.Equal(t, "chat.example.org", svcErr.Host)
}

func TestTranslateErrorWrapsOpaque(t *testing.T) {
	orig := errors.New("connection refused")

	err := TranslateError("login", orig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, orig))
	assert.Equal(t, "login failed: connection refused", err.Error())
}
