package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorFormatting(t *testing.T) {
	err := NewPipelineError(CodeNoFields, "no fields enabled")
	assert.Equal(t, "no_fields: no fields enabled", err.Error())

	remote := &PipelineError{Code: CodeRemote, Message: "rate limited", Status: 429}
	assert.Equal(t, "remote (HTTP 429): rate limited", remote.Error())
}

func TestCodeSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapPipelineError(CodeTransport, "request failed", cause)
	wrapped := fmt.Errorf("batch item: %w", err)

	assert.True(t, HasCode(wrapped, CodeTransport))
	assert.False(t, HasCode(wrapped, CodeRemote))
	assert.Equal(t, CodeTransport, CodeOf(wrapped))
	assert.True(t, errors.Is(wrapped, err))
	assert.ErrorIs(t, err, cause)
}

func TestIsConfigurationError(t *testing.T) {
	assert.True(t, IsConfigurationError(NewPipelineError(CodeMissingCredential, "")))
	assert.True(t, IsConfigurationError(NewPipelineError(CodeMissingKeyword, "")))
	assert.True(t, IsConfigurationError(NewPipelineError(CodeNoFields, "")))
	assert.False(t, IsConfigurationError(NewPipelineError(CodeRemote, "")))
	assert.False(t, IsConfigurationError(errors.New("plain")))
}
