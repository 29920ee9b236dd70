package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure the generation pipeline can produce.
// Configuration codes are raised before any network call is made; API codes
// come from the generation client; the remaining codes are raised while
// applying results back to the item.
type ErrorCode string

const (
	// Configuration resolution (cheap-fail-fast, no network I/O).
	CodeMissingCredential ErrorCode = "missing_credential"
	CodeMissingKeyword    ErrorCode = "missing_keyword"
	CodeNoFields          ErrorCode = "no_fields"

	// Generation API client.
	CodeAuth          ErrorCode = "auth"
	CodeTransport     ErrorCode = "transport"
	CodeRemote        ErrorCode = "remote"
	CodeResponseShape ErrorCode = "response_shape"
	CodeDecode        ErrorCode = "decode"

	// Result application.
	CodeInvalidModelOutput ErrorCode = "invalid_model_output"
	CodeImageConversion    ErrorCode = "image_conversion"
	CodeAssetStore         ErrorCode = "asset_store"
	CodeWrite              ErrorCode = "write"
)

// PipelineError is the structured error carried through the pipeline.
// Status is set for remote (non-200) failures only.
type PipelineError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"status,omitempty"`
	Err     error     `json:"-"`
}

func (e *PipelineError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError creates a structured pipeline error.
func NewPipelineError(code ErrorCode, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// WrapPipelineError creates a structured pipeline error around a cause.
func WrapPipelineError(code ErrorCode, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err is (or wraps) a PipelineError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// CodeOf extracts the error code from err, or "" if err carries none.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsConfigurationError reports whether err belongs to the configuration
// family: these abort a run before any paid API call.
func IsConfigurationError(err error) bool {
	switch CodeOf(err) {
	case CodeMissingCredential, CodeMissingKeyword, CodeNoFields:
		return true
	}
	return false
}
