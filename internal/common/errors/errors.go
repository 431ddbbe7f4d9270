// Package errors provides standardized error handling for the chatbot
// pipeline and its BPMN job worker.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeNLUUnavailable       ErrorCode = "NLU_UNAVAILABLE"
	ErrCodeNLUTimeout           ErrorCode = "NLU_TIMEOUT"
	ErrCodeNLUMalformedResponse ErrorCode = "NLU_MALFORMED_RESPONSE"

	ErrCodeTokenizerFailed ErrorCode = "TOKENIZER_FAILED"

	ErrCodeWeatherUnavailable ErrorCode = "WEATHER_UNAVAILABLE"
	ErrCodeGeocodingFailed    ErrorCode = "GEOCODING_FAILED"

	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"

	ErrCodeTemplateRenderingFailed ErrorCode = "TEMPLATE_RENDERING_FAILED"

	ErrCodeTranscriptSaveFailed ErrorCode = "TRANSCRIPT_SAVE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the transport error that caused this one, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewValidationError reports a request that cannot enter the pipeline.
func NewValidationError(details string) *StandardError {
	e := newError(ErrCodeValidationFailed, "Request validation failed", nil, false)
	e.Details = details
	return e
}

// NewNLUUnavailableError wraps a transport or HTTP status failure talking to the NLU server.
func NewNLUUnavailableError(err error) *StandardError {
	return newError(ErrCodeNLUUnavailable, "NLU server unavailable", err, true)
}

// NewNLUTimeoutError reports that the NLU server did not answer in time.
func NewNLUTimeoutError(err error) *StandardError {
	return newError(ErrCodeNLUTimeout, "NLU server timed out", err, true)
}

// NewNLUMalformedResponseError reports an NLU payload that could not be decoded.
func NewNLUMalformedResponseError(err error) *StandardError {
	return newError(ErrCodeNLUMalformedResponse, "NLU server returned a malformed payload", err, false)
}

func NewTokenizerError(err error) *StandardError {
	return newError(ErrCodeTokenizerFailed, "Morpheme tokenizer failed", err, true)
}

func NewWeatherUnavailableError(err error) *StandardError {
	return newError(ErrCodeWeatherUnavailable, "Weather lookup failed", err, true)
}

func NewGeocodingError(location string, err error) *StandardError {
	e := newError(ErrCodeGeocodingFailed, "Geocoding lookup failed", err, true)
	e.Metadata = map[string]interface{}{"location": location}
	return e
}

// NewGenerationTimeoutError reports that the generative text did not arrive within the wait bound.
func NewGenerationTimeoutError(wait time.Duration) *StandardError {
	e := newError(ErrCodeGenerationTimeout, "Generative text timed out", nil, false)
	e.Details = fmt.Sprintf("no reply within %s", wait)
	return e
}

func NewGenerationError(err error) *StandardError {
	return newError(ErrCodeGenerationFailed, "Generative text failed", err, false)
}

func NewTemplateRenderingError(details string) *StandardError {
	e := newError(ErrCodeTemplateRenderingFailed, "Template rendering failed", nil, false)
	e.Details = details
	return e
}

func NewTranscriptSaveError(err error) *StandardError {
	return newError(ErrCodeTranscriptSaveFailed, "Transcript could not be saved", err, false)
}

// NewInternalError wraps anything unexpected, including recovered panics.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:        "CHAT_VALIDATION_FAILED",
	ErrCodeNLUUnavailable:          "NLU_UNAVAILABLE",
	ErrCodeNLUTimeout:              "NLU_TIMEOUT",
	ErrCodeNLUMalformedResponse:    "NLU_MALFORMED_RESPONSE",
	ErrCodeTokenizerFailed:         "TOKENIZER_FAILED",
	ErrCodeWeatherUnavailable:      "WEATHER_UNAVAILABLE",
	ErrCodeGeocodingFailed:         "GEOCODING_FAILED",
	ErrCodeGenerationTimeout:       "GENERATION_TIMEOUT",
	ErrCodeGenerationFailed:        "GENERATION_FAILED",
	ErrCodeTemplateRenderingFailed: "TEMPLATE_RENDERING_FAILED",
	ErrCodeTranscriptSaveFailed:    "TRANSCRIPT_SAVE_FAILED",
	ErrCodeInternal:                "CHAT_INTERNAL_ERROR",
}

// GetRetryCount returns the number of job retries Zeebe should grant.
// The chat pipeline itself never retries; only the job worker consults this.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeNLUUnavailable, ErrCodeTokenizerFailed, ErrCodeWeatherUnavailable, ErrCodeGeocodingFailed:
		return 2
	case ErrCodeNLUTimeout:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// CodeOf extracts the ErrorCode from any error chain, INTERNAL_ERROR otherwise.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "NLU"),
		strings.HasPrefix(codeStr, "TOKENIZER"),
		strings.HasPrefix(codeStr, "WEATHER"),
		strings.HasPrefix(codeStr, "GEOCODING"),
		strings.HasPrefix(codeStr, "GENERATION"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TEMPLATE"):
		return "RENDERING"
	case strings.Contains(codeStr, "TRANSCRIPT"):
		return "STORAGE"
	default:
		return "INTERNAL"
	}
}
