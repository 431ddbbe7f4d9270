// internal/common/errors/errors_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_WrapsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewNLUTimeoutError(cause)

	assert.Equal(t, ErrCodeNLUTimeout, err.Code)
	assert.True(t, err.Retryable)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "NLU_TIMEOUT")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("remote analyzer: %w", NewNLUMalformedResponseError(stderrors.New("unexpected EOF")))

	assert.Equal(t, ErrCodeNLUMalformedResponse, CodeOf(wrapped))
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("plain")))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeNLUUnavailable, "TRANSPORT"},
		{ErrCodeNLUTimeout, "TRANSPORT"},
		{ErrCodeTokenizerFailed, "TRANSPORT"},
		{ErrCodeWeatherUnavailable, "TRANSPORT"},
		{ErrCodeGeocodingFailed, "TRANSPORT"},
		{ErrCodeGenerationTimeout, "TRANSPORT"},
		{ErrCodeValidationFailed, "VALIDATION"},
		{ErrCodeTemplateRenderingFailed, "RENDERING"},
		{ErrCodeTranscriptSaveFailed, "STORAGE"},
		{ErrCodeInternal, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable transport error keeps retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewNLUUnavailableError(stderrors.New("connection refused")))

		assert.Equal(t, "NLU_UNAVAILABLE", bpmn.Code)
		assert.Equal(t, 2, bpmn.Retries)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, "NLU_UNAVAILABLE", bpmn.ErrorVariables["originalErrorCode"])
	})

	t.Run("validation error is thrown without retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewValidationError("message is required"))

		assert.Equal(t, "CHAT_VALIDATION_FAILED", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "message is required", vars["errorDetails"])
		assert.Equal(t, false, vars["retryable"])
	})
}

func TestNormalize(t *testing.T) {
	std := NewGenerationTimeoutError(5 * time.Second)
	assert.Same(t, std, Normalize(fmt.Errorf("resolver: %w", std)))

	other := Normalize(stderrors.New("nil map write"))
	require.NotNil(t, other)
	assert.Equal(t, ErrCodeInternal, other.Code)
	assert.Equal(t, "nil map write", other.Details)
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeTokenizerFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeGenerationFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationFailed))
}
