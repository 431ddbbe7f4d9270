// internal/workers/conversation/chat-reply/http.go
package chatreply

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/validation"
	"lasa-chatbot/internal/models"
)

// HTTPHandler serves POST /api/chat.
type HTTPHandler struct {
	processor *Processor
	schema    *validation.Schema
	maxBody   int64
	log       logger.Logger
}

func NewHTTPHandler(processor *Processor, maxBody int64, log logger.Logger) (*HTTPHandler, error) {
	schema, err := validation.Compile(requestSchema)
	if err != nil {
		return nil, fmt.Errorf("compile chat request schema: %w", err)
	}
	if maxBody <= 0 {
		maxBody = LoadConfig().MaxBodyBytes
	}
	return &HTTPHandler{
		processor: processor,
		schema:    schema,
		maxBody:   maxBody,
		log:       logger.Component(log, "chat-http"),
	}, nil
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, http.StatusMethodNotAllowed, apperrors.NewValidationError("method not allowed"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, apperrors.NewValidationError("request body too large"))
			return
		}
		h.writeError(w, http.StatusBadRequest, apperrors.NewValidationError("unreadable request body"))
		return
	}

	if err := h.validate(body); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req models.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, apperrors.NewValidationError(err.Error()))
		return
	}

	resp := h.processor.Process(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) validate(body []byte) error {
	return checkSchema(h.schema, body)
}

// checkSchema turns schema violations into one validation error.
func checkSchema(schema *validation.Schema, body []byte) error {
	result, err := schema.Validate(body)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewValidationError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, err error) {
	stdErr := apperrors.Normalize(err)
	h.log.Warn("Rejected chat request", map[string]interface{}{
		"status":    status,
		"errorCode": stdErr.Code,
		"details":   stdErr.Details,
	})
	writeJSON(w, status, stdErr)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
