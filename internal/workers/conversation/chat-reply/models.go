// internal/workers/conversation/chat-reply/models.go
package chatreply

import (
	"lasa-chatbot/internal/common/validation"
	"lasa-chatbot/internal/models"
)

// Input is the Zeebe job payload.
type Input struct {
	Message   string `json:"message"`
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

func (i Input) Request() models.ChatRequest {
	return models.ChatRequest{
		Message:   i.Message,
		UserID:    i.UserID,
		SessionID: i.SessionID,
	}
}

// Output is written back to the process instance.
type Output struct {
	Response models.ChatResponse `json:"response"`
}

const (
	MessageBlank    = "메시지를 입력해주세요."
	MessageInternal = "처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// requestSchema validates POST /api/chat bodies.
const requestSchema = `{
  "type": "object",
  "required": ["message"],
  "properties": {
    "message":   {"type": "string"},
    "userId":    {"type": "string"},
    "sessionId": {"type": "string"}
  }
}`

// jobSchema checks job variables. A missing message is answered, not failed.
var jobSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "message":   {"type": "string"},
    "userId":    {"type": "string"},
    "sessionId": {"type": "string"}
  }
}`)
