package models

// Intent names produced by the analyzers.
const (
	IntentWeather     = "weather"
	IntentTemperature = "temperature"
	IntentTime        = "time"
	IntentGreeting    = "greeting"
	IntentBye         = "bye"
	IntentThanks      = "thanks"
	IntentHelp        = "help"
	IntentFallback    = "fallback"
	IntentError       = "error"
)

// Solution statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ChatRequest is the inbound chat message
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the rendered reply returned to the caller
type ChatResponse struct {
	Message    string                 `json:"message"`
	Intent     string                 `json:"intent"`
	Entities   map[string]interface{} `json:"entities"`
	Timestamp  int64                  `json:"timestamp"`
	Confidence float64                `json:"confidence"`
}

// NormalizedMessage is user text after cleanup. The zero value is an empty message.
type NormalizedMessage struct {
	text string
}

func NewNormalizedMessage(text string) NormalizedMessage {
	return NormalizedMessage{text: text}
}

func (m NormalizedMessage) Text() string {
	return m.text
}

func (m NormalizedMessage) IsEmpty() bool {
	return m.text == ""
}
