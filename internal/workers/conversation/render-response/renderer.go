// internal/workers/conversation/render-response/renderer.go
package renderresponse

import (
	"fmt"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/models"
	resolveintent "lasa-chatbot/internal/workers/conversation/resolve-intent"
)

const (
	MessageSystemError   = "시스템 오류가 발생했습니다."
	MessageNoTemplate    = "죄송합니다. 응답을 생성할 수 없습니다."
	MessageRenderFailure = "응답을 생성하는 중 오류가 발생했습니다."
	UnknownWeather       = "알 수 없음"
)

// Renderer fills response templates from solution data.
type Renderer struct {
	config *Config
	now    func() time.Time
	log    logger.Logger
}

func NewRenderer(config *Config, log logger.Logger) *Renderer {
	if config.Location == nil {
		config.Location = resolveintent.SeoulLocation()
	}
	return &Renderer{
		config: config,
		now:    time.Now,
		log:    logger.Component(log, "renderer"),
	}
}

// Answer never fails: a nil result, an empty template or a panic while
// rendering each produce a fixed apology with intent "error".
func (r *Renderer) Answer(result *models.SolutionResult) (resp models.ChatResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Rendering panicked", map[string]interface{}{"panic": fmt.Sprint(rec)})
			resp = r.errorResponse(MessageRenderFailure)
		}
	}()

	if result == nil {
		return r.errorResponse(MessageSystemError)
	}
	if strings.TrimSpace(result.ResponseTemplate) == "" {
		r.log.Warn("Solution has no response template", map[string]interface{}{"intent": result.OriginalIntent})
		return r.errorResponse(MessageNoTemplate)
	}

	data := result.Data()
	message := r.substituteTemplate(result.ResponseTemplate, data)

	if result.OriginalIntent == models.IntentWeather {
		if dt := stringify(data["dateTime"]); dt != "" {
			message += " (" + dt + " 기준)"
		}
	}

	confidence := 0.5
	if result.IsSuccess() {
		confidence = 1.0
	}

	return models.ChatResponse{
		Message:    message,
		Intent:     result.OriginalIntent,
		Entities:   data,
		Timestamp:  r.now().UnixMilli(),
		Confidence: confidence,
	}
}

// substituteTemplate replaces every {{key}} in tmpl. Keys may be dotted paths
// into nested maps. Unterminated placeholders are copied verbatim.
func (r *Renderer) substituteTemplate(tmpl string, data map[string]interface{}) string {
	var b strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:start])
		key := strings.TrimSpace(rest[start+2 : start+2+end])
		b.WriteString(r.resolve(key, data))
		rest = rest[start+2+end+2:]
	}
	return b.String()
}

func (r *Renderer) resolve(key string, data map[string]interface{}) string {
	if value := lookupNestedValue(data, key); value != nil {
		return stringify(value)
	}

	r.log.Debug("Template key missing, using default", map[string]interface{}{
		"key":       key,
		"errorCode": apperrors.ErrCodeTemplateRenderingFailed,
	})
	return r.defaultValue(key)
}

func (r *Renderer) defaultValue(key string) string {
	switch key {
	case "location":
		return r.config.DefaultCity
	case "weather":
		return UnknownWeather
	case "temperature":
		return "0"
	case "greeting":
		return resolveintent.GreetingResponses()[0]
	case "bye":
		return resolveintent.ByeResponses()[0]
	case "time":
		return resolveintent.FormatKoreanTime(r.now().In(r.config.Location))
	default:
		return ""
	}
}

func lookupNestedValue(data map[string]interface{}, key string) interface{} {
	parts := strings.Split(key, ".")
	current := interface{}(data)

	for _, part := range parts {
		currentMap, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}

		val, exists := currentMap[part]
		if !exists {
			return nil
		}

		current = val
	}

	return current
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func (r *Renderer) errorResponse(message string) models.ChatResponse {
	return models.ChatResponse{
		Message:    message,
		Intent:     models.IntentError,
		Entities:   map[string]interface{}{},
		Timestamp:  r.now().UnixMilli(),
		Confidence: 0,
	}
}
