// internal/workers/conversation/resolve-intent/resolver.go
package resolveintent

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/genai"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"
	"lasa-chatbot/internal/common/weather"
	"lasa-chatbot/internal/models"
)

// Generation outcomes recorded in chatbot_fallback_generation_total.
const (
	OutcomeGenerated = "generated"
	OutcomeTimeout   = "timeout"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
)

// Solver executes intent-specific logic and picks the response template.
type Solver struct {
	config    *Config
	weather   weather.Provider
	generator genai.Generator
	pick      func(n int) int
	now       func() time.Time
	log       logger.Logger
}

type Option func(*Solver)

// WithPicker replaces the random choice of canned phrases.
func WithPicker(pick func(n int) int) Option {
	return func(s *Solver) { s.pick = pick }
}

func WithClock(now func() time.Time) Option {
	return func(s *Solver) { s.now = now }
}

// NewSolver wires the collaborators. A nil generator keeps the canned
// fallback texts.
func NewSolver(config *Config, provider weather.Provider, generator genai.Generator, log logger.Logger, opts ...Option) *Solver {
	s := &Solver{
		config:    config,
		weather:   provider,
		generator: generator,
		pick:      rand.Intn,
		now:       time.Now,
		log:       logger.Component(log, "resolver"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.Location == nil {
		s.config.Location = SeoulLocation()
	}
	return s
}

// Solve never fails; a panic while dispatching yields the generic error result.
func (s *Solver) Solve(ctx context.Context, analysis models.AnalysisResult) (result *models.SolutionResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Intent resolution panicked", map[string]interface{}{
				"panic":  fmt.Sprint(r),
				"intent": analysis.Intent,
			})
			result = errorResult(nil)
		}
	}()

	s.log.Debug("Resolving intent", map[string]interface{}{
		"intent":     analysis.Intent,
		"confidence": analysis.Confidence,
	})

	switch analysis.Intent {
	case models.IntentGreeting:
		return success(analysis.Intent, map[string]interface{}{
			"greeting": greetingResponses[s.pick(len(greetingResponses))],
		})

	case models.IntentBye:
		return success(analysis.Intent, map[string]interface{}{
			"bye": byeResponses[s.pick(len(byeResponses))],
		})

	case models.IntentWeather:
		location := s.resolveLocation(analysis)
		condition := s.weather.Condition(ctx, location)
		detail, ok := weatherDescriptions[condition]
		if !ok {
			detail = "오늘은 " + condition + " 상태입니다."
		}
		return success(analysis.Intent, map[string]interface{}{
			"location":      location,
			"weather":       condition,
			"weatherDetail": detail,
			"dateTime":      s.now().In(s.config.Location).Format(dateTimeLayout),
		})

	case models.IntentTemperature:
		location := s.resolveLocation(analysis)
		temp := s.weather.TemperatureC(ctx, location)
		return success(analysis.Intent, map[string]interface{}{
			"location":        location,
			"temperature":     temp,
			"tempDescription": describeTemperature(temp),
		})

	case models.IntentTime:
		return success(analysis.Intent, map[string]interface{}{
			"time": FormatKoreanTime(s.now().In(s.config.Location)),
		})

	case models.IntentThanks, models.IntentHelp:
		return success(analysis.Intent, nil)

	case models.IntentError:
		data := map[string]interface{}{"fallbackResponse": systemErrorResponse}
		s.enrich(ctx, data, analysis.OriginalMessage, models.IntentError)
		return errorResult(data)

	default:
		data := map[string]interface{}{"fallbackResponse": notUnderstoodMessage}
		s.enrich(ctx, data, analysis.OriginalMessage, models.IntentFallback)
		return models.NewSolutionResult(models.StatusSuccess, data, Template(models.IntentFallback), models.IntentFallback)
	}
}

// resolveLocation prefers the analyzer's entity, then a scan of the message,
// then the default city.
func (s *Solver) resolveLocation(analysis models.AnalysisResult) string {
	if loc, ok := analysis.Entity("location"); ok && strings.TrimSpace(loc) != "" {
		return loc
	}
	if loc, ok := weather.FindRegion(analysis.OriginalMessage); ok {
		s.log.Info("Location taken from message text", map[string]interface{}{"location": loc})
		return loc
	}
	s.log.Info("No location found, using default city", map[string]interface{}{"location": s.config.DefaultCity})
	return s.config.DefaultCity
}

type generation struct {
	text string
	err  error
}

// enrich replaces data["fallbackResponse"] with generated text when the
// generator answers within the wait. The call runs on a context detached from
// ctx so an expired wait does not cancel it.
func (s *Solver) enrich(ctx context.Context, data map[string]interface{}, message, intent string) {
	if s.generator == nil {
		return
	}

	done := make(chan generation, 1)
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.GenerationTimeout)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				done <- generation{err: apperrors.NewGenerationError(fmt.Errorf("generator panicked: %v", r))}
			}
		}()
		text, err := s.generator.Generate(genCtx, message)
		done <- generation{text: text, err: err}
	}()

	timer := time.NewTimer(s.config.GenerationWait)
	defer timer.Stop()

	fields := map[string]interface{}{"intent": intent}
	select {
	case g := <-done:
		switch {
		case g.err != nil:
			metrics.FallbackGenerations.WithLabelValues(OutcomeError).Inc()
			metrics.CollaboratorErrors.WithLabelValues("genai", string(apperrors.CodeOf(g.err))).Inc()
			s.log.WithError(g.err).Warn("Generation failed, keeping canned response", fields)
		case strings.TrimSpace(g.text) == "":
			metrics.FallbackGenerations.WithLabelValues(OutcomeEmpty).Inc()
			s.log.Warn("Generation returned no text, keeping canned response", fields)
		default:
			metrics.FallbackGenerations.WithLabelValues(OutcomeGenerated).Inc()
			data["fallbackResponse"] = g.text
			s.log.Info("Generated fallback response", fields)
		}
	case <-timer.C:
		metrics.FallbackGenerations.WithLabelValues(OutcomeTimeout).Inc()
		s.log.Warn("Generation wait expired, keeping canned response", map[string]interface{}{
			"intent": intent,
			"wait":   s.config.GenerationWait.String(),
		})
	case <-ctx.Done():
		metrics.FallbackGenerations.WithLabelValues(OutcomeTimeout).Inc()
		s.log.Warn("Request cancelled while waiting for generation", fields)
	}
}

func success(intent string, data map[string]interface{}) *models.SolutionResult {
	return models.NewSolutionResult(models.StatusSuccess, data, Template(intent), intent)
}

// errorResult is the generic error solution. nil data gets the system-error text.
func errorResult(data map[string]interface{}) *models.SolutionResult {
	if data == nil {
		data = map[string]interface{}{"fallbackResponse": systemErrorResponse}
	}
	return models.NewSolutionResult(models.StatusError, data, Template(models.IntentError), models.IntentError)
}

func describeTemperature(temp int) string {
	switch {
	case temp <= 0:
		return "매우 춥습니다. 따뜻하게 입으세요!"
	case temp <= 10:
		return "쌀쌀합니다. 겉옷을 챙기세요."
	case temp <= 20:
		return "선선한 날씨입니다."
	case temp <= 28:
		return "따뜻한 날씨입니다."
	default:
		return "더운 날씨입니다. 시원하게 지내세요!"
	}
}

// FormatKoreanTime renders t as "오전|오후 h시 mm분" with a 12-hour clock.
func FormatKoreanTime(t time.Time) string {
	period := "오전"
	if t.Hour() >= 12 {
		period = "오후"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %d시 %02d분", period, hour, t.Minute())
}
