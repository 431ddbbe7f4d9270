// internal/workers/analysis/remote-analyzer/analyzer.go
package remoteanalyzer

import (
	"context"
	"fmt"
	"strings"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"
	"lasa-chatbot/internal/common/rasa"
	"lasa-chatbot/internal/models"
)

const Name = "remote"

// Analyzer classifies messages with a remote NLU model.
type Analyzer struct {
	config *Config
	parser rasa.Parser
	log    logger.Logger
}

func NewAnalyzer(config *Config, parser rasa.Parser, log logger.Logger) *Analyzer {
	return &Analyzer{
		config: config,
		parser: parser,
		log:    logger.Component(log, "remote-analyzer"),
	}
}

// Analyze never fails: transport errors, malformed replies and panics yield
// an error result and are only logged.
func (a *Analyzer) Analyze(ctx context.Context, text, userID string) (result models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Remote analysis panicked", map[string]interface{}{
				"panic":   fmt.Sprint(r),
				"message": text,
			})
			result = models.ErrorAnalysis(text)
		}
		metrics.AnalyzerResults.WithLabelValues(Name, result.Intent).Inc()
	}()

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	parsed, err := a.parser.Parse(ctx, text, userID)
	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.CollaboratorErrors.WithLabelValues("nlu", string(code)).Inc()
		a.log.Error("Remote NLU call failed", map[string]interface{}{
			"errorCode": code,
			"error":     err.Error(),
		})
		return models.ErrorAnalysis(text)
	}
	if parsed == nil {
		return models.ErrorAnalysis(text)
	}

	entities := make(map[string]string, len(parsed.Entities))
	for _, e := range parsed.Entities {
		value := strings.TrimSpace(e.Value)
		if value == "" {
			continue
		}
		entities[e.Entity] = value
	}

	if needsLocation(parsed.Intent) {
		if _, ok := entities["location"]; !ok {
			if loc, found := a.scanRegions(text); found {
				entities["location"] = loc
				a.log.Debug("Location taken from message text", map[string]interface{}{"location": loc})
			}
		}
	}

	return models.NewAnalysisResult(parsed.Intent, entities, parsed.Confidence, text)
}

func (a *Analyzer) scanRegions(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, region := range a.config.Regions {
		if strings.Contains(lower, region) {
			return region, true
		}
	}
	return "", false
}

func needsLocation(intent string) bool {
	return intent == models.IntentWeather || intent == models.IntentTemperature
}
