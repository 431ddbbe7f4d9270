// internal/workers/analysis/rule-analyzer/analyzer.go
package ruleanalyzer

import (
	"context"
	"fmt"
	"strings"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/komoran"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"
	"lasa-chatbot/internal/models"
)

const Name = "rule"

// jejuAlias is accepted as a location whenever 제주 is a known city.
const jejuAlias = "제주도"

type intentRow struct {
	intent   string
	keywords map[string]bool
}

// Analyzer classifies messages by counting intent keywords among the nouns,
// verbs and adjectives of the tokenized message.
type Analyzer struct {
	tokenizer   komoran.Tokenizer
	table       []intentRow
	gazetteer   map[string]bool
	defaultCity string
	log         logger.Logger
}

// NewAnalyzer builds the keyword table and the location gazetteer. cities is
// normally the weather provider's supported city list.
func NewAnalyzer(cfg *Config, tokenizer komoran.Tokenizer, cities []string, log logger.Logger) *Analyzer {
	table := make([]intentRow, 0, len(cfg.Keywords))
	for _, row := range cfg.Keywords {
		kw := make(map[string]bool, len(row.Keywords))
		for _, k := range row.Keywords {
			kw[strings.ToLower(k)] = true
		}
		table = append(table, intentRow{intent: row.Intent, keywords: kw})
	}

	gazetteer := make(map[string]bool, len(cities)+1)
	for _, c := range cities {
		gazetteer[c] = true
	}
	if gazetteer["제주"] {
		gazetteer[jejuAlias] = true
	}

	return &Analyzer{
		tokenizer:   tokenizer,
		table:       table,
		gazetteer:   gazetteer,
		defaultCity: cfg.DefaultCity,
		log:         logger.Component(log, "rule-analyzer"),
	}
}

// Analyze never fails: tokenizer errors and panics yield an error result.
func (a *Analyzer) Analyze(ctx context.Context, text, userID string) (result models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Rule analysis panicked", map[string]interface{}{
				"panic":   fmt.Sprint(r),
				"message": text,
			})
			result = models.ErrorAnalysis(text)
		}
		metrics.AnalyzerResults.WithLabelValues(Name, result.Intent).Inc()
	}()

	tokens, err := a.tokenizer.Tokenize(ctx, text)
	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.CollaboratorErrors.WithLabelValues("tokenizer", string(code)).Inc()
		a.log.Error("Tokenizer failed", map[string]interface{}{
			"errorCode": code,
			"error":     err.Error(),
		})
		return models.ErrorAnalysis(text)
	}

	intent, ok := a.determineIntent(tokens)
	if !ok {
		return models.FallbackAnalysis(text)
	}

	entities := map[string]string{}
	if intent == models.IntentWeather {
		entities["location"] = a.extractLocation(tokens)
	}

	result = models.NewAnalysisResult(intent, entities, a.confidence(tokens, intent), text)
	a.log.Debug("Rule analysis complete", map[string]interface{}{
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"entities":   entities,
	})
	return result
}

// determineIntent scores each row by content-word hits. Ties go to the
// earlier row.
func (a *Analyzer) determineIntent(tokens []komoran.Morpheme) (string, bool) {
	scores := make([]int, len(a.table))
	for _, tok := range tokens {
		if !tok.HasTagPrefix("NN", "VV", "VA") {
			continue
		}
		morph := strings.ToLower(tok.Surface)
		for i, row := range a.table {
			if row.keywords[morph] {
				scores[i]++
			}
		}
	}

	best := -1
	for i, s := range scores {
		if s > 0 && (best < 0 || s > scores[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return a.table[best].intent, true
}

// confidence counts every morpheme in the winning row, whatever its tag.
func (a *Analyzer) confidence(tokens []komoran.Morpheme, intent string) float64 {
	var keywords map[string]bool
	for _, row := range a.table {
		if row.intent == intent {
			keywords = row.keywords
			break
		}
	}

	matched := 0
	for _, tok := range tokens {
		if keywords[strings.ToLower(tok.Surface)] {
			matched++
		}
	}

	c := 0.5 + 0.15*float64(matched)
	if c > 1.0 {
		return 1.0
	}
	return c
}

func (a *Analyzer) extractLocation(tokens []komoran.Morpheme) string {
	var locations []string
	seen := map[string]bool{}
	for _, tok := range tokens {
		if tok.Tag != komoran.TagProperNoun || !a.gazetteer[tok.Surface] || seen[tok.Surface] {
			continue
		}
		seen[tok.Surface] = true
		locations = append(locations, tok.Surface)
	}
	if len(locations) == 0 {
		return a.defaultCity
	}
	return strings.Join(locations, ",")
}
