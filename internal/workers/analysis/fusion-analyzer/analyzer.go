// internal/workers/analysis/fusion-analyzer/analyzer.go
package fusionanalyzer

import (
	"context"
	"fmt"
	"math"

	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"
	"lasa-chatbot/internal/models"

	"golang.org/x/sync/errgroup"
)

const Name = "hybrid"

// Decision labels for chatbot_fusion_decisions_total.
const (
	DecisionAgree      = "agree"
	DecisionRemoteHigh = "remote_high"
	DecisionRuleHigh   = "rule_high"
	DecisionPenalized  = "penalized"
)

// Analyzer is satisfied by the remote and rule analyzers.
type Analyzer interface {
	Analyze(ctx context.Context, text, userID string) models.AnalysisResult
}

// Fusion runs a remote and a rule analyzer concurrently and reconciles their
// answers with a fixed precedence.
type Fusion struct {
	config        *Config
	remote        Analyzer
	rule          Analyzer
	rulePreferred map[string]bool
	log           logger.Logger
}

func NewAnalyzer(config *Config, remote, rule Analyzer, log logger.Logger) *Fusion {
	preferred := make(map[string]bool, len(config.RulePreferredEntities))
	for _, key := range config.RulePreferredEntities {
		preferred[key] = true
	}
	return &Fusion{
		config:        config,
		remote:        remote,
		rule:          rule,
		rulePreferred: preferred,
		log:           logger.Component(log, "fusion-analyzer"),
	}
}

func (f *Fusion) Analyze(ctx context.Context, text, userID string) (result models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("Fusion failed", map[string]interface{}{"panic": fmt.Sprint(r)})
			result = models.ErrorAnalysis(text)
		}
		metrics.AnalyzerResults.WithLabelValues(Name, result.Intent).Inc()
	}()

	var remote, rule models.AnalysisResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		remote = f.runSide(gctx, "remote", f.remote, text, userID)
		return nil
	})
	g.Go(func() error {
		rule = f.runSide(gctx, "rule", f.rule, text, userID)
		return nil
	})
	_ = g.Wait()

	result, decision := f.Reconcile(text, remote, rule)
	metrics.FusionDecisions.WithLabelValues(decision).Inc()

	f.log.Debug("Fusion complete", map[string]interface{}{
		"decision":         decision,
		"remoteIntent":     remote.Intent,
		"remoteConfidence": remote.Confidence,
		"ruleIntent":       rule.Intent,
		"ruleConfidence":   rule.Confidence,
		"intent":           result.Intent,
		"confidence":       result.Confidence,
	})
	return result
}

// runSide turns a panicking analyzer into an error contribution.
func (f *Fusion) runSide(ctx context.Context, side string, a Analyzer, text, userID string) (result models.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("Analyzer panicked", map[string]interface{}{
				"side":  side,
				"panic": fmt.Sprint(r),
			})
			result = models.ErrorAnalysis(text)
		}
	}()
	return a.Analyze(ctx, text, userID)
}

// Reconcile applies, in order: agreement, confident remote, confident rule,
// penalized remote. It also reports which rule fired.
func (f *Fusion) Reconcile(text string, remote, rule models.AnalysisResult) (models.AnalysisResult, string) {
	var (
		intent     string
		confidence float64
		decision   string
	)

	switch {
	case remote.Intent == rule.Intent:
		intent = remote.Intent
		decision = DecisionAgree
		// two zero-confidence answers (error, unmatched fallback) stay at zero
		if remote.Confidence > 0 || rule.Confidence > 0 {
			confidence = math.Min(1.0, (remote.Confidence+rule.Confidence)/2+f.config.AgreementBonus)
		}
	case remote.Confidence >= f.config.HighConfidence && remote.Confidence > rule.Confidence:
		intent, confidence = remote.Intent, remote.Confidence
		decision = DecisionRemoteHigh
	case rule.Confidence >= f.config.HighConfidence && rule.Confidence > remote.Confidence:
		intent, confidence = rule.Intent, rule.Confidence
		decision = DecisionRuleHigh
	default:
		intent = remote.Intent
		confidence = remote.Confidence * f.config.LowConfidencePenalty
		decision = DecisionPenalized
	}

	return models.NewAnalysisResult(intent, f.mergeEntities(remote, rule), confidence, text), decision
}

func (f *Fusion) mergeEntities(remote, rule models.AnalysisResult) map[string]string {
	merged := remote.Entities()
	for key, value := range rule.Entities() {
		if existing, ok := merged[key]; !ok || (existing != value && f.rulePreferred[key]) {
			merged[key] = value
		}
	}
	return merged
}
