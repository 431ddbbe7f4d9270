// internal/workers/analysis/analyzer.go
package analysis

import (
	"context"
	"fmt"

	"lasa-chatbot/internal/common/config"
	"lasa-chatbot/internal/common/komoran"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/rasa"
	"lasa-chatbot/internal/common/weather"
	"lasa-chatbot/internal/models"
	fusionanalyzer "lasa-chatbot/internal/workers/analysis/fusion-analyzer"
	remoteanalyzer "lasa-chatbot/internal/workers/analysis/remote-analyzer"
	ruleanalyzer "lasa-chatbot/internal/workers/analysis/rule-analyzer"
)

// Analyzer turns a normalized message into an AnalysisResult. Implementations
// never fail; collaborator problems surface as an error-intent result.
type Analyzer interface {
	Analyze(ctx context.Context, text, userID string) models.AnalysisResult
}

// Dependencies lets callers (and tests) supply collaborators. Nil fields are
// built from configuration.
type Dependencies struct {
	Parser    rasa.Parser
	Tokenizer komoran.Tokenizer
	// Cities is the rule analyzer's gazetteer, normally the weather
	// provider's city list.
	Cities []string
}

// Build selects the analysis strategy named by cfg.Analyzer.Type and returns it
// together with its name (hybrid, remote or rule).
func Build(cfg *config.Config, deps Dependencies, log logger.Logger) (Analyzer, string, error) {
	var (
		remote *remoteanalyzer.Analyzer
		rule   *ruleanalyzer.Analyzer
	)

	if cfg.UsesRemoteAnalyzer() {
		parser := deps.Parser
		if parser == nil {
			if cfg.Rasa.URL == "" {
				return nil, "", fmt.Errorf("rasa.url is required for analyzer type %q", cfg.Analyzer.Type)
			}
			parser = rasa.NewClient(cfg.Rasa.URL, config.GetDuration(cfg.Rasa.Timeout))
		}

		remoteConfig := remoteanalyzer.LoadConfig()
		if cfg.Rasa.Timeout > 0 {
			remoteConfig.Timeout = config.GetDuration(cfg.Rasa.Timeout)
		}
		remote = remoteanalyzer.NewAnalyzer(remoteConfig, parser, log)
	}

	if cfg.UsesRuleAnalyzer() {
		tokenizer := deps.Tokenizer
		if tokenizer == nil {
			var err error
			tokenizer, err = NewTokenizer(cfg.Tokenizer, cfg.Intents.Keywords, deps.Cities)
			if err != nil {
				return nil, "", err
			}
		}

		ruleConfig := ruleanalyzer.LoadConfig()
		if len(cfg.Intents.Keywords) > 0 {
			ruleConfig.Keywords = cfg.Intents.Keywords
		}
		if cfg.Analyzer.DefaultCity != "" {
			ruleConfig.DefaultCity = cfg.Analyzer.DefaultCity
		}
		rule = ruleanalyzer.NewAnalyzer(ruleConfig, tokenizer, deps.Cities, log)
	}

	switch cfg.Analyzer.Type {
	case config.AnalyzerRasa:
		log.Info("Using remote NLU analyzer", nil)
		return remote, remoteanalyzer.Name, nil
	case config.AnalyzerKoala, config.AnalyzerRule:
		log.Info("Using rule analyzer", nil)
		return rule, ruleanalyzer.Name, nil
	case config.AnalyzerHybrid, "":
		log.Info("Using hybrid analyzer", nil)
		return fusionanalyzer.NewAnalyzer(fusionanalyzer.LoadConfig(), remote, rule, log), fusionanalyzer.Name, nil
	default:
		return nil, "", fmt.Errorf("unknown analyzer type %q", cfg.Analyzer.Type)
	}
}

// NewTokenizer builds the configured morpheme tokenizer. The dictionary mode
// knows the intent keywords, the given cities and the ranked region list.
func NewTokenizer(cfg config.TokenizerConfig, keywords []config.IntentKeywords, cities []string) (komoran.Tokenizer, error) {
	switch cfg.Mode {
	case config.TokenizerHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("tokenizer.url is required for mode %q", config.TokenizerHTTP)
		}
		return komoran.NewClient(cfg.URL, config.GetDuration(cfg.Timeout)), nil
	case config.TokenizerDictionary, "":
		places := append([]string{}, cities...)
		places = append(places, "제주도")
		places = append(places, weather.RegionKeywords()...)

		var words []string
		for _, row := range keywords {
			words = append(words, row.Keywords...)
		}

		entries := komoran.PlaceEntries(places)
		entries = append(entries, komoran.KeywordEntries(words)...)
		return komoran.NewDictionary(entries...), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer mode %q", cfg.Mode)
	}
}
