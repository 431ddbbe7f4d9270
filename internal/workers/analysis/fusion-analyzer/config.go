// internal/workers/analysis/fusion-analyzer/config.go
package fusionanalyzer

type Config struct {
	// HighConfidence is the bar a disagreeing side must reach to win outright.
	HighConfidence float64
	// AgreementBonus is added to the mean confidence when both sides agree.
	AgreementBonus float64
	// LowConfidencePenalty scales the remote confidence when neither side is sure.
	LowConfidencePenalty float64
	// RulePreferredEntities take the rule analyzer's value on conflict.
	RulePreferredEntities []string
}

func LoadConfig() *Config {
	return &Config{
		HighConfidence:        0.7,
		AgreementBonus:        0.1,
		LowConfidencePenalty:  0.9,
		RulePreferredEntities: []string{"location", "datetime", "person"},
	}
}
