// internal/workers/analysis/rule-analyzer/config.go
package ruleanalyzer

import "lasa-chatbot/internal/common/config"

type Config struct {
	// Keywords is the ordered intent table; earlier rows win score ties.
	Keywords    []config.IntentKeywords
	DefaultCity string
}

func LoadConfig() *Config {
	return &Config{
		Keywords:    config.DefaultIntentKeywords(),
		DefaultCity: "서울",
	}
}
