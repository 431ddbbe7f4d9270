// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AnalyzerHybrid = "hybrid"
	AnalyzerRasa   = "rasa"
	AnalyzerKoala  = "koala"
	AnalyzerRule   = "rule"

	TokenizerHTTP       = "http"
	TokenizerDictionary = "dictionary"

	GenAIBackendHTTP     = "http"
	GenAIBackendOpenAI   = "openai"
	GenAIBackendDisabled = "disabled"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// expands ${VAR} placeholders and lets environment variables override keys
// (analyzer.type -> ANALYZER_TYPE).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are conventionally provided as
// bare environment variables rather than through the YAML file.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Weather.APIKey, "OPENWEATHERMAP_API_KEY")
	setIfEmpty(&cfg.Rasa.URL, "RASA_SERVER_URL")

	if cfg.GenAI.APIKey == "" {
		switch cfg.GenAI.Backend {
		case GenAIBackendOpenAI:
			setIfEmpty(&cfg.GenAI.APIKey, "OPENAI_API_KEY")
		default:
			setIfEmpty(&cfg.GenAI.APIKey, "GENAI_API_KEY")
		}
	}

	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*dst = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lasa-chatbot"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 64 << 10
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}

	if cfg.Analyzer.Type == "" {
		cfg.Analyzer.Type = AnalyzerHybrid
	}
	cfg.Analyzer.Type = strings.ToLower(cfg.Analyzer.Type)
	if cfg.Analyzer.DefaultCity == "" {
		cfg.Analyzer.DefaultCity = "서울"
	}
	if cfg.Analyzer.Timezone == "" {
		cfg.Analyzer.Timezone = "Asia/Seoul"
	}

	if len(cfg.Intents.Keywords) == 0 {
		cfg.Intents.Keywords = DefaultIntentKeywords()
	}

	if cfg.Rasa.Timeout == 0 {
		cfg.Rasa.Timeout = 5000
	}

	if cfg.Tokenizer.Mode == "" {
		if cfg.Tokenizer.URL != "" {
			cfg.Tokenizer.Mode = TokenizerHTTP
		} else {
			cfg.Tokenizer.Mode = TokenizerDictionary
		}
	}
	if cfg.Tokenizer.Timeout == 0 {
		cfg.Tokenizer.Timeout = 3000
	}

	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "https://api.openweathermap.org"
	}
	if cfg.Weather.Timeout == 0 {
		cfg.Weather.Timeout = 5000
	}
	if cfg.Weather.CacheTTL == 0 {
		cfg.Weather.CacheTTL = 7 * 24 * 3600
	}

	if cfg.GenAI.Backend == "" {
		cfg.GenAI.Backend = GenAIBackendDisabled
	}
	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = "gpt-4o-mini"
	}
	if cfg.GenAI.MaxTokens == 0 {
		cfg.GenAI.MaxTokens = 500
	}
	if cfg.GenAI.Temperature == 0 {
		cfg.GenAI.Temperature = 0.7
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 60000
	}
	if cfg.GenAI.Wait == 0 {
		cfg.GenAI.Wait = 5000
	}

	if cfg.Transcripts.Timeout == 0 {
		cfg.Transcripts.Timeout = 2000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// DefaultIntentKeywords is the keyword table used when the configuration
// does not provide one. Order is the tie-break priority.
func DefaultIntentKeywords() []IntentKeywords {
	return []IntentKeywords{
		{Intent: "weather", Keywords: []string{"날씨", "기온", "비", "눈", "맑음", "흐림", "습도", "미세먼지", "예보"}},
		{Intent: "temperature", Keywords: []string{"온도", "몇도", "춥", "덥"}},
		{Intent: "time", Keywords: []string{"시간", "몇시", "시각"}},
		{Intent: "greeting", Keywords: []string{"안녕", "반가워", "안녕하세요", "하이", "헬로"}},
		{Intent: "bye", Keywords: []string{"잘가", "바이", "안녕히"}},
		{Intent: "thanks", Keywords: []string{"고마워", "감사", "땡큐"}},
		{Intent: "help", Keywords: []string{"도움", "도움말", "기능"}},
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Analyzer.Type {
	case AnalyzerHybrid, AnalyzerRasa, AnalyzerKoala, AnalyzerRule:
	default:
		return fmt.Errorf("analyzer.type %q is not one of hybrid, rasa, koala, rule", cfg.Analyzer.Type)
	}

	if cfg.UsesRemoteAnalyzer() && cfg.Rasa.URL == "" {
		return fmt.Errorf("rasa.url is required for analyzer.type %q", cfg.Analyzer.Type)
	}

	if cfg.UsesRuleAnalyzer() {
		switch cfg.Tokenizer.Mode {
		case TokenizerDictionary:
		case TokenizerHTTP:
			if cfg.Tokenizer.URL == "" {
				return fmt.Errorf("tokenizer.url is required for tokenizer.mode %q", TokenizerHTTP)
			}
		default:
			return fmt.Errorf("tokenizer.mode %q is not one of http, dictionary", cfg.Tokenizer.Mode)
		}
	}

	seen := make(map[string]bool, len(cfg.Intents.Keywords))
	for _, row := range cfg.Intents.Keywords {
		if row.Intent == "" {
			return fmt.Errorf("intents.keywords: row without intent name")
		}
		if seen[row.Intent] {
			return fmt.Errorf("intents.keywords: intent %q listed twice", row.Intent)
		}
		seen[row.Intent] = true
	}

	switch cfg.GenAI.Backend {
	case GenAIBackendDisabled:
	case GenAIBackendHTTP:
		if cfg.GenAI.BaseURL == "" {
			return fmt.Errorf("genai.base_url is required for backend %q", GenAIBackendHTTP)
		}
	case GenAIBackendOpenAI:
		if cfg.GenAI.APIKey == "" {
			return fmt.Errorf("genai.api_key (or OPENAI_API_KEY) is required for backend %q", GenAIBackendOpenAI)
		}
	default:
		return fmt.Errorf("genai.backend %q is not one of http, openai, disabled", cfg.GenAI.Backend)
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda.enabled")
	}

	if cfg.Transcripts.Enabled && !cfg.Database.Postgres.Configured() {
		return fmt.Errorf("database.postgres host, database and user are required when transcripts.enabled")
	}

	return nil
}

// UsesRemoteAnalyzer reports whether the selected strategy calls the NLU server.
func (c *Config) UsesRemoteAnalyzer() bool {
	return c.Analyzer.Type == AnalyzerHybrid || c.Analyzer.Type == AnalyzerRasa
}

// UsesRuleAnalyzer reports whether the selected strategy needs the tokenizer.
func (c *Config) UsesRuleAnalyzer() bool {
	return c.Analyzer.Type != AnalyzerRasa
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    0,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
