// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig               `mapstructure:"app"`
	Server      ServerConfig            `mapstructure:"server"`
	Camunda     CamundaConfig           `mapstructure:"camunda"`
	Database    DatabaseConfig          `mapstructure:"database"`
	Workers     map[string]WorkerConfig `mapstructure:"workers"`
	Analyzer    AnalyzerConfig          `mapstructure:"analyzer"`
	Intents     IntentsConfig           `mapstructure:"intents"`
	Rasa        RasaConfig              `mapstructure:"rasa"`
	Tokenizer   TokenizerConfig         `mapstructure:"tokenizer"`
	Weather     WeatherConfig           `mapstructure:"weather"`
	GenAI       GenAIConfig             `mapstructure:"genai"`
	Transcripts TranscriptConfig        `mapstructure:"transcripts"`
	Logging     LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig controls the inbound HTTP listener that serves /api/chat,
// health probes and metrics.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Configured reports whether enough connection settings exist to dial.
func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Database != "" && p.User != ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Chatbot Configuration Sections ---

// AnalyzerConfig selects the analysis strategy once at startup.
// Type is one of "hybrid", "rasa" (remote only) or "koala"/"rule" (rule only).
type AnalyzerConfig struct {
	Type        string `mapstructure:"type"`
	DefaultCity string `mapstructure:"default_city"`
	Timezone    string `mapstructure:"timezone"`
}

// IntentKeywords is one row of the rule analyzer's keyword table. Rows are
// listed in priority order; the first row wins a score tie.
type IntentKeywords struct {
	Intent   string   `mapstructure:"intent"`
	Keywords []string `mapstructure:"keywords"`
}

type IntentsConfig struct {
	Keywords []IntentKeywords `mapstructure:"keywords"`
}

// RasaConfig points at a Rasa-compatible NLU server (/model/parse).
type RasaConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// TokenizerConfig selects the morpheme tokenizer.
// Mode "http" calls a KOMORAN analysis server, "dictionary" uses the
// in-process user-dictionary tokenizer.
type TokenizerConfig struct {
	Mode    string `mapstructure:"mode"`
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// WeatherConfig holds OpenWeatherMap settings. An empty APIKey switches the
// weather collaborator into its offline mock mode.
type WeatherConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	Timeout      int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL     int    `mapstructure:"cache_ttl"` // seconds, Redis tier only
	CacheEnabled bool   `mapstructure:"cache_enabled"`
}

// GenAIConfig configures the generative-text fallback.
// Backend is "http" (GenAI gateway), "openai" or "disabled".
type GenAIConfig struct {
	Backend      string  `mapstructure:"backend"`
	BaseURL      string  `mapstructure:"base_url"`
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature"`
	SystemPrompt string  `mapstructure:"system_prompt"`
	Timeout      int     `mapstructure:"timeout"` // milliseconds, whole call
	Wait         int     `mapstructure:"wait"`    // milliseconds the resolver waits
}

// TranscriptConfig toggles the Postgres audit log of chat exchanges.
type TranscriptConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
