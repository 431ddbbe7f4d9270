// internal/workers/conversation/chat-reply/config.go
package chatreply

import (
	"time"

	"lasa-chatbot/internal/common/config"
)

type Config struct {
	// AnalyzerName labels chat.requests in the otel meter.
	AnalyzerName string
	// TranscriptTimeout bounds each transcript insert.
	TranscriptTimeout time.Duration
	// JobTimeout bounds one Zeebe job.
	JobTimeout time.Duration
	// MaxBodyBytes caps inbound HTTP request bodies.
	MaxBodyBytes int64
}

func LoadConfig() *Config {
	return &Config{
		AnalyzerName:      "hybrid",
		TranscriptTimeout: 2 * time.Second,
		JobTimeout:        15 * time.Second,
		MaxBodyBytes:      64 << 10,
	}
}

// ConfigFrom maps the application configuration onto the controller.
func ConfigFrom(cfg *config.Config, analyzerName string) *Config {
	c := LoadConfig()
	c.AnalyzerName = analyzerName
	if cfg.Transcripts.Timeout > 0 {
		c.TranscriptTimeout = config.GetDuration(cfg.Transcripts.Timeout)
	}
	if w := config.GetWorkerConfig(cfg, TaskType); w.Timeout > 0 {
		c.JobTimeout = config.GetDuration(w.Timeout)
	}
	if cfg.Server.MaxBodyBytes > 0 {
		c.MaxBodyBytes = cfg.Server.MaxBodyBytes
	}
	return c
}
