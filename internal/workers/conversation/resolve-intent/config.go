// internal/workers/conversation/resolve-intent/config.go
package resolveintent

import (
	"time"

	"lasa-chatbot/internal/common/config"
)

type Config struct {
	DefaultCity string
	Location    *time.Location
	// GenerationWait bounds how long Solve waits for generated text.
	GenerationWait time.Duration
	// GenerationTimeout bounds the generator call itself, which keeps running
	// after the wait expires.
	GenerationTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultCity:       "서울",
		Location:          SeoulLocation(),
		GenerationWait:    5 * time.Second,
		GenerationTimeout: 60 * time.Second,
	}
}

// ConfigFrom maps the application configuration onto the resolver.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg.Analyzer.DefaultCity != "" {
		c.DefaultCity = cfg.Analyzer.DefaultCity
	}
	if cfg.Analyzer.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Analyzer.Timezone); err == nil {
			c.Location = loc
		}
	}
	if cfg.GenAI.Wait > 0 {
		c.GenerationWait = config.GetDuration(cfg.GenAI.Wait)
	}
	if cfg.GenAI.Timeout > 0 {
		c.GenerationTimeout = config.GetDuration(cfg.GenAI.Timeout)
	}
	return c
}

// SeoulLocation returns Asia/Seoul, or a fixed +09:00 zone when the tz
// database is unavailable.
func SeoulLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}
