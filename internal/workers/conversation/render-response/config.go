// internal/workers/conversation/render-response/config.go
package renderresponse

import (
	"time"

	resolveintent "lasa-chatbot/internal/workers/conversation/resolve-intent"
)

type Config struct {
	DefaultCity string
	Location    *time.Location
}

func LoadConfig() *Config {
	return &Config{
		DefaultCity: "서울",
		Location:    resolveintent.SeoulLocation(),
	}
}
