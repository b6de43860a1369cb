package config

import (
	"os"
	"time"
)

type GeminiConfig struct {
	ApiUrl  string        `env:"GEMINI_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1/models/gemini-2.0-flash:generateContent"`
	ApiKey  string        `env:"GEMINI_API_KEY"`
	Timeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"60s"`
}

// sanitize honors GOOGLE_AI_API_KEY as an alias for the key, like the
// deployments that predate the GEMINI_API_KEY name.
func (c *GeminiConfig) sanitize() {
	if c.ApiKey == "" {
		c.ApiKey = os.Getenv("GOOGLE_AI_API_KEY")
	}
}
