package config

import "time"

type SubmagicConfig struct {
	ApiUrl string `env:"SUBMAGIC_API_URL" envDefault:"https://api.submagic.co"`
	ApiKey string `env:"SUBMAGIC_API_KEY"`
	// TemplateName selects the caption style burned into the export.
	TemplateName string        `env:"SUBMAGIC_TEMPLATE" envDefault:"Sara"`
	PollInterval time.Duration `env:"SUBMAGIC_POLL_INTERVAL" envDefault:"5s"`
	PollAttempts int           `env:"SUBMAGIC_POLL_ATTEMPTS" envDefault:"60"`
	// RequestTimeout bounds every individual Submagic call.
	RequestTimeout time.Duration `env:"SUBMAGIC_REQUEST_TIMEOUT" envDefault:"60s"`
}
