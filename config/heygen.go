package config

import "time"

type HeyGenConfig struct {
	ApiUrl string `env:"HEYGEN_API_URL" envDefault:"https://api.heygen.com"`
	ApiKey string `env:"HEYGEN_API_KEY"`
	// PollInterval is the cadence of render status checks; PollAttempts
	// bounds the wait at attempts * interval (20 minutes by default).
	PollInterval time.Duration `env:"HEYGEN_POLL_INTERVAL" envDefault:"5s"`
	PollAttempts int           `env:"HEYGEN_POLL_ATTEMPTS" envDefault:"240"`
	// SubmitTimeout bounds the render submission call, RequestTimeout each
	// status poll and ListTimeout the avatar listing. A stalled response
	// counts as one failed call instead of hanging the whole poll loop.
	SubmitTimeout  time.Duration `env:"HEYGEN_SUBMIT_TIMEOUT" envDefault:"5m"`
	RequestTimeout time.Duration `env:"HEYGEN_REQUEST_TIMEOUT" envDefault:"60s"`
	ListTimeout    time.Duration `env:"HEYGEN_LIST_TIMEOUT" envDefault:"30s"`
}
