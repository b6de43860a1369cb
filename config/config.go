package config

import "github.com/caarlos0/env/v11"

// AppConfig composes the per-collaborator configuration. Values load from
// environment variables; see the individual files for the variables each
// section reads. Provider API keys are optional on purpose: the script and
// caption stages degrade without them and the asset selector falls back to
// fixed identifiers.
type AppConfig struct {
	Server   ServerConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	HeyGen   HeyGenConfig
	Submagic SubmagicConfig

	// MockProviders serves in-process provider mocks and points the drivers
	// at them, so the pipeline can run with no credentials.
	MockProviders bool `env:"MOCK_PROVIDERS" envDefault:"false"`
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.Gemini.sanitize()
	return cfg, nil
}
