package config

import "time"

type RedisConfig struct {
	// URL is a redis:// connection string, matching the deployment's
	// service-name default.
	URL string `env:"REDIS_URL" envDefault:"redis://redis:6379/0"`
	// JobTTL is how long a job record survives after its last write.
	JobTTL time.Duration `env:"REDIS_JOB_TTL" envDefault:"24h"`
	// DialTimeout bounds the startup reachability probe.
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"2s"`
}
