package config

type ServerConfig struct {
	Addr       string `env:"SERVER_ADDR" envDefault:":8080"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	WorkerPool int    `env:"WORKER_POOL_SIZE" envDefault:"120"`
}
