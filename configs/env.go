package configs

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds everything read from the process environment. Runtime
// settings (auto-delete time, prefix, sudo users) live in the bot_config
// document; the values here only seed it on first start.
type Env struct {
	BotToken   string `env:"BOT_TOKEN,required"`
	MongoURI   string `env:"MONGO_URL,required"`
	DBName     string `env:"DB_NAME" envDefault:"file_sharing_bot"`
	AdminID    int64  `env:"ADMIN_ID,required"`
	WorkerURL  string `env:"WORKER_URL"`
	HealthAddr string `env:"HEALTH_ADDR" envDefault:":8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`

	DefaultAutoDeleteTime int    `env:"AUTO_DELETE_TIME" envDefault:"30"`
	DefaultPrefixName     string `env:"PREFIX_NAME"`
}

// LoadEnv reads .env if present and parses the environment.
func LoadEnv() (*Env, error) {
	_ = godotenv.Load()

	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
