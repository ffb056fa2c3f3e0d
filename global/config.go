package global

import (
	"github.com/kelseyhightower/envconfig"
)

// AppConfig is the process configuration, read from GATEWAY_* env vars.
type AppConfig struct {
	Addr      string `default:":8081"`
	GatewayID string `split_words:"true" default:"rt_gw-1"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`

	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `split_words:"true" default:"social"`

	RedisAddr     string `split_words:"true" default:"127.0.0.1:6379"`
	RedisPassword string `split_words:"true" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	FanoutWorkers int `split_words:"true" default:"8"`
	FanoutQueue   int `split_words:"true" default:"1024"`
	SendQueueSize int `split_words:"true" default:"256"`
}

func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("gateway", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
