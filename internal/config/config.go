package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultRankingLimit = 10
	DefaultHistoryLimit = 10
)

type Config struct {
	ServiceName string `mapstructure:"service_name"`
	Token       string `mapstructure:"-"`

	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Jaeger JaegerConfig `mapstructure:"jaeger"`
}

type ServerConfig struct {
	Mode        string `mapstructure:"mode"`
	Prefix      string `mapstructure:"prefix"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type JaegerConfig struct {
	Sampler struct {
		Type  string  `mapstructure:"type"`
		Param float64 `mapstructure:"param"`
	} `mapstructure:"sampler"`
	Reporter struct {
		LogSpans           bool   `mapstructure:"log_spans"`
		LocalAgentHostPort string `mapstructure:"local_agent_host_port"`
	} `mapstructure:"reporter"`
}

// MustLoad reads the YAML config at path, falling back to defaults when the
// file is absent. The chat token comes only from the DISCORD_TOKEN
// environment variable; a .env file is honored when present.
func MustLoad(path string) *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("service_name", "economy-bot")
	v.SetDefault("server.mode", "dev")
	v.SetDefault("server.prefix", "!")
	v.SetDefault("server.metrics_port", 8085)
	v.SetDefault("store.path", "bot_data.json")
	v.SetDefault("jaeger.sampler.type", "const")
	v.SetDefault("jaeger.sampler.param", 1)
	v.SetDefault("jaeger.reporter.log_spans", false)
	v.SetDefault("jaeger.reporter.local_agent_host_port", "localhost:6831")

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			panic(err)
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		panic(err)
	}

	conf.Token = os.Getenv("DISCORD_TOKEN")
	return conf
}
