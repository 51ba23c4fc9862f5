package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvProduction Environment = "production"
)

type Config struct {
	App struct {
		Env  Environment `env:"APP_ENV" envDefault:"local"`
		Port string      `env:"API_PORT" envDefault:"8080"`
	}

	Mongo struct {
		URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
		Database string `env:"MONGO_DATABASE" envDefault:"mediqueue"`
	}

	CORS struct {
		OriginsString string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
		Origins       []string
	}

	Booking struct {
		// SlotCapacity is the maximum number of patients per 1-hour slot.
		SlotCapacity int `env:"SLOT_CAPACITY" envDefault:"5"`
	}

	Geocoder struct {
		BaseURL   string `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
		CacheSize int    `env:"GEOCODER_CACHE_SIZE" envDefault:"500"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	for _, origin := range strings.Split(cfg.CORS.OriginsString, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORS.Origins = append(cfg.CORS.Origins, origin)
		}
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}
