package config

import (
	"os"
)

type Config struct {
	ServiceFile string // SNSEV_SERVICE_FILE (default "serverless.yml")
	Stage       string // SNSEV_STAGE (default "", use service config)
	Region      string // SNSEV_REGION (default "", use service config)
	Endpoint    string // SNSEV_ENDPOINT (optional, custom AWS endpoint for localstack)
	NATSURL     string // SNSEV_NATS_URL (optional, empty = no events)
}

func Load() *Config {
	return &Config{
		ServiceFile: envOrDefault("SNSEV_SERVICE_FILE", "serverless.yml"),
		Stage:       os.Getenv("SNSEV_STAGE"),
		Region:      os.Getenv("SNSEV_REGION"),
		Endpoint:    os.Getenv("SNSEV_ENDPOINT"),
		NATSURL:     os.Getenv("SNSEV_NATS_URL"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
