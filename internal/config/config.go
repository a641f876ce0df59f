// archive-pipeline/internal/config/config.go
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App AppConfig
	S3  S3Config
}

type AppConfig struct {
	LogLevel    string
	Concurrency int
}

type S3Config struct {
	Endpoint string
	UseSSL   bool
}

// Load reads environment configuration. Per-command parameters (bucket, paths,
// formats) travel as CLI flags; only process-wide knobs live here.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PIPELINE_CONCURRENCY", 5)
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_USE_SSL", true)

	viper.AutomaticEnv()

	return &Config{
		App: AppConfig{
			LogLevel:    viper.GetString("LOG_LEVEL"),
			Concurrency: viper.GetInt("PIPELINE_CONCURRENCY"),
		},
		S3: S3Config{
			Endpoint: viper.GetString("S3_ENDPOINT"),
			UseSSL:   viper.GetBool("S3_USE_SSL"),
		},
	}
}
