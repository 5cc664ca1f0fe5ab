// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: dotenv
// files are read into the process environment first, then the environment is
// parsed into a struct using field tags.
//
//	type Config struct {
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	    RedisURL string `env:"REDIS_URL"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("FSMCTL_")); err != nil {
//	    return err
//	}
//
// Values already present in the environment win over dotenv files. Missing
// files are ignored unless they were named explicitly with WithEnvFiles.
// Nothing is cached: every call parses the environment again.
package config
