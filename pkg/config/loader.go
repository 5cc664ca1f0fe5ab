package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when it exists and no files were named explicitly.
const DefaultEnvFile = ".env"

type options struct {
	files    []string
	explicit bool
	prefix   string
}

// Option configures a Load call.
type Option func(*options)

// WithEnvFiles reads the given dotenv files instead of DefaultEnvFile.
// Each file must exist.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		o.files = paths
		o.explicit = true
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "FSMCTL_".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// Load reads dotenv files and parses the environment into v.
//
// Example:
//
//	type RedisConfig struct {
//		URL     string `env:"REDIS_URL,required"`
//		Channel string `env:"REDIS_CHANNEL" envDefault:"fsm:state"`
//	}
//
//	var cfg RedisConfig
//	err := config.Load(&cfg)
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{files: []string{DefaultEnvFile}}
	for _, opt := range opts {
		opt(o)
	}

	if err := loadEnvFiles(o); err != nil {
		return err
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: o.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

func loadEnvFiles(o *options) error {
	if len(o.files) == 0 {
		return nil
	}
	if !o.explicit {
		// The default .env file is optional
		_ = godotenv.Load(o.files...)
		return nil
	}
	if err := godotenv.Load(o.files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}
