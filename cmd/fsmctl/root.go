package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fsmkit/pkg/config"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/redis"
)

const envPrefix = "FSMCTL_"

// Config is read from FSMCTL_* environment variables and an optional .env file.
type Config struct {
	Env       string `env:"ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	Redis     redis.Config
}

type app struct {
	cfg      Config
	logger   *slog.Logger
	envFiles []string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "fsmctl",
		Short:         "Validate, draw and run declarative state machines",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env when present)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("log-format", "", "log format override (text, json)")

	cmd.AddCommand(
		newValidateCmd(a),
		newDiagramCmd(a),
		newRunCmd(a),
		newPingCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	var opts []config.Option
	opts = append(opts, config.WithPrefix(envPrefix))
	if len(a.envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(a.envFiles...))
	}
	if err := config.Load(&a.cfg, opts...); err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		a.cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		a.cfg.LogFormat = v
	}

	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(a.cfg.LogFormat)
	if err != nil {
		return err
	}

	a.logger = logger.New(
		logger.WithEnvironment(a.cfg.Env, "fsmctl"),
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextValue("step", stepKey{}),
	)
	return nil
}
