// Package logger builds *slog.Logger instances for fsmkit components and
// commands.
//
// New applies functional options (format, level, output, static attributes,
// context extractors, per-environment defaults) and wraps the chosen slog
// handler with LogHandlerDecorator so attributes stored in a context are added
// to every record.
//
// attr.go holds attribute constructors (Machine, State, Input, Transition,
// Hook, Error, ...) that keep key names consistent between the state machine
// engine, the sensor and the fsmctl command. NewNop returns a logger that
// discards everything and is the default inside library packages.
//
//	level, err := logger.ParseLevel(cfg.LogLevel)
//	if err != nil {
//	    return err
//	}
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "fsmctl"),
//	    logger.WithLevel(level),
//	)
//	log.Info("transitioned", logger.Machine("door"), logger.Transition("closed", "open", "opened"))
package logger
