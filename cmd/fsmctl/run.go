package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fsmkit/pkg/definition"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/redis"
	"github.com/dmitrymomot/fsmkit/pkg/sensor"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

// stepKey carries the 1-based number of the command being executed.
type stepKey struct{}

type runOptions struct {
	trace   bool
	sensor  bool
	restore bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run FILE [INPUT...]",
		Short: "Drive a machine with inputs from arguments or stdin",
		Long: `Run creates a machine from FILE and feeds it one command per argument,
or one per line of stdin when no inputs are given.

A command is an input name, "set STATE" to force a state, or "reset" to return
to the initial state. Blank lines and lines starting with # are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], args[1:], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.trace, "trace", false, "log every hook invocation at debug level")
	flags.BoolVar(&opts.sensor, "sensor", false, "print every reported state")
	flags.BoolVar(&opts.restore, "restore", false, "restore the last published state from Redis")
	return cmd
}

func (a *app) run(cmd *cobra.Command, path string, inputs []string, opts runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	bp, err := definition.LoadFile(path,
		definition.WithRegistry(builtins(a.logger)),
		definition.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	m, err := bp.NewMachine(statemachine.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if opts.trace {
		if err := trace(m, a.logger); err != nil {
			return err
		}
	}

	var sensorOpts []sensor.Option
	if opts.sensor {
		sensorOpts = append(sensorOpts, sensor.WithPublisher(sensor.PublisherFunc(func(_ context.Context, u sensor.Update) error {
			_, err := fmt.Fprintf(out, "sensor %s: %s\n", u.Machine, u.State)
			return err
		})))
	}

	if a.cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, a.cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		if opts.restore {
			if err := restore(ctx, m, redis.NewStateStore(client, a.cfg.Redis.KeyPrefix), a.logger); err != nil {
				return err
			}
		}

		sensorOpts = append(sensorOpts, sensor.WithPublisher(sensor.NewRedisPublisher(client,
			sensor.WithKeyPrefix(a.cfg.Redis.KeyPrefix),
			sensor.WithChannel(a.cfg.Redis.Channel),
		)))
	} else if opts.restore {
		return fmt.Errorf("--restore requires %sREDIS_URL", envPrefix)
	}

	s := sensor.New(m, append(sensorOpts, sensor.WithLogger(a.logger))...)
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Stop()

	if len(inputs) > 0 {
		for i, line := range inputs {
			if err := step(context.WithValue(ctx, stepKey{}, i+1), m, line, out); err != nil {
				return err
			}
		}
		return nil
	}
	return feed(ctx, m, cmd.InOrStdin(), out)
}

// stateLoader reads back a previously published state.
type stateLoader interface {
	Load(ctx context.Context, machine string) (string, bool, error)
}

// restore forces m into its stored state. Nothing happens when no state is stored.
func restore(ctx context.Context, m *statemachine.Machine, store stateLoader, log *slog.Logger) error {
	state, ok, err := store.Load(ctx, m.Name())
	if err != nil || !ok {
		return err
	}
	if err := m.Set(ctx, state); err != nil {
		return err
	}
	log.InfoContext(ctx, "state restored", logger.Machine(m.Name()), logger.State(state))
	return nil
}

func feed(ctx context.Context, m *statemachine.Machine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(context.WithValue(ctx, stepKey{}, n), m, scanner.Text(), out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// step executes one command line against m and reports the outcome.
func step(ctx context.Context, m *statemachine.Machine, line string, out io.Writer) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	from := m.Current()
	switch fields := strings.Fields(line); {
	case fields[0] == "reset" && len(fields) == 1:
		if err := m.Reset(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "reset: %s -> %s\n", from, m.Current())
		return err

	case fields[0] == "set" && len(fields) == 2:
		if err := m.Set(ctx, fields[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "set: %s -> %s\n", from, m.Current())
		return err

	default:
		ok, err := m.Fire(ctx, line)
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintf(out, "%s: no transition from %s\n", line, from)
			return err
		}
		_, err = fmt.Fprintf(out, "%s: %s -> %s\n", line, from, m.Current())
		return err
	}
}
