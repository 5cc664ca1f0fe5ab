package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/fsmkit/pkg/definition"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

// builtins returns the actions and guards a file may reference from the CLI.
func builtins(log *slog.Logger) *definition.Registry {
	return definition.NewRegistry().
		Hook("log", logHook(log, slog.LevelInfo)).
		Guard("always", statemachine.Predicate(func(context.Context) bool { return true })).
		Guard("never", statemachine.Predicate(func(context.Context) bool { return false }))
}

func logHook(log *slog.Logger, level slog.Level) statemachine.Hook {
	return statemachine.HookFunc(func(ctx context.Context, ev statemachine.Event) error {
		attrs := []slog.Attr{
			logger.Machine(ev.Machine),
			logger.Hook(ev.Kind.String()),
			logger.State(ev.State),
		}
		if ev.Input != "" {
			attrs = append(attrs, logger.Input(ev.Input))
		}
		if ev.Transition != nil {
			attrs = append(attrs, logger.Transition(ev.Transition.From, ev.Transition.Input, ev.Transition.To))
		}
		log.LogAttrs(ctx, level, "hook", attrs...)
		return nil
	})
}

// trace attaches a debug logging hook to every category of m.
func trace(m *statemachine.Machine, log *slog.Logger) error {
	h := logHook(log, slog.LevelDebug)
	def := m.Definition()

	for _, in := range def.Inputs() {
		if _, err := m.OnInput(in, h); err != nil {
			return err
		}
	}
	for _, s := range def.States() {
		if _, err := m.OnLeave(s, h); err != nil {
			return err
		}
		if _, err := m.OnEnter(s, h); err != nil {
			return err
		}
	}
	if _, err := m.OnStateChange(h); err != nil {
		return err
	}

	seen := make(map[statemachine.TransitionKey]struct{})
	for _, t := range def.Transitions() {
		key := t.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		for _, register := range []func(statemachine.TransitionKey, statemachine.Hook) (statemachine.Handle, error){
			m.BeforeTransition, m.OnTransition, m.AfterTransition,
		} {
			if _, err := register(key, h); err != nil {
				return err
			}
		}
	}
	return nil
}
