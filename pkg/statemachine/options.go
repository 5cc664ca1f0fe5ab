package statemachine

import (
	"context"
	"fmt"
	"log/slog"
)

// DefinitionOption configures a definition during construction.
type DefinitionOption func(*Definition) error

// TransitionOption configures a single transition.
type TransitionOption func(*Transition)

// Option configures a machine.
type Option func(*Machine)

// TransitionDef declares a transition for WithTransitions.
type TransitionDef struct {
	From       string
	Input      string
	To         string
	Guard      Guard
	GuardLabel string
}

func WithName(name string) DefinitionOption {
	return func(d *Definition) error {
		d.name = name
		return nil
	}
}

// WithStates declares states. Order matters: the first state is the default initial state.
func WithStates(names ...string) DefinitionOption {
	return func(d *Definition) error {
		for _, name := range names {
			if err := d.addState(name); err != nil {
				return err
			}
		}
		return nil
	}
}

func WithInputs(names ...string) DefinitionOption {
	return func(d *Definition) error {
		for _, name := range names {
			if err := d.addInput(name); err != nil {
				return err
			}
		}
		return nil
	}
}

func WithInitialState(name string) DefinitionOption {
	return func(d *Definition) error {
		d.initial = name
		return nil
	}
}

// WithTransition appends a transition. Declaration order is the tie-break between
// transitions sharing the same source state and input.
func WithTransition(from, input, to string, opts ...TransitionOption) DefinitionOption {
	return func(d *Definition) error {
		t := Transition{From: from, Input: input, To: to}
		for _, opt := range opts {
			opt(&t)
		}
		d.transitions = append(d.transitions, t)
		return nil
	}
}

// WithTransitions appends several transitions at once, in slice order.
func WithTransitions(defs []TransitionDef) DefinitionOption {
	return func(d *Definition) error {
		for i, td := range defs {
			if td.From == "" || td.Input == "" || td.To == "" {
				return fmt.Errorf("%w: transition[%d] %q -(%q)-> %q has empty fields",
					ErrInvalidDefinition, i, td.From, td.Input, td.To)
			}
			d.transitions = append(d.transitions, Transition{
				From:       td.From,
				Input:      td.Input,
				To:         td.To,
				Guard:      td.Guard,
				GuardLabel: td.GuardLabel,
			})
		}
		return nil
	}
}

// WithGuard attaches a guard to a transition. Nil guards are ignored.
func WithGuard(guard Guard) TransitionOption {
	return func(t *Transition) {
		if guard != nil {
			t.Guard = guard
		}
	}
}

// WithGuardFunc is a shorthand for WithGuard(GuardFunc(fn)).
func WithGuardFunc(fn func(ctx context.Context) (bool, error)) TransitionOption {
	return func(t *Transition) {
		if fn != nil {
			t.Guard = GuardFunc(fn)
		}
	}
}

// WithGuardLabel sets the guard description rendered by diagram exporters.
func WithGuardLabel(label string) TransitionOption {
	return func(t *Transition) {
		t.GuardLabel = label
	}
}

// WithLogger sets the logger used by the machine. Nil loggers are ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}
