package statemachine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
)

// Machine is a running state machine bound to a Definition.
// It is synchronous and not safe for concurrent use: callers must serialize
// Fire, Set and Reset. Hooks run inline on the caller's goroutine.
type Machine struct {
	def     *Definition
	hooks   hookRegistry
	logger  *slog.Logger
	current string
	last    Transition
	hasLast bool

	// dispatching guards against Fire/Set being called from a hook
	dispatching bool
}

// New creates a machine positioned at the definition's initial state.
func New(def *Definition, opts ...Option) (*Machine, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}

	m := &Machine{
		def:     def,
		logger:  logger.NewNop(),
		current: def.initial,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("statemachine"), logger.Machine(def.name))
	m.logger.Debug("state machine ready",
		logger.State(m.current),
		slog.Int("states", len(def.states)),
		slog.Int("inputs", len(def.inputs)),
		slog.Int("transitions", len(def.transitions)),
	)

	return m, nil
}

// MustNew is like New but panics when def is nil.
func MustNew(def *Definition, opts ...Option) *Machine {
	m, err := New(def, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

func (m *Machine) Name() string {
	return m.def.name
}

func (m *Machine) Definition() *Definition {
	return m.def
}

// Current returns the current state.
func (m *Machine) Current() string {
	return m.current
}

// LastTransition returns the most recent transition taken by Fire.
func (m *Machine) LastTransition() (Transition, bool) {
	return m.last, m.hasLast
}

// CanFire reports whether Fire(input) would take a transition from the current
// state. Guards are evaluated, hooks are not run.
func (m *Machine) CanFire(ctx context.Context, input string) (bool, error) {
	_, ok, err := m.def.Resolve(ctx, m.current, input)
	return ok, err
}

// Fire delivers input to the machine and reports whether a transition was
// resolved. on_input hooks run for every declared input, even when nothing
// matches. When a hook fails after resolution Fire returns true together with
// an *ErrHookFailed.
func (m *Machine) Fire(ctx context.Context, input string) (bool, error) {
	if m.dispatching {
		return false, ErrReentrantCall
	}
	if !m.def.HasInput(input) {
		m.logger.WarnContext(ctx, "invalid input", logger.Input(input), logger.State(m.current))
		return false, NewErrUnknownInput(input)
	}

	m.dispatching = true
	defer func() { m.dispatching = false }()

	from := m.current
	if err := m.dispatch(ctx, KindOnInput, input, input, m.event(KindOnInput, input, nil), false); err != nil {
		m.logHookFailure(ctx, err)
		return false, err
	}

	t, err := m.def.resolve(ctx, from, input)
	if err != nil {
		m.logger.ErrorContext(ctx, "guard evaluation failed",
			logger.Input(input), logger.State(from), logger.Error(err))
		return false, err
	}
	if t == nil {
		m.logger.DebugContext(ctx, "no transition for input", logger.Input(input), logger.State(from))
		return false, nil
	}

	if err := m.runTransition(ctx, t); err != nil {
		m.logHookFailure(ctx, err)
		return true, err
	}

	m.logger.DebugContext(ctx, "transitioned", logger.Transition(t.From, t.Input, t.To))
	return true, nil
}

// Set forces the machine into state without consulting transitions or guards.
// on_leave, on_enter and on_set fire even when state is already current.
func (m *Machine) Set(ctx context.Context, state string) error {
	if m.dispatching {
		return ErrReentrantCall
	}
	if !m.def.HasState(state) {
		m.logger.WarnContext(ctx, "invalid state", logger.State(state))
		return NewErrUnknownState(state)
	}

	m.dispatching = true
	defer func() { m.dispatching = false }()

	from := m.current
	if err := m.runSet(ctx, state); err != nil {
		m.logHookFailure(ctx, err)
		return err
	}

	m.logger.DebugContext(ctx, "state set", logger.Transition(from, "", state))
	return nil
}

// Reset forces the machine back into the initial state. It behaves like Set.
func (m *Machine) Reset(ctx context.Context) error {
	return m.Set(ctx, m.def.initial)
}

func (m *Machine) logHookFailure(ctx context.Context, err error) {
	m.logger.ErrorContext(ctx, "hook failed", logger.State(m.current), logger.Error(err))
}
