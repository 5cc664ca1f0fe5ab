package statemachine

import (
	"context"
	"fmt"
)

// Guard decides whether a transition is eligible. Returning an error aborts the Fire call.
type Guard interface {
	Evaluate(ctx context.Context) (bool, error)
}

// GuardFunc adapts a plain function to the Guard interface.
type GuardFunc func(ctx context.Context) (bool, error)

func (f GuardFunc) Evaluate(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Predicate wraps an infallible check as a Guard.
func Predicate(fn func(ctx context.Context) bool) Guard {
	return GuardFunc(func(ctx context.Context) (bool, error) {
		return fn(ctx), nil
	})
}

// Hook is user logic attached to a lifecycle category.
type Hook interface {
	Invoke(ctx context.Context, ev Event) error
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx context.Context, ev Event) error

func (f HookFunc) Invoke(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// HookKind identifies one of the seven lifecycle categories.
type HookKind uint8

const (
	KindOnInput HookKind = iota
	KindBeforeTransition
	KindOnLeave
	KindOnTransition
	KindOnEnter
	KindOnSet
	KindAfterTransition

	hookKindCount = int(KindAfterTransition) + 1
)

var hookKindNames = [hookKindCount]string{
	"on_input",
	"before_transition",
	"on_leave",
	"on_transition",
	"on_enter",
	"on_set",
	"after_transition",
}

func (k HookKind) String() string {
	if int(k) < hookKindCount {
		return hookKindNames[k]
	}
	return fmt.Sprintf("hook_kind(%d)", uint8(k))
}

// Event is passed to every hook invocation.
// State is the current state at dispatch time: the state being left for
// on_input, before_transition and on_leave, the new state for the rest.
// Transition is set only for the three transition-keyed categories.
type Event struct {
	Kind       HookKind
	Machine    string
	State      string
	Input      string // empty for Set
	Transition *Transition
}

// Transition is a declared edge between two states.
type Transition struct {
	From       string
	Input      string
	To         string
	Guard      Guard  // nil means always eligible
	GuardLabel string // shown in diagrams

	index int
}

// Key returns the (from, input, to) identity used for hook registration.
func (t Transition) Key() TransitionKey {
	return TransitionKey{From: t.From, Input: t.Input, To: t.To}
}

// Index is the declaration position within the definition.
func (t Transition) Index() int {
	return t.index
}

// Guarded reports whether the transition carries a guard.
func (t Transition) Guarded() bool {
	return t.Guard != nil
}

func (t Transition) String() string {
	if t.Input == "" {
		return fmt.Sprintf("%s -> %s", t.From, t.To)
	}
	return fmt.Sprintf("%s -(%s)-> %s", t.From, t.Input, t.To)
}

// TransitionKey identifies a transition for hook registration.
// Hooks keyed this way fire for every declared transition with the same endpoints and input.
type TransitionKey struct {
	From  string
	Input string
	To    string
}

func (k TransitionKey) String() string {
	return fmt.Sprintf("%s -(%s)-> %s", k.From, k.Input, k.To)
}
