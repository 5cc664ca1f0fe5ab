// Package statemachine implements declarative finite-state machines for
// firmware-style event loops.
//
// A Definition is built once from ordered states, inputs and transitions and is
// immutable afterwards. A Machine holds the current state of one Definition and
// exposes Fire, Set and Current. Several machines may share a Definition.
//
// # Resolution
//
// Fire(input) looks at the transitions declared from the current state for that
// input, in declaration order. The first one without a guard, or whose guard
// evaluates to true, is taken. When none qualifies Fire returns false and the
// state is unchanged; this is not an error.
//
// # Lifecycle hooks
//
// Hooks are attached per machine to seven categories. For Fire taking A -(x)-> B
// they run in this order:
//
//  1. on_input(x)           always, even if no transition matches
//  2. before_transition(A -(x)-> B)
//  3. on_leave(A)
//  4. on_transition(A -(x)-> B)   the state is already B from here on
//  5. on_enter(B)
//  6. on_set(B)
//  7. after_transition(A -(x)-> B)
//
// Set(state) runs only on_leave, on_enter and on_set, also when state is the
// current state. Within a category hooks run in registration order.
//
// # Usage
//
//	def := statemachine.MustNewDefinition(
//	    statemachine.WithName("job"),
//	    statemachine.WithStates("idle", "running", "done"),
//	    statemachine.WithInputs("start", "finish"),
//	    statemachine.WithTransition("idle", "start", "running"),
//	    statemachine.WithTransition("running", "finish", "done"),
//	)
//
//	m := statemachine.MustNew(def, statemachine.WithLogger(log))
//	_, _ = m.OnEnter("running", statemachine.HookFunc(func(ctx context.Context, ev statemachine.Event) error {
//	    return motor.Start(ctx)
//	}))
//
//	ok, err := m.Fire(ctx, "start")
//
// # Errors
//
// Construction failures match ErrInvalidDefinition. Fire and Set return
// *ErrUnknownInput / *ErrUnknownState for undeclared names, *ErrGuardFailed when
// a guard fails (state unchanged) and *ErrHookFailed when a hook fails. A hook
// failure after on_leave leaves the machine in the new state with the remaining
// hooks skipped; ErrHookFailed.Committed tells which case occurred.
//
// # Concurrency
//
// Machine does no locking. Callers must serialize access. Calling Fire, Set or
// Reset from inside a hook returns ErrReentrantCall.
package statemachine
