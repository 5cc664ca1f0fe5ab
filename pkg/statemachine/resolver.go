package statemachine

import (
	"context"
)

// resolve picks the transition taken from state on input.
// First eligible candidate in declaration order wins. A nil result with a nil
// error means no transition applies.
func (d *Definition) resolve(ctx context.Context, state, input string) (*Transition, error) {
	for _, i := range d.candidatesFor(state, input) {
		t := &d.transitions[i]
		if t.Guard == nil {
			return t, nil
		}

		ok, err := t.Guard.Evaluate(ctx)
		if err != nil {
			return nil, NewErrGuardFailed(*t, err)
		}
		if ok {
			return t, nil
		}
	}
	return nil, nil
}

// Resolve returns the transition that would be taken from state on input without
// changing anything. Guards are evaluated.
func (d *Definition) Resolve(ctx context.Context, state, input string) (Transition, bool, error) {
	if !d.HasState(state) {
		return Transition{}, false, NewErrUnknownState(state)
	}
	if !d.HasInput(input) {
		return Transition{}, false, NewErrUnknownInput(input)
	}

	t, err := d.resolve(ctx, state, input)
	if err != nil || t == nil {
		return Transition{}, false, err
	}
	return *t, true, nil
}
