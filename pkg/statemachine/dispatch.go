package statemachine

import (
	"context"
)

// dispatch runs every hook of kind whose key matches, in registration order.
// The first failure stops the category and is returned.
func (m *Machine) dispatch(ctx context.Context, kind HookKind, key, label string, ev Event, committed bool) error {
	for _, reg := range m.hooks.snapshot(kind) {
		if !reg.wildcard && reg.key != key {
			continue
		}
		if err := reg.hook.Invoke(ctx, ev); err != nil {
			return NewErrHookFailed(kind, label, committed, err)
		}
	}
	return nil
}

func (m *Machine) event(kind HookKind, input string, t *Transition) Event {
	return Event{
		Kind:       kind,
		Machine:    m.def.name,
		State:      m.current,
		Input:      input,
		Transition: t,
	}
}

// runTransition applies a resolved transition:
// before_transition, on_leave, commit, on_transition, on_enter, on_set, after_transition.
func (m *Machine) runTransition(ctx context.Context, resolved *Transition) error {
	t := *resolved
	key := transitionHookKey(t.Key())
	label := t.Key().String()

	if err := m.dispatch(ctx, KindBeforeTransition, key, label, m.event(KindBeforeTransition, t.Input, &t), false); err != nil {
		return err
	}
	if err := m.dispatch(ctx, KindOnLeave, t.From, t.From, m.event(KindOnLeave, t.Input, nil), false); err != nil {
		return err
	}

	m.current = t.To
	m.last = t
	m.hasLast = true

	if err := m.dispatch(ctx, KindOnTransition, key, label, m.event(KindOnTransition, t.Input, &t), true); err != nil {
		return err
	}
	if err := m.dispatch(ctx, KindOnEnter, t.To, t.To, m.event(KindOnEnter, t.Input, nil), true); err != nil {
		return err
	}
	if err := m.dispatch(ctx, KindOnSet, t.To, t.To, m.event(KindOnSet, t.Input, nil), true); err != nil {
		return err
	}
	return m.dispatch(ctx, KindAfterTransition, key, label, m.event(KindAfterTransition, t.Input, &t), true)
}

// runSet forces the machine into state: on_leave, commit, on_enter, on_set.
// Input- and transition-keyed categories never fire for Set.
func (m *Machine) runSet(ctx context.Context, state string) error {
	from := m.current

	if err := m.dispatch(ctx, KindOnLeave, from, from, m.event(KindOnLeave, "", nil), false); err != nil {
		return err
	}

	m.current = state

	if err := m.dispatch(ctx, KindOnEnter, state, state, m.event(KindOnEnter, "", nil), true); err != nil {
		return err
	}
	return m.dispatch(ctx, KindOnSet, state, state, m.event(KindOnSet, "", nil), true)
}
