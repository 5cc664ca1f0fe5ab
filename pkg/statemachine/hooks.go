package statemachine

import (
	"slices"

	"github.com/google/uuid"
)

// Handle identifies a registered hook. The zero Handle matches nothing.
type Handle struct {
	kind HookKind
	id   uuid.UUID
}

func (h Handle) Kind() HookKind {
	return h.kind
}

func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

func (h Handle) String() string {
	return h.kind.String() + ":" + h.id.String()
}

type registration struct {
	id       uuid.UUID
	key      string
	wildcard bool
	hook     Hook
}

// hookRegistry keeps one ordered list per category so that wildcard and keyed
// hooks interleave in registration order.
type hookRegistry struct {
	byKind [hookKindCount][]registration
}

func (r *hookRegistry) add(kind HookKind, key string, wildcard bool, hook Hook) Handle {
	id := uuid.New()
	r.byKind[kind] = append(r.byKind[kind], registration{
		id:       id,
		key:      key,
		wildcard: wildcard,
		hook:     hook,
	})
	return Handle{kind: kind, id: id}
}

// remove never mutates the backing array in place so an in-flight dispatch
// keeps iterating over its own snapshot.
func (r *hookRegistry) remove(h Handle) bool {
	if h.IsZero() || int(h.kind) >= hookKindCount {
		return false
	}
	regs := r.byKind[h.kind]
	idx := slices.IndexFunc(regs, func(reg registration) bool { return reg.id == h.id })
	if idx < 0 {
		return false
	}
	next := make([]registration, 0, len(regs)-1)
	next = append(next, regs[:idx]...)
	next = append(next, regs[idx+1:]...)
	r.byKind[h.kind] = next
	return true
}

func (r *hookRegistry) snapshot(kind HookKind) []registration {
	return r.byKind[kind]
}

func (r *hookRegistry) count(kind HookKind) int {
	return len(r.byKind[kind])
}

func transitionHookKey(k TransitionKey) string {
	return k.From + "\x00" + k.Input + "\x00" + k.To
}

func (m *Machine) registerState(kind HookKind, state string, hook Hook) (Handle, error) {
	if hook == nil {
		return Handle{}, ErrNilHook
	}
	if !m.def.HasState(state) {
		return Handle{}, NewErrUnknownState(state)
	}
	return m.hooks.add(kind, state, false, hook), nil
}

func (m *Machine) registerTransition(kind HookKind, key TransitionKey, hook Hook) (Handle, error) {
	if hook == nil {
		return Handle{}, ErrNilHook
	}
	if !m.def.HasTransition(key) {
		return Handle{}, NewErrUnknownTransition(key)
	}
	return m.hooks.add(kind, transitionHookKey(key), false, hook), nil
}

// OnSet registers a hook fired whenever the machine becomes state, via Fire or Set.
func (m *Machine) OnSet(state string, hook Hook) (Handle, error) {
	return m.registerState(KindOnSet, state, hook)
}

// OnEnter registers a hook fired when state is entered.
func (m *Machine) OnEnter(state string, hook Hook) (Handle, error) {
	return m.registerState(KindOnEnter, state, hook)
}

// OnLeave registers a hook fired when state is left.
func (m *Machine) OnLeave(state string, hook Hook) (Handle, error) {
	return m.registerState(KindOnLeave, state, hook)
}

// OnInput registers a hook fired every time input is received by Fire,
// whether or not a transition is taken.
func (m *Machine) OnInput(input string, hook Hook) (Handle, error) {
	if hook == nil {
		return Handle{}, ErrNilHook
	}
	if !m.def.HasInput(input) {
		return Handle{}, NewErrUnknownInput(input)
	}
	return m.hooks.add(KindOnInput, input, false, hook), nil
}

// BeforeTransition registers a hook fired before on_leave of a matching Fire transition.
func (m *Machine) BeforeTransition(key TransitionKey, hook Hook) (Handle, error) {
	return m.registerTransition(KindBeforeTransition, key, hook)
}

// OnTransition registers a hook fired between on_leave and on_enter of a matching Fire transition.
func (m *Machine) OnTransition(key TransitionKey, hook Hook) (Handle, error) {
	return m.registerTransition(KindOnTransition, key, hook)
}

// AfterTransition registers a hook fired last for a matching Fire transition.
func (m *Machine) AfterTransition(key TransitionKey, hook Hook) (Handle, error) {
	return m.registerTransition(KindAfterTransition, key, hook)
}

// OnStateChange registers an on_set hook for every state. Observers use it to
// republish the current state.
func (m *Machine) OnStateChange(hook Hook) (Handle, error) {
	if hook == nil {
		return Handle{}, ErrNilHook
	}
	return m.hooks.add(KindOnSet, "", true, hook), nil
}

// RemoveHook detaches a previously registered hook. It reports whether the hook was found.
func (m *Machine) RemoveHook(h Handle) bool {
	return m.hooks.remove(h)
}

// HookCount returns the number of hooks registered in a category.
func (m *Machine) HookCount(kind HookKind) int {
	if int(kind) >= hookKindCount {
		return 0
	}
	return m.hooks.count(kind)
}
