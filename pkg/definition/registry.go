package definition

import (
	"fmt"

	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

// Registry maps the action and guard names used in a file to implementations.
// A Registry belongs to the caller and is consulted only during Load and
// Blueprint.NewMachine; nothing is kept globally.
type Registry struct {
	hooks  map[string]statemachine.Hook
	guards map[string]statemachine.Guard
}

func NewRegistry() *Registry {
	return &Registry{
		hooks:  make(map[string]statemachine.Hook),
		guards: make(map[string]statemachine.Guard),
	}
}

// Hook registers an action under name. Later registrations replace earlier ones.
func (r *Registry) Hook(name string, hook statemachine.Hook) *Registry {
	if name != "" && hook != nil {
		r.hooks[name] = hook
	}
	return r
}

// Guard registers a guard under name. Later registrations replace earlier ones.
func (r *Registry) Guard(name string, guard statemachine.Guard) *Registry {
	if name != "" && guard != nil {
		r.guards[name] = guard
	}
	return r
}

func (r *Registry) hook(name string) (statemachine.Hook, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.hooks[name]
	return h, ok
}

func (r *Registry) guard(name string) (statemachine.Guard, bool) {
	if r == nil {
		return nil, false
	}
	g, ok := r.guards[name]
	return g, ok
}

func (r *Registry) checkHooks(names Names) error {
	for _, name := range names {
		if _, ok := r.hook(name); !ok {
			return fmt.Errorf("%w %q", ErrUnknownAction, name)
		}
	}
	return nil
}
