package statemachine

import (
	"fmt"
)

// Builder provides a fluent API for building definitions.
// Errors are collected and reported by Build.
type Builder struct {
	opts         []DefinitionOption
	currentFrom  string
	currentInput string
	currentTo    string
	guard        Guard
	guardLabel   string
	err          error
}

// NewBuilder creates a new definition builder for a machine called name.
func NewBuilder(name string) *Builder {
	return &Builder{
		opts: []DefinitionOption{WithName(name)},
	}
}

// States declares states in order.
func (b *Builder) States(names ...string) *Builder {
	b.opts = append(b.opts, WithStates(names...))
	return b
}

// Inputs declares inputs in order.
func (b *Builder) Inputs(names ...string) *Builder {
	b.opts = append(b.opts, WithInputs(names...))
	return b
}

// Initial overrides the initial state.
func (b *Builder) Initial(name string) *Builder {
	b.opts = append(b.opts, WithInitialState(name))
	return b
}

// From sets the starting state for a transition.
func (b *Builder) From(state string) *Builder {
	b.reset()
	b.currentFrom = state
	return b
}

// On sets the input that triggers a transition.
func (b *Builder) On(input string) *Builder {
	b.currentInput = input
	return b
}

// To sets the target state for a transition.
func (b *Builder) To(state string) *Builder {
	b.currentTo = state
	return b
}

// WithGuard sets the guard of the current transition.
func (b *Builder) WithGuard(label string, guard Guard) *Builder {
	b.guard = guard
	b.guardLabel = label
	return b
}

// Add finalizes the current transition.
func (b *Builder) Add() *Builder {
	if b.currentFrom == "" || b.currentInput == "" || b.currentTo == "" {
		if b.err == nil {
			b.err = fmt.Errorf("%w: incomplete transition %q -(%q)-> %q",
				ErrInvalidDefinition, b.currentFrom, b.currentInput, b.currentTo)
		}
		b.reset()
		return b
	}

	b.opts = append(b.opts, WithTransition(b.currentFrom, b.currentInput, b.currentTo,
		WithGuard(b.guard),
		WithGuardLabel(b.guardLabel),
	))
	b.reset()
	return b
}

// Transition is a shorthand to add an unguarded transition in one call.
func (b *Builder) Transition(from, input, to string) *Builder {
	return b.From(from).On(input).To(to).Add()
}

// Build returns the validated definition.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewDefinition(b.opts...)
}

// reset clears the current transition configuration.
func (b *Builder) reset() {
	b.currentFrom = ""
	b.currentInput = ""
	b.currentTo = ""
	b.guard = nil
	b.guardLabel = ""
}
