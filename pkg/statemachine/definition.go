package statemachine

import (
	"fmt"
	"slices"
)

// Definition is the immutable description of a state machine.
// It is safe to share one Definition between any number of machines.
type Definition struct {
	name        string
	states      []string
	inputs      []string
	transitions []Transition
	initial     string

	stateSet map[string]struct{}
	inputSet map[string]struct{}
	// candidates holds transition indices per (from, input), in declaration order
	candidates map[candidateKey][]int
}

type candidateKey struct {
	from  string
	input string
}

// NewDefinition builds and validates a definition.
// The initial state defaults to the first declared state.
func NewDefinition(opts ...DefinitionOption) (*Definition, error) {
	d := &Definition{
		stateSet:   make(map[string]struct{}),
		inputSet:   make(map[string]struct{}),
		candidates: make(map[candidateKey][]int),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if err := d.validate(); err != nil {
		return nil, err
	}

	for i := range d.transitions {
		t := &d.transitions[i]
		t.index = i
		k := candidateKey{from: t.From, input: t.Input}
		d.candidates[k] = append(d.candidates[k], i)
	}

	return d, nil
}

// MustNewDefinition is like NewDefinition but panics on an invalid definition.
func MustNewDefinition(opts ...DefinitionOption) *Definition {
	d, err := NewDefinition(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine definition: %v", err))
	}
	return d
}

func (d *Definition) addState(name string) error {
	if _, ok := d.stateSet[name]; ok {
		return NewErrDuplicateName("state", name)
	}
	d.stateSet[name] = struct{}{}
	d.states = append(d.states, name)
	return nil
}

func (d *Definition) addInput(name string) error {
	if _, ok := d.inputSet[name]; ok {
		return NewErrDuplicateName("input", name)
	}
	d.inputSet[name] = struct{}{}
	d.inputs = append(d.inputs, name)
	return nil
}

func (d *Definition) validate() error {
	if len(d.states) == 0 {
		return ErrNoStates
	}

	if d.initial == "" {
		d.initial = d.states[0]
	} else if !d.HasState(d.initial) {
		return NewErrUndefinedState(d.initial, "initial", "")
	}

	for _, t := range d.transitions {
		if !d.HasInput(t.Input) {
			return NewErrUndefinedInput(t.Input)
		}
		if !d.HasState(t.From) {
			return NewErrUndefinedState(t.From, "from", t.Input)
		}
		if !d.HasState(t.To) {
			return NewErrUndefinedState(t.To, "to", t.Input)
		}
	}

	return nil
}

func (d *Definition) Name() string {
	return d.name
}

// Initial returns the state a new machine starts in.
func (d *Definition) Initial() string {
	return d.initial
}

// States returns the declared states in declaration order.
func (d *Definition) States() []string {
	return slices.Clone(d.states)
}

// Inputs returns the declared inputs in declaration order.
func (d *Definition) Inputs() []string {
	return slices.Clone(d.inputs)
}

// Transitions returns the declared transitions in declaration order.
func (d *Definition) Transitions() []Transition {
	return slices.Clone(d.transitions)
}

func (d *Definition) HasState(name string) bool {
	_, ok := d.stateSet[name]
	return ok
}

func (d *Definition) HasInput(name string) bool {
	_, ok := d.inputSet[name]
	return ok
}

// HasTransition reports whether at least one declared transition matches key.
func (d *Definition) HasTransition(key TransitionKey) bool {
	for _, i := range d.candidates[candidateKey{from: key.From, input: key.Input}] {
		if d.transitions[i].To == key.To {
			return true
		}
	}
	return false
}

// candidatesFor returns the transitions leaving from on input, in declaration order.
func (d *Definition) candidatesFor(from, input string) []int {
	return d.candidates[candidateKey{from: from, input: input}]
}
