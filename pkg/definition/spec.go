package definition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the YAML document describing one machine.
type File struct {
	Name         string      `yaml:"name"`
	InitialState string      `yaml:"initial_state"`
	Diagram      bool        `yaml:"diagram"`
	States       []StateSpec `yaml:"states"`
	Inputs       []InputSpec `yaml:"inputs"`
}

// StateSpec declares a state and the actions bound to it.
type StateSpec struct {
	Name    string `yaml:"name"`
	OnSet   Names  `yaml:"on_set"`
	OnEnter Names  `yaml:"on_enter"`
	OnLeave Names  `yaml:"on_leave"`
}

// InputSpec declares an input, its on_input actions and the transitions it triggers.
type InputSpec struct {
	Name        string           `yaml:"name"`
	Action      Names            `yaml:"action"`
	Transitions []TransitionSpec `yaml:"transitions"`
}

// TransitionSpec declares one transition of the enclosing input.
type TransitionSpec struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Guard  string `yaml:"guard"`
	Before Names  `yaml:"before"`
	Action Names  `yaml:"action"`
	After  Names  `yaml:"after"`
}

// Names is a list of action names written either as a single string or a sequence.
type Names []string

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value == "" {
			*n = nil
			return nil
		}
		*n = Names{value.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*n = names
		return nil
	default:
		return fmt.Errorf("line %d: expected action name or list of names", value.Line)
	}
}

func (s *StateSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StateSpec{Name: value.Value}
		return nil
	}
	type plain StateSpec
	return value.Decode((*plain)(s))
}

func (s *InputSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = InputSpec{Name: value.Value}
		return nil
	}
	type plain InputSpec
	return value.Decode((*plain)(s))
}

func (s *TransitionSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t, err := ParseTransition(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*s = t
		return nil
	}
	type plain TransitionSpec
	return value.Decode((*plain)(s))
}

// ParseTransition parses the "FROM -> TO" shorthand.
func ParseTransition(s string) (TransitionSpec, error) {
	from, to, ok := strings.Cut(s, "->")
	if !ok {
		return TransitionSpec{}, fmt.Errorf("%w: %q", ErrMalformedTransition, s)
	}
	t := TransitionSpec{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}
	if t.From == "" || t.To == "" {
		return TransitionSpec{}, fmt.Errorf("%w: %q", ErrMalformedTransition, s)
	}
	return t, nil
}

// validate checks structure and references to registry entries.
// Uniqueness and state references are checked when the definition is built.
func (f *File) validate(reg *Registry) error {
	if len(f.States) == 0 {
		return ErrNoStates
	}
	if len(f.Inputs) == 0 {
		return ErrNoInputs
	}

	for i, s := range f.States {
		if s.Name == "" {
			return fmt.Errorf("states[%d]: %w", i, ErrEmptyName)
		}
		for _, names := range []Names{s.OnSet, s.OnEnter, s.OnLeave} {
			if err := reg.checkHooks(names); err != nil {
				return fmt.Errorf("state %q: %w", s.Name, err)
			}
		}
	}

	for i, in := range f.Inputs {
		if in.Name == "" {
			return fmt.Errorf("inputs[%d]: %w", i, ErrEmptyName)
		}
		if err := reg.checkHooks(in.Action); err != nil {
			return fmt.Errorf("input %q: %w", in.Name, err)
		}
		for j, t := range in.Transitions {
			if t.From == "" || t.To == "" {
				return fmt.Errorf("input %q transitions[%d]: from and to are required", in.Name, j)
			}
			if t.Guard != "" {
				if _, ok := reg.guard(t.Guard); !ok {
					return fmt.Errorf("input %q transition %s -> %s: %w %q", in.Name, t.From, t.To, ErrUnknownGuard, t.Guard)
				}
			}
			for _, names := range []Names{t.Before, t.Action, t.After} {
				if err := reg.checkHooks(names); err != nil {
					return fmt.Errorf("input %q transition %s -> %s: %w", in.Name, t.From, t.To, err)
				}
			}
		}
	}
	return nil
}
