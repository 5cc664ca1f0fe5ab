package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/fsmkit/pkg/diagram"
	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

// Option configures a single Load call.
type Option func(*loader)

type loader struct {
	registry *Registry
	logger   *slog.Logger
	source   string
}

// WithRegistry supplies the actions and guards referenced by the file.
func WithRegistry(reg *Registry) Option {
	return func(l *loader) {
		if reg != nil {
			l.registry = reg
		}
	}
}

// WithLogger sets the logger used to report the loaded definition.
func WithLogger(log *slog.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithSource names the document in errors and log lines.
func WithSource(name string) Option {
	return func(l *loader) {
		l.source = name
	}
}

// Blueprint is a validated file bound to its registry. It creates machines
// with every action from the file attached.
type Blueprint struct {
	Spec       *File
	Definition *statemachine.Definition

	registry *Registry
}

// Load decodes, validates and compiles a YAML document.
func Load(data []byte, opts ...Option) (*Blueprint, error) {
	l := &loader{
		registry: NewRegistry(),
		logger:   logger.NewNop(),
		source:   "<inline>",
	}
	for _, opt := range opts {
		opt(l)
	}

	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, l.fail(err)
	}
	if err := f.validate(l.registry); err != nil {
		return nil, l.fail(err)
	}

	def, err := f.compile(l.registry)
	if err != nil {
		return nil, l.fail(err)
	}

	log := l.logger.With(logger.Component("definition"), logger.Definition(l.source), logger.Machine(def.Name()))
	log.Debug("definition loaded",
		slog.Int("states", len(def.States())),
		slog.Int("inputs", len(def.Inputs())),
		slog.Int("transitions", len(def.Transitions())),
	)
	if f.Diagram {
		dot := diagram.DOT(def)
		log.Info("state machine diagram",
			slog.String("url", diagram.QuickChartURL(dot)),
			slog.String("dot", dot),
		)
	}

	return &Blueprint{Spec: f, Definition: def, registry: l.registry}, nil
}

// LoadFile reads path and loads it. The path is used as the source name
// unless WithSource overrides it.
func LoadFile(path string, opts ...Option) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return Load(data, append([]Option{WithSource(path)}, opts...)...)
}

// Decode parses a YAML document without resolving names.
// Unknown keys at the top level are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoStates
		}
		return nil, err
	}
	return &f, nil
}

func (l *loader) fail(err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidFile, l.source, err)
}

// compile builds the definition. Transitions are declared input by input in
// file order, which fixes their resolution priority.
func (f *File) compile(reg *Registry) (*statemachine.Definition, error) {
	states := make([]string, 0, len(f.States))
	for _, s := range f.States {
		states = append(states, s.Name)
	}
	inputs := make([]string, 0, len(f.Inputs))
	for _, in := range f.Inputs {
		inputs = append(inputs, in.Name)
	}

	opts := []statemachine.DefinitionOption{
		statemachine.WithName(f.Name),
		statemachine.WithStates(states...),
		statemachine.WithInputs(inputs...),
	}
	if f.InitialState != "" {
		opts = append(opts, statemachine.WithInitialState(f.InitialState))
	}

	for _, in := range f.Inputs {
		for _, t := range in.Transitions {
			var topts []statemachine.TransitionOption
			if t.Guard != "" {
				g, _ := reg.guard(t.Guard)
				topts = append(topts, statemachine.WithGuard(g), statemachine.WithGuardLabel(t.Guard))
			}
			opts = append(opts, statemachine.WithTransition(t.From, in.Name, t.To, topts...))
		}
	}

	return statemachine.NewDefinition(opts...)
}

// NewMachine creates a machine for the blueprint and attaches the file's
// actions. Within each category hooks are attached in file order: transition
// actions and input actions first, then on_leave, on_enter and on_set.
func (b *Blueprint) NewMachine(opts ...statemachine.Option) (*statemachine.Machine, error) {
	m, err := statemachine.New(b.Definition, opts...)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Attach registers the file's actions on m. m must use the blueprint's definition.
func (b *Blueprint) Attach(m *statemachine.Machine) error {
	f := b.Spec

	for _, in := range f.Inputs {
		for _, t := range in.Transitions {
			key := statemachine.TransitionKey{From: t.From, Input: in.Name, To: t.To}
			if err := b.attach(t.Before, func(h statemachine.Hook) (statemachine.Handle, error) {
				return m.BeforeTransition(key, h)
			}); err != nil {
				return err
			}
			if err := b.attach(t.Action, func(h statemachine.Hook) (statemachine.Handle, error) {
				return m.OnTransition(key, h)
			}); err != nil {
				return err
			}
			if err := b.attach(t.After, func(h statemachine.Hook) (statemachine.Handle, error) {
				return m.AfterTransition(key, h)
			}); err != nil {
				return err
			}
		}
		name := in.Name
		if err := b.attach(in.Action, func(h statemachine.Hook) (statemachine.Handle, error) {
			return m.OnInput(name, h)
		}); err != nil {
			return err
		}
	}

	for _, s := range f.States {
		name := s.Name
		if err := b.attach(s.OnLeave, func(h statemachine.Hook) (statemachine.Handle, error) {
			return m.OnLeave(name, h)
		}); err != nil {
			return err
		}
	}
	for _, s := range f.States {
		name := s.Name
		if err := b.attach(s.OnEnter, func(h statemachine.Hook) (statemachine.Handle, error) {
			return m.OnEnter(name, h)
		}); err != nil {
			return err
		}
	}
	for _, s := range f.States {
		name := s.Name
		if err := b.attach(s.OnSet, func(h statemachine.Hook) (statemachine.Handle, error) {
			return m.OnSet(name, h)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (b *Blueprint) attach(names Names, register func(statemachine.Hook) (statemachine.Handle, error)) error {
	for _, name := range names {
		h, ok := b.registry.hook(name)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownAction, name)
		}
		if _, err := register(h); err != nil {
			return fmt.Errorf("attach action %q: %w", name, err)
		}
	}
	return nil
}
