package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

func TestNewDefinition(t *testing.T) {
	t.Parallel()

	t.Run("defaults initial state to first declared", func(t *testing.T) {
		t.Parallel()
		def, err := statemachine.NewDefinition(
			statemachine.WithStates("idle", "running"),
			statemachine.WithInputs("start"),
			statemachine.WithTransition("idle", "start", "running"),
		)
		require.NoError(t, err)
		assert.Equal(t, "idle", def.Initial())
		assert.Equal(t, []string{"idle", "running"}, def.States())
		assert.Equal(t, []string{"start"}, def.Inputs())
	})

	t.Run("explicit initial state", func(t *testing.T) {
		t.Parallel()
		def, err := statemachine.NewDefinition(
			statemachine.WithName("job"),
			statemachine.WithStates("idle", "running"),
			statemachine.WithInitialState("running"),
		)
		require.NoError(t, err)
		assert.Equal(t, "running", def.Initial())
		assert.Equal(t, "job", def.Name())
	})

	t.Run("transitions keep declaration order and index", func(t *testing.T) {
		t.Parallel()
		def := statemachine.MustNewDefinition(
			statemachine.WithStates("a", "b", "c"),
			statemachine.WithInputs("x"),
			statemachine.WithTransition("a", "x", "c", statemachine.WithGuardLabel("late")),
			statemachine.WithTransition("a", "x", "b"),
		)
		ts := def.Transitions()
		require.Len(t, ts, 2)
		assert.Equal(t, "c", ts[0].To)
		assert.Equal(t, 0, ts[0].Index())
		assert.Equal(t, "late", ts[0].GuardLabel)
		assert.Equal(t, "b", ts[1].To)
		assert.Equal(t, 1, ts[1].Index())
	})

	t.Run("accessors return copies", func(t *testing.T) {
		t.Parallel()
		def := statemachine.MustNewDefinition(statemachine.WithStates("a", "b"))
		states := def.States()
		states[0] = "mutated"
		assert.Equal(t, "a", def.States()[0])
	})

	t.Run("states may be declared after transitions", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.NewDefinition(
			statemachine.WithTransition("a", "x", "b"),
			statemachine.WithInputs("x"),
			statemachine.WithStates("a", "b"),
		)
		require.NoError(t, err)
	})
}

func TestNewDefinitionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []statemachine.DefinitionOption
		check func(t *testing.T, err error)
	}{
		{
			name: "no states",
			opts: []statemachine.DefinitionOption{statemachine.WithInputs("x")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, statemachine.ErrNoStates)
			},
		},
		{
			name: "duplicate state",
			opts: []statemachine.DefinitionOption{statemachine.WithStates("a", "b", "a")},
			check: func(t *testing.T, err error) {
				var dup *statemachine.ErrDuplicateName
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "state", dup.Kind)
				assert.Equal(t, "a", dup.Name)
			},
		},
		{
			name: "duplicate input",
			opts: []statemachine.DefinitionOption{
				statemachine.WithStates("a"),
				statemachine.WithInputs("x", "x"),
			},
			check: func(t *testing.T, err error) {
				var dup *statemachine.ErrDuplicateName
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "input", dup.Kind)
			},
		},
		{
			name: "undefined to state",
			opts: []statemachine.DefinitionOption{
				statemachine.WithStates("a"),
				statemachine.WithInputs("a"),
				statemachine.WithTransition("a", "a", "missing"),
			},
			check: func(t *testing.T, err error) {
				var undef *statemachine.ErrUndefinedState
				require.ErrorAs(t, err, &undef)
				assert.Equal(t, "missing", undef.StateName)
				assert.Equal(t, "to", undef.Role)
				assert.Equal(t, "a", undef.InputName)
			},
		},
		{
			name: "undefined from state",
			opts: []statemachine.DefinitionOption{
				statemachine.WithStates("a"),
				statemachine.WithInputs("x"),
				statemachine.WithTransition("ghost", "x", "a"),
			},
			check: func(t *testing.T, err error) {
				var undef *statemachine.ErrUndefinedState
				require.ErrorAs(t, err, &undef)
				assert.Equal(t, "from", undef.Role)
			},
		},
		{
			name: "undefined input",
			opts: []statemachine.DefinitionOption{
				statemachine.WithStates("a"),
				statemachine.WithTransition("a", "nope", "a"),
			},
			check: func(t *testing.T, err error) {
				var undef *statemachine.ErrUndefinedInput
				require.ErrorAs(t, err, &undef)
				assert.Equal(t, "nope", undef.InputName)
			},
		},
		{
			name: "undefined initial state",
			opts: []statemachine.DefinitionOption{
				statemachine.WithStates("a"),
				statemachine.WithInitialState("b"),
			},
			check: func(t *testing.T, err error) {
				var undef *statemachine.ErrUndefinedState
				require.ErrorAs(t, err, &undef)
				assert.Equal(t, "initial", undef.Role)
			},
		},
		{
			name: "empty bulk transition",
			opts: []statemachine.DefinitionOption{
				statemachine.WithStates("a"),
				statemachine.WithTransitions([]statemachine.TransitionDef{{From: "a", To: "a"}}),
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "transition[0]")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			def, err := statemachine.NewDefinition(tt.opts...)
			require.Error(t, err)
			assert.Nil(t, def)
			assert.True(t, statemachine.IsInvalidDefinitionError(err), "expected invalid definition, got %v", err)
			tt.check(t, err)
		})
	}
}

func TestMustNewDefinitionPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		statemachine.MustNewDefinition()
	})
}

func TestDefinitionResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guardErr := errors.New("sensor offline")
	var evaluated []string

	guard := func(name string, result bool, err error) statemachine.TransitionOption {
		return statemachine.WithGuardFunc(func(context.Context) (bool, error) {
			evaluated = append(evaluated, name)
			return result, err
		})
	}

	def := statemachine.MustNewDefinition(
		statemachine.WithStates("a", "b", "c", "d"),
		statemachine.WithInputs("x", "y", "z"),
		statemachine.WithTransition("a", "x", "b", guard("g1", false, nil)),
		statemachine.WithTransition("a", "x", "c", guard("g2", true, nil)),
		statemachine.WithTransition("a", "x", "d"),
		statemachine.WithTransition("a", "y", "b", guard("g3", false, guardErr)),
		statemachine.WithTransition("a", "y", "c"),
	)

	t.Run("first eligible candidate wins", func(t *testing.T) {
		evaluated = nil
		tr, ok, err := def.Resolve(ctx, "a", "x")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "c", tr.To)
		assert.Equal(t, []string{"g1", "g2"}, evaluated)
	})

	t.Run("guard error aborts resolution", func(t *testing.T) {
		evaluated = nil
		_, ok, err := def.Resolve(ctx, "a", "y")
		assert.False(t, ok)
		assert.True(t, statemachine.IsGuardFailedError(err))
		assert.ErrorIs(t, err, guardErr)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok, err := def.Resolve(ctx, "b", "x")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown names", func(t *testing.T) {
		_, _, err := def.Resolve(ctx, "nowhere", "x")
		assert.True(t, statemachine.IsUnknownStateError(err))
		_, _, err = def.Resolve(ctx, "a", "nothing")
		assert.True(t, statemachine.IsUnknownInputError(err))
	})

	t.Run("has transition by key", func(t *testing.T) {
		assert.True(t, def.HasTransition(statemachine.TransitionKey{From: "a", Input: "x", To: "d"}))
		assert.False(t, def.HasTransition(statemachine.TransitionKey{From: "a", Input: "z", To: "d"}))
	})
}
