package statemachine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

const (
	Idle    = "Idle"
	Running = "Running"
	Done    = "Done"

	Start  = "start"
	Finish = "finish"
)

func newJobDefinition(t *testing.T) *statemachine.Definition {
	t.Helper()
	def, err := statemachine.NewDefinition(
		statemachine.WithName("job"),
		statemachine.WithStates(Idle, Running, Done),
		statemachine.WithInputs(Start, Finish),
		statemachine.WithTransition(Idle, Start, Running),
		statemachine.WithTransition(Running, Finish, Done),
		statemachine.WithInitialState(Idle),
	)
	require.NoError(t, err)
	return def
}

// recorder collects hook invocations as "<kind>:<state>" strings.
type recorder struct {
	calls []string
}

func (r *recorder) hook(label string) statemachine.Hook {
	return statemachine.HookFunc(func(ctx context.Context, ev statemachine.Event) error {
		r.calls = append(r.calls, label)
		return nil
	})
}

func (r *recorder) observe() statemachine.Hook {
	return statemachine.HookFunc(func(ctx context.Context, ev statemachine.Event) error {
		r.calls = append(r.calls, fmt.Sprintf("%s@%s", ev.Kind, ev.State))
		return nil
	})
}

func failing(err error) statemachine.Hook {
	return statemachine.HookFunc(func(context.Context, statemachine.Event) error {
		return err
	})
}

func mustHandle(t *testing.T) func(statemachine.Handle, error) statemachine.Handle {
	return func(h statemachine.Handle, err error) statemachine.Handle {
		t.Helper()
		require.NoError(t, err)
		require.False(t, h.IsZero())
		return h
	}
}

func TestMachineScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, err := statemachine.New(newJobDefinition(t))
	require.NoError(t, err)
	assert.Equal(t, Idle, m.Current())
	assert.Equal(t, "job", m.Name())

	ok, err := m.Fire(ctx, Start)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Running, m.Current())

	ok, err = m.Fire(ctx, Finish)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Done, m.Current())

	ok, err = m.Fire(ctx, Start)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Done, m.Current())
}

func TestMachineUnguardedTransitionsAlwaysReachTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	def := newJobDefinition(t)

	for _, tr := range def.Transitions() {
		t.Run(tr.String(), func(t *testing.T) {
			m := statemachine.MustNew(def)
			require.NoError(t, m.Set(ctx, tr.From))

			ok, err := m.Fire(ctx, tr.Input)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tr.To, m.Current())

			last, has := m.LastTransition()
			require.True(t, has)
			assert.Equal(t, tr.Key(), last.Key())
		})
	}
}

func TestMachineFireHookOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(newJobDefinition(t))
	must := mustHandle(t)
	rec := &recorder{}
	key := statemachine.TransitionKey{From: Idle, Input: Start, To: Running}

	// registered out of order on purpose
	must(m.AfterTransition(key, rec.observe()))
	must(m.OnSet(Running, rec.observe()))
	must(m.OnEnter(Running, rec.observe()))
	must(m.OnTransition(key, rec.observe()))
	must(m.OnLeave(Idle, rec.observe()))
	must(m.BeforeTransition(key, rec.observe()))
	must(m.OnInput(Start, rec.observe()))

	// hooks for other keys must stay silent
	must(m.OnEnter(Done, rec.hook("unexpected")))
	must(m.OnLeave(Running, rec.hook("unexpected")))
	must(m.OnInput(Finish, rec.hook("unexpected")))

	ok, err := m.Fire(ctx, Start)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{
		"on_input@Idle",
		"before_transition@Idle",
		"on_leave@Idle",
		"on_transition@Running",
		"on_enter@Running",
		"on_set@Running",
		"after_transition@Running",
	}, rec.calls)
}

func TestMachineFireEventPayload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(newJobDefinition(t))
	key := statemachine.TransitionKey{From: Idle, Input: Start, To: Running}

	var events []statemachine.Event
	capture := statemachine.HookFunc(func(_ context.Context, ev statemachine.Event) error {
		events = append(events, ev)
		return nil
	})
	mustHandle(t)(m.OnInput(Start, capture))
	mustHandle(t)(m.OnTransition(key, capture))
	mustHandle(t)(m.OnEnter(Running, capture))

	_, err := m.Fire(ctx, Start)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "job", events[0].Machine)
	assert.Equal(t, Start, events[0].Input)
	assert.Nil(t, events[0].Transition)

	require.NotNil(t, events[1].Transition)
	assert.Equal(t, key, events[1].Transition.Key())

	assert.Equal(t, Running, events[2].State)
	assert.Equal(t, Start, events[2].Input)
	assert.Nil(t, events[2].Transition)
}

func TestMachineOnInputFiresWithoutTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(newJobDefinition(t))
	rec := &recorder{}
	mustHandle(t)(m.OnInput(Finish, rec.hook("finish received")))
	mustHandle(t)(m.OnLeave(Idle, rec.hook("left idle")))

	ok, err := m.Fire(ctx, Finish)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Idle, m.Current())
	assert.Equal(t, []string{"finish received"}, rec.calls)

	_, has := m.LastTransition()
	assert.False(t, has)
}

func TestMachineFireUnknownInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(newJobDefinition(t))
	rec := &recorder{}
	mustHandle(t)(m.OnStateChange(rec.hook("changed")))

	ok, err := m.Fire(ctx, "explode")
	assert.False(t, ok)
	var unknown *statemachine.ErrUnknownInput
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "explode", unknown.InputName)
	assert.Equal(t, Idle, m.Current())
	assert.Empty(t, rec.calls)
}

func TestMachineSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fires leave, enter and set only", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		must := mustHandle(t)
		rec := &recorder{}
		key := statemachine.TransitionKey{From: Idle, Input: Start, To: Running}

		must(m.OnInput(Start, rec.observe()))
		must(m.BeforeTransition(key, rec.observe()))
		must(m.OnTransition(key, rec.observe()))
		must(m.AfterTransition(key, rec.observe()))
		must(m.OnLeave(Idle, rec.observe()))
		must(m.OnEnter(Running, rec.observe()))
		must(m.OnSet(Running, rec.observe()))

		require.NoError(t, m.Set(ctx, Running))
		assert.Equal(t, Running, m.Current())
		assert.Equal(t, []string{
			"on_leave@Idle",
			"on_enter@Running",
			"on_set@Running",
		}, rec.calls)

		_, has := m.LastTransition()
		assert.False(t, has, "Set does not record a transition")
	})

	t.Run("self set still runs hooks", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		must := mustHandle(t)
		rec := &recorder{}
		must(m.OnLeave(Idle, rec.hook("leave")))
		must(m.OnEnter(Idle, rec.hook("enter")))
		must(m.OnSet(Idle, rec.hook("set")))

		require.NoError(t, m.Set(ctx, Idle))
		assert.Equal(t, Idle, m.Current())
		assert.Equal(t, []string{"leave", "enter", "set"}, rec.calls)
	})

	t.Run("every declared state is reachable", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		for _, s := range m.Definition().States() {
			require.NoError(t, m.Set(ctx, s))
			assert.Equal(t, s, m.Current())
		}
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		err := m.Set(ctx, "Paused")
		assert.True(t, statemachine.IsUnknownStateError(err))
		assert.Equal(t, Idle, m.Current())
	})

	t.Run("reset returns to initial state", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		rec := &recorder{}
		mustHandle(t)(m.OnSet(Idle, rec.hook("idle again")))

		_, err := m.Fire(ctx, Start)
		require.NoError(t, err)
		require.NoError(t, m.Reset(ctx))
		assert.Equal(t, Idle, m.Current())
		assert.Equal(t, []string{"idle again"}, rec.calls)
	})
}

func TestMachineGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newMachine := func(t *testing.T, first, second bool) *statemachine.Machine {
		def := statemachine.MustNewDefinition(
			statemachine.WithStates("closed", "open", "alarm"),
			statemachine.WithInputs("push"),
			statemachine.WithTransition("closed", "push", "open",
				statemachine.WithGuard(statemachine.Predicate(func(context.Context) bool { return first })),
			),
			statemachine.WithTransition("closed", "push", "alarm",
				statemachine.WithGuard(statemachine.Predicate(func(context.Context) bool { return second })),
			),
		)
		return statemachine.MustNew(def)
	}

	tests := []struct {
		name   string
		first  bool
		second bool
		want   string
		taken  bool
	}{
		{name: "both true takes first declared", first: true, second: true, want: "open", taken: true},
		{name: "only second true", first: false, second: true, want: "alarm", taken: true},
		{name: "only first true", first: true, second: false, want: "open", taken: true},
		{name: "none true", first: false, second: false, want: "closed", taken: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newMachine(t, tt.first, tt.second)

			can, err := m.CanFire(ctx, "push")
			require.NoError(t, err)
			assert.Equal(t, tt.taken, can)

			ok, err := m.Fire(ctx, "push")
			require.NoError(t, err)
			assert.Equal(t, tt.taken, ok)
			assert.Equal(t, tt.want, m.Current())
		})
	}
}

func TestMachineGuardFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	guardErr := errors.New("i2c timeout")

	def := statemachine.MustNewDefinition(
		statemachine.WithStates("a", "b"),
		statemachine.WithInputs("x"),
		statemachine.WithTransition("a", "x", "b", statemachine.WithGuardFunc(func(context.Context) (bool, error) {
			return false, guardErr
		})),
	)
	m := statemachine.MustNew(def)
	rec := &recorder{}
	mustHandle(t)(m.OnInput("x", rec.hook("input")))
	mustHandle(t)(m.OnLeave("a", rec.hook("leave")))

	ok, err := m.Fire(ctx, "x")
	assert.False(t, ok)
	assert.True(t, statemachine.IsGuardFailedError(err))
	assert.ErrorIs(t, err, guardErr)
	assert.Equal(t, "a", m.Current())
	assert.Equal(t, []string{"input"}, rec.calls)
}

func TestMachineHookFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hookErr := errors.New("relay stuck")
	key := statemachine.TransitionKey{From: Idle, Input: Start, To: Running}

	t.Run("before commit leaves state untouched", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		rec := &recorder{}
		mustHandle(t)(m.BeforeTransition(key, rec.hook("before")))
		mustHandle(t)(m.OnLeave(Idle, failing(hookErr)))
		mustHandle(t)(m.OnLeave(Idle, rec.hook("second leave")))
		mustHandle(t)(m.OnEnter(Running, rec.hook("enter")))

		ok, err := m.Fire(ctx, Start)
		assert.True(t, ok)
		require.ErrorIs(t, err, hookErr)

		var hf *statemachine.ErrHookFailed
		require.ErrorAs(t, err, &hf)
		assert.Equal(t, statemachine.KindOnLeave, hf.Kind)
		assert.False(t, hf.Committed)
		assert.Equal(t, Idle, m.Current())
		assert.Equal(t, []string{"before"}, rec.calls)
	})

	t.Run("after commit keeps new state", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		rec := &recorder{}
		mustHandle(t)(m.OnEnter(Running, failing(hookErr)))
		mustHandle(t)(m.OnSet(Running, rec.hook("set")))
		mustHandle(t)(m.AfterTransition(key, rec.hook("after")))

		ok, err := m.Fire(ctx, Start)
		assert.True(t, ok)

		var hf *statemachine.ErrHookFailed
		require.ErrorAs(t, err, &hf)
		assert.Equal(t, statemachine.KindOnEnter, hf.Kind)
		assert.True(t, hf.Committed)
		assert.Equal(t, Running, m.Current())
		assert.Empty(t, rec.calls)

		last, has := m.LastTransition()
		require.True(t, has)
		assert.Equal(t, key, last.Key())
	})

	t.Run("on_input failure stops resolution", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		mustHandle(t)(m.OnInput(Start, failing(hookErr)))

		ok, err := m.Fire(ctx, Start)
		assert.False(t, ok)
		assert.True(t, statemachine.IsHookFailedError(err))
		assert.Equal(t, Idle, m.Current())
	})

	t.Run("set failure in on_set after commit", func(t *testing.T) {
		t.Parallel()
		m := statemachine.MustNew(newJobDefinition(t))
		mustHandle(t)(m.OnSet(Done, failing(hookErr)))

		err := m.Set(ctx, Done)
		require.ErrorIs(t, err, hookErr)
		assert.Equal(t, Done, m.Current())
	})
}

func TestMachineReentrancy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := statemachine.MustNew(newJobDefinition(t))

	var nestedFire, nestedSet error
	mustHandle(t)(m.OnEnter(Running, statemachine.HookFunc(func(ctx context.Context, ev statemachine.Event) error {
		_, nestedFire = m.Fire(ctx, Finish)
		nestedSet = m.Set(ctx, Done)
		assert.Equal(t, Running, m.Current(), "Current is readable from hooks")
		return nil
	})))

	ok, err := m.Fire(ctx, Start)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ErrorIs(t, nestedFire, statemachine.ErrReentrantCall)
	assert.ErrorIs(t, nestedSet, statemachine.ErrReentrantCall)
	assert.Equal(t, Running, m.Current())

	// the guard is released once the call returns
	ok, err = m.Fire(ctx, Finish)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMachineSharedDefinition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	def := newJobDefinition(t)

	first := statemachine.MustNew(def)
	second := statemachine.MustNew(def)
	rec := &recorder{}
	mustHandle(t)(first.OnEnter(Running, rec.hook("first entered")))

	_, err := first.Fire(ctx, Start)
	require.NoError(t, err)

	assert.Equal(t, Running, first.Current())
	assert.Equal(t, Idle, second.Current())

	_, err = second.Fire(ctx, Start)
	require.NoError(t, err)
	assert.Equal(t, []string{"first entered"}, rec.calls)
}

func TestNewMachineNilDefinition(t *testing.T) {
	t.Parallel()
	_, err := statemachine.New(nil)
	assert.ErrorIs(t, err, statemachine.ErrNilDefinition)
	assert.Panics(t, func() { statemachine.MustNew(nil) })
}
