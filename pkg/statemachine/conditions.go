package statemachine

import (
	"context"
	"slices"
)

// StateIs returns a guard that passes while m is in one of states.
// It lets one machine's transitions depend on another machine's state.
func StateIs(m *Machine, states ...string) Guard {
	return Predicate(func(context.Context) bool {
		return slices.Contains(states, m.Current())
	})
}

// TransitionFilter selects transitions by endpoint and input. Empty fields match anything.
type TransitionFilter struct {
	From  string
	Input string
	To    string
}

// Match reports whether t satisfies the filter.
func (f TransitionFilter) Match(t Transition) bool {
	if f.From != "" && f.From != t.From {
		return false
	}
	if f.Input != "" && f.Input != t.Input {
		return false
	}
	if f.To != "" && f.To != t.To {
		return false
	}
	return true
}

// LastTransitionMatches returns a guard that passes when the last transition
// taken by m satisfies filter. It fails while m has not transitioned yet.
func LastTransitionMatches(m *Machine, filter TransitionFilter) Guard {
	return Predicate(func(context.Context) bool {
		last, ok := m.LastTransition()
		return ok && filter.Match(last)
	})
}
