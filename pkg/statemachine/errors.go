package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition = errors.New("invalid state machine definition")
	ErrNoStates          = fmt.Errorf("%w: at least one state must be declared", ErrInvalidDefinition)
	ErrNilDefinition     = errors.New("state machine definition cannot be nil")
	ErrNilHook           = errors.New("hook cannot be nil")
	ErrReentrantCall     = errors.New("state machine is already dispatching: Fire/Set called from a hook")
)

// ErrDuplicateName indicates a state or input declared more than once.
type ErrDuplicateName struct {
	Kind string // "state" or "input"
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("duplicate %s name '%s'", e.Kind, e.Name)
}

func (e *ErrDuplicateName) Unwrap() error {
	return ErrInvalidDefinition
}

func NewErrDuplicateName(kind, name string) *ErrDuplicateName {
	return &ErrDuplicateName{Kind: kind, Name: name}
}

// ErrUndefinedState indicates a transition or the initial state referencing an undeclared state.
type ErrUndefinedState struct {
	StateName string
	Role      string // "from", "to" or "initial"
	InputName string
}

func (e *ErrUndefinedState) Error() string {
	if e.InputName == "" {
		return fmt.Sprintf("undefined %s state '%s'", e.Role, e.StateName)
	}
	return fmt.Sprintf("undefined %s state '%s' used in transition for input '%s'", e.Role, e.StateName, e.InputName)
}

func (e *ErrUndefinedState) Unwrap() error {
	return ErrInvalidDefinition
}

func NewErrUndefinedState(stateName, role, inputName string) *ErrUndefinedState {
	return &ErrUndefinedState{StateName: stateName, Role: role, InputName: inputName}
}

// ErrUndefinedInput indicates a transition referencing an undeclared input.
type ErrUndefinedInput struct {
	InputName string
}

func (e *ErrUndefinedInput) Error() string {
	return fmt.Sprintf("undefined input '%s' used in transition", e.InputName)
}

func (e *ErrUndefinedInput) Unwrap() error {
	return ErrInvalidDefinition
}

func NewErrUndefinedInput(inputName string) *ErrUndefinedInput {
	return &ErrUndefinedInput{InputName: inputName}
}

// ErrUnknownState is returned when Set or a registration names an undeclared state.
type ErrUnknownState struct {
	StateName string
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("unknown state '%s'", e.StateName)
}

func NewErrUnknownState(stateName string) *ErrUnknownState {
	return &ErrUnknownState{StateName: stateName}
}

// ErrUnknownInput is returned when Fire or a registration names an undeclared input.
type ErrUnknownInput struct {
	InputName string
}

func (e *ErrUnknownInput) Error() string {
	return fmt.Sprintf("unknown input '%s'", e.InputName)
}

func NewErrUnknownInput(inputName string) *ErrUnknownInput {
	return &ErrUnknownInput{InputName: inputName}
}

// ErrUnknownTransition is returned when a hook is registered for a transition that was never declared.
type ErrUnknownTransition struct {
	Key TransitionKey
}

func (e *ErrUnknownTransition) Error() string {
	return fmt.Sprintf("unknown transition %s", e.Key)
}

func NewErrUnknownTransition(key TransitionKey) *ErrUnknownTransition {
	return &ErrUnknownTransition{Key: key}
}

// ErrGuardFailed wraps an error returned by a guard. State is unchanged.
type ErrGuardFailed struct {
	Transition Transition
	Err        error
}

func (e *ErrGuardFailed) Error() string {
	return fmt.Sprintf("guard of transition %s failed: %v", e.Transition, e.Err)
}

func (e *ErrGuardFailed) Unwrap() error {
	return e.Err
}

func NewErrGuardFailed(t Transition, err error) *ErrGuardFailed {
	return &ErrGuardFailed{Transition: t, Err: err}
}

// ErrHookFailed wraps an error returned by a hook.
// Committed reports whether the state change had already been applied when the hook failed.
type ErrHookFailed struct {
	Kind      HookKind
	Key       string
	Committed bool
	Err       error
}

func (e *ErrHookFailed) Error() string {
	return fmt.Sprintf("%s hook for '%s' failed: %v", e.Kind, e.Key, e.Err)
}

func (e *ErrHookFailed) Unwrap() error {
	return e.Err
}

func NewErrHookFailed(kind HookKind, key string, committed bool, err error) *ErrHookFailed {
	return &ErrHookFailed{Kind: kind, Key: key, Committed: committed, Err: err}
}

func IsInvalidDefinitionError(err error) bool {
	return errors.Is(err, ErrInvalidDefinition)
}

func IsUnknownStateError(err error) bool {
	var e *ErrUnknownState
	return errors.As(err, &e)
}

func IsUnknownInputError(err error) bool {
	var e *ErrUnknownInput
	return errors.As(err, &e)
}

func IsGuardFailedError(err error) bool {
	var e *ErrGuardFailed
	return errors.As(err, &e)
}

func IsHookFailedError(err error) bool {
	var e *ErrHookFailed
	return errors.As(err, &e)
}
