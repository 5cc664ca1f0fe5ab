package definition

import "errors"

var (
	ErrInvalidFile         = errors.New("invalid state machine file")
	ErrNoStates            = errors.New("at least one state is required")
	ErrNoInputs            = errors.New("at least one input is required")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrMalformedTransition = errors.New("transition mapping must contain '->'")
	ErrUnknownAction       = errors.New("unknown action")
	ErrUnknownGuard        = errors.New("unknown guard")
	ErrReadFile            = errors.New("failed to read definition file")
)
