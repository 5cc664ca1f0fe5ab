package sensor

import "errors"

var (
	ErrAlreadyStarted = errors.New("sensor already started")
	ErrPublishFailed  = errors.New("failed to publish state")
)
