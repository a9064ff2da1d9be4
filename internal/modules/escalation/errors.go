package escalation

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("escalation not found")
	ErrInvalidTransition = errors.New("invalid ticket transition")
)
