package chat

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("message not found")
)
