package domain

import "errors"

var (
	// ErrNotFound signals a missing entity, typically reached through a
	// stale inline button.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered signals a duplicate (user, event) registration.
	ErrAlreadyRegistered = errors.New("already registered for event")

	// ErrQuestionAnswered signals an attempt to answer a question twice.
	ErrQuestionAnswered = errors.New("question already answered")

	// ErrInvalidInput signals input rejected by a validator.
	ErrInvalidInput = errors.New("invalid input")
)
