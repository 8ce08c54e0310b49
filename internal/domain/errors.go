package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a practice session has not been opened.
	ErrSessionNotFound = errors.New("practice session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrUnknownEvent is returned for an event name the state machine does not know.
	ErrUnknownEvent = errors.New("unknown practice event")
	// ErrInvalidBank wraps validation problems found in a question bank.
	ErrInvalidBank = errors.New("invalid question bank")
)
