package config

import "errors"

// ErrConfiguration marks malformed or inconsistent configuration documents.
// All configuration validation failures unwrap to this sentinel so callers can
// distinguish fatal configuration problems from runtime errors.
var ErrConfiguration = errors.New("configuration error")

// Error is a configuration validation failure with a human-readable message.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return "configuration error: " + e.Msg
}

// Unwrap makes every *Error match ErrConfiguration via errors.Is.
func (e *Error) Unwrap() error {
	return ErrConfiguration
}
