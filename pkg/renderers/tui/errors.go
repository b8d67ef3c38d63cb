package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a field is still invalid after the
	// configured number of prompts.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
	// ErrInvalidForm is returned when the collected form fails validation as a
	// whole, for example on cross-field rules.
	ErrInvalidForm = errors.New("tui: form is invalid")
)
