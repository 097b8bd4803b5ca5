package nlp

import "errors"

var (
	// ErrEmptyInput is returned when a caller provides no text to work on.
	ErrEmptyInput = errors.New("no text provided")

	// ErrModelUnavailable is returned when the active model tier lacks a
	// requested capability, e.g. vector similarity on the blank pipeline.
	ErrModelUnavailable = errors.New("active model does not support this capability")
)
