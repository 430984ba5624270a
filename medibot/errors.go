package medibot

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned when an operation needs a signed-in
	// user and none is available.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNotFound is returned when an id does not reference a known record.
	// Selecting or deleting an unknown conversation is a caller bug, not a
	// condition to recover from.
	ErrNotFound = errors.New("not found")

	// ErrEmptyMessage is returned when a message is empty after trimming.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrAlreadyAccepted is returned when a patient request has already been
	// accepted by the doctor.
	ErrAlreadyAccepted = errors.New("request already accepted")

	// ErrIncompleteDoctor is returned when a doctor record is missing fields.
	ErrIncompleteDoctor = errors.New("all doctor fields are required, including picture")
)

// APIError is an error response from the Medibot backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("medibot error %d: %s", e.StatusCode, e.Message)
}
