// Package apperr defines the error taxonomy shared by all services.
// The presentation layer maps these sentinels to status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidInput marks bad caller-supplied data: empty content, unknown
	// direction, empty intent. Recoverable by re-prompting the user.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced contact or conversation that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGenerationFailed marks any failure of the external generation
	// capability. Never retried inside the core.
	ErrGenerationFailed = errors.New("generation failed")
)
