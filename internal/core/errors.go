package core

import (
	"errors"

	"github.com/Rorical/RoriChat/internal/genclient"
)

var (
	// ErrValidation marks malformed local input, rejected before any
	// external call.
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredential is returned when the generation backend rejects
	// a candidate key.
	ErrInvalidCredential = genclient.ErrInvalidCredential

	// ErrGenerationFailure tags failed completions in logs. It never
	// reaches callers: the fallback reply is appended instead.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrAlreadyInProgress rejects an operation while a validation or a
	// completion is in flight.
	ErrAlreadyInProgress = errors.New("operation already in progress")

	// ErrNoCredential rejects sends before any key has been validated.
	ErrNoCredential = errors.New("no validated API key")

	ErrUnknownModel = errors.New("unknown model")
)
