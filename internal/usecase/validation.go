package usecase

import "errors"

// ErrValidation marks request payloads that fail input validation. Callers
// wrap it with the specific field problem.
var ErrValidation = errors.New("validation failed")
