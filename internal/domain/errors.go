package domain

import (
	"errors"
	"fmt"
)

// Taxonomy of engine errors. Callers match with errors.Is; the parameter or
// identifier at fault is carried by wrapping with %w.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrMissingParameter = errors.New("missing parameter")
	ErrOperationBlocked = errors.New("operation blocked by policy")
)

// ParseError reports that an agent reply could not be mapped to the expected
// structured field. It carries the raw reply text for diagnostics so a
// failure is never mistaken for an empty result.
type ParseError struct {
	Want string `json:"want"`
	Raw  string `json:"raw"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no %s found in agent reply", e.Want)
}
