// Package agent provides the boundary adapter to the external conversational
// reasoning capability.
package agent

import "context"

// Client defines the single outbound operation the engine depends on. The
// capability preserves session-scoped context across calls and is not
// idempotent-safe: the engine never resubmits an instruction on its own.
type Client interface {
	// Converse sends an instruction into an existing session and returns the
	// agent's free-form reply verbatim. It blocks until a reply is available
	// or the context deadline elapses.
	Converse(ctx context.Context, sessionID, instruction string) (string, error)
}
