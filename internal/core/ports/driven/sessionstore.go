package driven

import (
	"context"

	"github.com/classroom-labs/coursechat-cli/internal/core/domain"
)

// SessionStore keeps per-conversation exchange logs. Sessions live in
// process memory for the lifetime of the conversation; no persistence is
// implied. Writes for a single session id are serialized; distinct ids are
// fully independent.
type SessionStore interface {
	// Create starts a new session and returns its id.
	Create(ctx context.Context) (string, error)

	// AddExchange appends one exchange, then truncates the session to its
	// configured bound (oldest evicted first).
	AddExchange(ctx context.Context, id, query, answer string) error

	// History returns the session transcript formatted for prompt
	// injection, or the empty string for an unknown or empty session.
	History(ctx context.Context, id string) (string, error)

	// Exchanges returns the raw exchange log, newest last.
	Exchanges(ctx context.Context, id string) ([]domain.Exchange, error)

	// Delete removes all state for the session.
	Delete(ctx context.Context, id string) error
}
