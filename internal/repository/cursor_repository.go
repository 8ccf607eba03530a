package repository

import "context"

// CursorRepository defines persistence for the firehose resume cursor. The
// subscriber is the only writer; the cursor is saved only after a batch's
// writes succeed so a crash replays the batch instead of gapping the stream.
type CursorRepository interface {
	// Get retrieves the last persisted cursor for the given service name.
	// Returns 0 when no cursor has been saved yet.
	Get(ctx context.Context, service string) (int64, error)

	// Save persists the cursor for the given service name.
	Save(ctx context.Context, service string, cursor int64) error
}
