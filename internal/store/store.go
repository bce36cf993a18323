// Package store provides the session storage interface and SQLite implementation.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rcliao/eliza/internal/model"
)

// ErrNotFound is returned when no live session matches a reference.
var ErrNotFound = errors.New("session not found")

// OpenParams holds parameters for opening a session.
type OpenParams struct {
	Name   string // empty creates an unnamed session
	Script string
}

// TurnParams holds one exchange and the conversation state after it.
type TurnParams struct {
	SessionID string
	Input     string
	Response  string
	Source    string
	Keyword   string
	State     json.RawMessage
}

// ListParams holds parameters for listing sessions.
type ListParams struct {
	Limit int
}

// RmParams holds parameters for deleting a session.
type RmParams struct {
	Ref  string
	Hard bool
}

// Store defines the session storage interface.
type Store interface {
	// Open returns the live session with the given name, creating it if needed.
	Open(ctx context.Context, p OpenParams) (*model.Session, error)

	// Get retrieves a live session by id or name.
	Get(ctx context.Context, ref string) (*model.Session, error)

	// SaveTurn appends a turn and stores the new state atomically.
	SaveTurn(ctx context.Context, p TurnParams) (*model.Turn, error)

	// Transcript returns a session's turns in order.
	Transcript(ctx context.Context, sessionID string) ([]model.Turn, error)

	// List lists live sessions, most recently updated first.
	List(ctx context.Context, p ListParams) ([]model.Session, error)

	// Rm soft-deletes (or hard-deletes) a session.
	Rm(ctx context.Context, p RmParams) error

	// Reset clears a session's state, keeping its transcript.
	Reset(ctx context.Context, ref string) error

	// Close closes the store.
	Close() error
}
