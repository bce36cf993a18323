// Package model defines the persisted conversation types.
package model

import (
	"encoding/json"
	"time"
)

// Session is a named, resumable conversation.
type Session struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Script    string          `json:"script"`
	State     json.RawMessage `json:"state,omitempty"`
	Turns     int             `json:"turns"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// Turn is one exchange of a session's transcript.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Input     string    `json:"input"`
	Response  string    `json:"response"`
	Source    string    `json:"source"`
	Keyword   string    `json:"keyword,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionExport is a session together with its transcript.
type SessionExport struct {
	Session
	Transcript []Turn `json:"transcript"`
}

// ValidSources are the stages a reply can come from.
var ValidSources = map[string]bool{
	"keyword":  true,
	"memory":   true,
	"fallback": true,
	"filler":   true,
}

// DefaultScript names the embedded DOCTOR script in Session.Script.
const DefaultScript = "doctor"
