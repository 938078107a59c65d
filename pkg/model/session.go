package model

import (
	"strings"

	"github.com/google/uuid"
)

// HistoryWindow is the number of most-recent exchanges surfaced to the
// answer composer.
const HistoryWindow = 5

// SessionID identifies one conversation thread.
type SessionID string

// NewSessionID generates a fresh SessionID.
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// Normalize maps blank session ids to a shared default thread.
func (s SessionID) Normalize() SessionID {
	if strings.TrimSpace(string(s)) == "" {
		return SessionID("default")
	}
	return s
}

// Exchange is one question/answer turn of a session.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Answer is the composer's result. Grounded reports whether the text came
// from the generation pipeline rather than an input or failure shortcut,
// so callers do not have to string-match.
type Answer struct {
	Text     string
	Grounded bool
}
