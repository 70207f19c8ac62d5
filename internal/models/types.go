package models

import (
	"fmt"
	"time"
)

const (
	MaxGuesses = 6
	WordLength = 5
)

// LetterState classifies the feedback for a single letter of a guess.
type LetterState string

const (
	LetterCorrect LetterState = "correct"
	LetterPresent LetterState = "present"
	LetterAbsent  LetterState = "absent"
	LetterUnknown LetterState = "unknown"
)

// GuessResult is one guessed word plus its per-letter feedback. Immutable
// once created.
type GuessResult struct {
	Word   string        `json:"word"`
	States []LetterState `json:"states"`
	Turn   int           `json:"turn"`
}

// IsWin reports whether every letter came back correct.
func (g GuessResult) IsWin() bool {
	if len(g.States) != WordLength {
		return false
	}
	for _, s := range g.States {
		if s != LetterCorrect {
			return false
		}
	}
	return true
}

// GameState tracks one game's guesses and outcome. Solved and Failed are
// never both true; TargetWord is populated only once the game is over.
type GameState struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"startedAt"`
	Guesses    []GuessResult `json:"guesses"`
	Solved     bool          `json:"solved"`
	Failed     bool          `json:"failed"`
	TargetWord string        `json:"targetWord,omitempty"`
}

// SessionKey identifies one user's one named session. Comparable, used
// directly as the registry map key.
type SessionKey struct {
	UserID int64
	Name   string
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d_%s", k.UserID, k.Name)
}

// RecordVersion is the current on-disk session record schema version.
const RecordVersion = 1

// SessionRecord is the durable, versioned form of a session. Must round-trip
// exactly through JSON.
type SessionRecord struct {
	Version      int        `json:"version"`
	UserID       int64      `json:"userId"`
	SessionName  string     `json:"sessionName"`
	Active       bool       `json:"active"`
	LastActivity time.Time  `json:"lastActivity"`
	GameState    *GameState `json:"gameState,omitempty"`
}

// Key returns the registry key for this record.
func (r SessionRecord) Key() SessionKey {
	return SessionKey{UserID: r.UserID, Name: r.SessionName}
}
