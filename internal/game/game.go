package game

import (
	"time"

	models "wordlebot/internal/models"
)

// NewGame returns a fresh game state with no guesses.
func NewGame(id string) *models.GameState {
	return &models.GameState{
		ID:        id,
		StartedAt: time.Now(),
		Guesses:   []models.GuessResult{},
	}
}

// AddGuess appends a guess result and evaluates termination. A winning
// result solves the game immediately, pre-empting the max-guess check;
// the game fails only when the guess limit is reached without a win.
// Appending to a terminal game is a no-op.
func AddGuess(g *models.GameState, result models.GuessResult) {
	if g.Solved || g.Failed || len(g.Guesses) >= models.MaxGuesses {
		return
	}
	g.Guesses = append(g.Guesses, result)
	if result.IsWin() {
		g.Solved = true
	} else if len(g.Guesses) >= models.MaxGuesses {
		g.Failed = true
	}
}

// IsActive reports whether the game can still accept guesses.
func IsActive(g *models.GameState) bool {
	return g != nil && !g.Solved && !g.Failed
}

// Finish marks the game terminal and records the target word. Used when the
// outcome is decided outside AddGuess (win reveals the word, loss extracts it
// from the feedback text).
func Finish(g *models.GameState, targetWord string) {
	if g == nil {
		return
	}
	if !g.Solved && !g.Failed {
		g.Failed = true
	}
	g.TargetWord = targetWord
}

// CheckGuess scores a guess against a target with Wordle's duplicate-letter
// rules: correct positions are consumed first, then each remaining guess
// letter matches at most one unconsumed target letter.
func CheckGuess(guess, target string) []models.LetterState {
	states := make([]models.LetterState, models.WordLength)
	targetCopy := []byte(target)

	for i := 0; i < models.WordLength; i++ {
		if guess[i] == target[i] {
			states[i] = models.LetterCorrect
			targetCopy[i] = ' '
		}
	}

	for i := 0; i < models.WordLength; i++ {
		if states[i] != "" {
			continue
		}
		states[i] = models.LetterAbsent
		for j := 0; j < models.WordLength; j++ {
			if targetCopy[j] == guess[i] {
				states[i] = models.LetterPresent
				targetCopy[j] = ' '
				break
			}
		}
	}

	return states
}

// RenderGrid renders per-letter states as the emoji glyph row used by
// Wordle-style UIs.
func RenderGrid(states []models.LetterState) string {
	out := ""
	for _, s := range states {
		switch s {
		case models.LetterCorrect:
			out += "🟩"
		case models.LetterPresent:
			out += "🟨"
		default:
			out += "⬛"
		}
	}
	return out
}
