// Package surface defines the boundary to the external game being played.
// The core never assumes a transport; anything that can accept a guess and
// hand back feedback text satisfies GameSurface.
package surface

import (
	"context"
	"fmt"
	"sync"

	game "wordlebot/internal/game"
	models "wordlebot/internal/models"
)

// GameSurface is the injected collaborator that actually plays the game.
type GameSurface interface {
	// SendGuess delivers one guess word to the game.
	SendGuess(ctx context.Context, word string) error
	// Feedback retrieves the game's textual response to the last guess.
	Feedback(ctx context.Context) (string, error)
}

// Simulated is a local GameSurface that scores guesses against a hidden
// target word and replies with the emoji grid a real UI would show. It backs
// the demo mode and the controller tests.
type Simulated struct {
	mu        sync.Mutex
	target    string
	lastGuess string
	turn      int
}

// NewSimulated returns a simulated surface playing the given target word.
func NewSimulated(target string) *Simulated {
	return &Simulated{target: target}
}

func (s *Simulated) SendGuess(ctx context.Context, word string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(word) != models.WordLength {
		return fmt.Errorf("surface: guess %q is not %d letters", word, models.WordLength)
	}
	s.mu.Lock()
	s.lastGuess = word
	s.turn++
	s.mu.Unlock()
	return nil
}

func (s *Simulated) Feedback(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastGuess == "" {
		return "", fmt.Errorf("surface: no guess sent yet")
	}

	states := game.CheckGuess(s.lastGuess, s.target)
	text := game.RenderGrid(states)

	if s.lastGuess == s.target {
		text += "\nYou win! 🎉"
	} else if s.turn >= models.MaxGuesses {
		text += fmt.Sprintf("\nGame over! The word was %s", s.target)
	}

	return text, nil
}
