package main

import (
	"math/rand"
	"strings"
	"testing"

	"go.uber.org/zap"

	models "wordlebot/internal/models"
	solver "wordlebot/internal/solver"
)

var testWords = []string{
	"crane", "slate", "audio", "stare", "roate", "teary",
	"plane", "place", "plate", "brave", "grave", "shale",
	"whale", "crate", "trace", "react", "cater", "eerie",
}

func newTestSolver() *solver.Solver {
	return solver.New(testWords, rand.New(rand.NewSource(1)), zap.NewNop())
}

// statesFor builds feedback the way a real game would score guess against
// target, so constraint tests feed the solver realistic input.
func statesFor(guess, target string) []models.LetterState {
	states := make([]models.LetterState, models.WordLength)
	remaining := []byte(target)
	for i := 0; i < models.WordLength; i++ {
		if guess[i] == target[i] {
			states[i] = models.LetterCorrect
			remaining[i] = ' '
		}
	}
	for i := 0; i < models.WordLength; i++ {
		if states[i] != "" {
			continue
		}
		states[i] = models.LetterAbsent
		for j := range remaining {
			if remaining[j] == guess[i] {
				states[i] = models.LetterPresent
				remaining[j] = ' '
				break
			}
		}
	}
	return states
}

func TestFirstGuessComesFromOpeners(t *testing.T) {
	openers := map[string]bool{"crane": true, "slate": true, "roate": true, "audio": true}
	s := newTestSolver()
	gs := &models.GameState{}
	for i := 0; i < 20; i++ {
		guess := s.NextGuess(gs)
		if !openers[guess] {
			t.Fatalf("first guess %q is not an opener", guess)
		}
	}
}

func TestUpdateAndFilter_KeepsOnlyConsistentWords(t *testing.T) {
	target := "crane"
	s := newTestSolver()

	for _, guess := range []string{"slate", "teary"} {
		s.Update(guess, statesFor(guess, target))
	}
	s.FilterCandidates()

	// target must always survive its own feedback
	found := false
	for i := 0; i < 200; i++ {
		g := s.NextGuess(&models.GameState{Guesses: []models.GuessResult{
			{Word: "slate", States: statesFor("slate", target), Turn: 1},
		}})
		if g == target {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("solver never proposed the target %q", target)
	}
}

func TestFilterCandidates_HonorsConstraints(t *testing.T) {
	target := "plate"
	s := newTestSolver()

	guess := "slate"
	s.Update(guess, statesFor(guess, target))
	s.FilterCandidates()

	// s is absent, l/a/t/e are correct in place
	gs := &models.GameState{Guesses: []models.GuessResult{
		{Word: guess, States: statesFor(guess, target), Turn: 1},
	}}
	for i := 0; i < 50; i++ {
		next := s.NextGuess(gs)
		if strings.ContainsRune(next, 's') {
			t.Fatalf("candidate %q contains an absent letter", next)
		}
		if !strings.HasSuffix(next, "late") {
			t.Fatalf("candidate %q violates fixed positions", next)
		}
	}
}

func TestUpdate_DuplicateLetterMixedFeedback(t *testing.T) {
	// target eerie vs guess teary: one e correct, one e present; the absent
	// rule must not blacklist e.
	s := newTestSolver()
	s.Update("teary", statesFor("teary", "eerie"))
	s.FilterCandidates()

	gs := &models.GameState{Guesses: []models.GuessResult{
		{Word: "teary", States: statesFor("teary", "eerie"), Turn: 1},
	}}
	found := false
	for i := 0; i < 100; i++ {
		if s.NextGuess(gs) == "eerie" {
			found = true
			break
		}
	}
	if !found {
		t.Error("solver filtered out a word consistent with duplicate-letter feedback")
	}
}

func TestFilterCandidates_EmptySetResets(t *testing.T) {
	s := newTestSolver()
	// impossible feedback: every word contains a vowel, call them all absent
	states := make([]models.LetterState, models.WordLength)
	for i := range states {
		states[i] = models.LetterAbsent
	}
	s.Update("aeiou", states)
	s.FilterCandidates()

	if s.CandidateCount() != len(testWords) {
		t.Errorf("expected reset to full dictionary (%d), got %d", len(testWords), s.CandidateCount())
	}
}

func TestNextGuess_NeverBlocks(t *testing.T) {
	s := newTestSolver()
	gs := &models.GameState{Guesses: []models.GuessResult{
		{Word: "slate", States: statesFor("slate", "crane"), Turn: 1},
	}}
	for i := 0; i < 50; i++ {
		if s.NextGuess(gs) == "" {
			t.Fatal("NextGuess returned an empty word")
		}
	}
}

func TestLoadDictionary_FallbackOnMissingFile(t *testing.T) {
	words := solver.LoadDictionary("does/not/exist.json", zap.NewNop())
	if len(words) == 0 {
		t.Fatal("expected fallback word list")
	}
	for _, w := range words {
		if len(w) != models.WordLength {
			t.Errorf("fallback word %q has wrong length", w)
		}
	}
}
