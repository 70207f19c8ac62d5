package main

import (
	"testing"

	game "wordlebot/internal/game"
	models "wordlebot/internal/models"
)

func allCorrect(word string) models.GuessResult {
	states := make([]models.LetterState, models.WordLength)
	for i := range states {
		states[i] = models.LetterCorrect
	}
	return models.GuessResult{Word: word, States: states, Turn: 1}
}

func allAbsent(word string, turn int) models.GuessResult {
	states := make([]models.LetterState, models.WordLength)
	for i := range states {
		states[i] = models.LetterAbsent
	}
	return models.GuessResult{Word: word, States: states, Turn: turn}
}

func TestIsWin(t *testing.T) {
	if !allCorrect("crane").IsWin() {
		t.Error("all-correct result should be a win")
	}
	if allAbsent("crane", 1).IsWin() {
		t.Error("all-absent result should not be a win")
	}
	mixed := allCorrect("crane")
	mixed.States[4] = models.LetterPresent
	if mixed.IsWin() {
		t.Error("result with a present letter should not be a win")
	}
	short := models.GuessResult{Word: "crane", States: []models.LetterState{models.LetterCorrect}}
	if short.IsWin() {
		t.Error("truncated state sequence should not be a win")
	}
}

func TestAddGuess_WinAtAnyTurn(t *testing.T) {
	g := game.NewGame("g1")
	game.AddGuess(g, allAbsent("slate", 1))
	game.AddGuess(g, allCorrect("crane"))
	if !g.Solved || g.Failed {
		t.Errorf("expected solved=true failed=false, got solved=%v failed=%v", g.Solved, g.Failed)
	}
	if game.IsActive(g) {
		t.Error("solved game should not be active")
	}
}

func TestAddGuess_FailsAfterSixWithoutWin(t *testing.T) {
	g := game.NewGame("g2")
	for turn := 1; turn <= models.MaxGuesses; turn++ {
		game.AddGuess(g, allAbsent("slate", turn))
	}
	if !g.Failed || g.Solved {
		t.Errorf("expected failed=true solved=false, got failed=%v solved=%v", g.Failed, g.Solved)
	}
	if len(g.Guesses) != models.MaxGuesses {
		t.Errorf("expected %d guesses, got %d", models.MaxGuesses, len(g.Guesses))
	}

	// terminal games reject further guesses
	game.AddGuess(g, allCorrect("crane"))
	if g.Solved || len(g.Guesses) != models.MaxGuesses {
		t.Error("terminal game must not accept more guesses")
	}
}

func TestAddGuess_WinOnLastTurnBeatsFailure(t *testing.T) {
	g := game.NewGame("g3")
	for turn := 1; turn < models.MaxGuesses; turn++ {
		game.AddGuess(g, allAbsent("slate", turn))
	}
	game.AddGuess(g, allCorrect("crane"))
	if !g.Solved || g.Failed {
		t.Errorf("win on the final turn must pre-empt failure, got solved=%v failed=%v", g.Solved, g.Failed)
	}
}

func TestFinishRecordsTarget(t *testing.T) {
	g := game.NewGame("g4")
	game.Finish(g, "crane")
	if g.TargetWord != "crane" {
		t.Errorf("expected target crane, got %q", g.TargetWord)
	}
	if !g.Failed {
		t.Error("finishing an unsolved game should mark it failed")
	}
}

func TestCheckGuess_DuplicateLetters(t *testing.T) {
	cases := []struct {
		guess, target string
		want          []models.LetterState
	}{
		{"crane", "crane", []models.LetterState{
			models.LetterCorrect, models.LetterCorrect, models.LetterCorrect,
			models.LetterCorrect, models.LetterCorrect}},
		{"slate", "crane", []models.LetterState{
			models.LetterAbsent, models.LetterAbsent, models.LetterCorrect,
			models.LetterAbsent, models.LetterCorrect}},
		// second l in "llama" must not match the single l in "light" twice
		{"llama", "light", []models.LetterState{
			models.LetterCorrect, models.LetterAbsent, models.LetterAbsent,
			models.LetterAbsent, models.LetterAbsent}},
		// one e correct, the duplicate e absent
		{"eerie", "lemon", []models.LetterState{
			models.LetterAbsent, models.LetterCorrect, models.LetterAbsent,
			models.LetterAbsent, models.LetterAbsent}},
	}

	for _, c := range cases {
		got := game.CheckGuess(c.guess, c.target)
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("CheckGuess(%q, %q)[%d] = %v, want %v", c.guess, c.target, i, got[i], c.want[i])
			}
		}
	}
}

func TestRenderGrid(t *testing.T) {
	states := []models.LetterState{
		models.LetterCorrect, models.LetterPresent, models.LetterAbsent,
		models.LetterAbsent, models.LetterPresent,
	}
	if got := game.RenderGrid(states); got != "🟩🟨⬛⬛🟨" {
		t.Errorf("RenderGrid = %q", got)
	}
}
