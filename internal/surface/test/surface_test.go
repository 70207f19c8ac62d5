package main

import (
	"context"
	"strings"
	"testing"

	models "wordlebot/internal/models"
	parser "wordlebot/internal/parser"
	surface "wordlebot/internal/surface"
)

func TestSimulated_FeedbackParsesBack(t *testing.T) {
	ctx := context.Background()
	s := surface.NewSimulated("crane")

	if err := s.SendGuess(ctx, "slate"); err != nil {
		t.Fatalf("SendGuess: %v", err)
	}
	feedback, err := s.Feedback(ctx)
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}

	result := parser.ParseGrid(feedback, "slate", 1)
	if result == nil {
		t.Fatal("simulated feedback should parse")
	}
	// s,l,t miss; a and e land in place
	want := []models.LetterState{
		models.LetterAbsent, models.LetterAbsent, models.LetterCorrect,
		models.LetterAbsent, models.LetterCorrect,
	}
	for i := range want {
		if result.States[i] != want[i] {
			t.Errorf("state[%d] = %v, want %v", i, result.States[i], want[i])
		}
	}
}

func TestSimulated_WinAndLossMessages(t *testing.T) {
	ctx := context.Background()

	win := surface.NewSimulated("crane")
	_ = win.SendGuess(ctx, "crane")
	feedback, _ := win.Feedback(ctx)
	if !parser.DetectGameOver(feedback) {
		t.Error("winning feedback should read as game over")
	}

	loss := surface.NewSimulated("crane")
	for i := 0; i < models.MaxGuesses; i++ {
		_ = loss.SendGuess(ctx, "slate")
	}
	feedback, _ = loss.Feedback(ctx)
	if !parser.DetectGameOver(feedback) {
		t.Error("exhausted feedback should read as game over")
	}
	if got := parser.ExtractTargetWord(feedback); got != "crane" {
		t.Errorf("extracted target %q, want crane", got)
	}
}

func TestSimulated_RejectsBadGuess(t *testing.T) {
	s := surface.NewSimulated("crane")
	if err := s.SendGuess(context.Background(), "toolong"); err == nil {
		t.Error("expected an error for a wrong-length guess")
	}
	if _, err := s.Feedback(context.Background()); err == nil || !strings.Contains(err.Error(), "no guess") {
		t.Error("expected an error before any guess is sent")
	}
}
