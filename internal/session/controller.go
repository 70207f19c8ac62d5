package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	models "wordlebot/internal/models"
	pacing "wordlebot/internal/pacing"
	parser "wordlebot/internal/parser"
	surface "wordlebot/internal/surface"
)

// ErrFeedbackUnparseable terminates a session's autoplay task when the game
// surface returns feedback the parser cannot make sense of. It ends the task,
// not the process.
var ErrFeedbackUnparseable = errors.New("could not parse game feedback")

// Controller drives one session's autonomous guess-wait-observe-update loop
// against an injected game surface.
type Controller struct {
	session *Session
	surface surface.GameSurface
	pacer   *pacing.Pacer
	log     *zap.Logger
}

// NewController wires a controller for one session.
func NewController(s *Session, surf surface.GameSurface, pacer *pacing.Pacer, log *zap.Logger) *Controller {
	return &Controller{
		session: s,
		surface: surf,
		pacer:   pacer,
		log:     log.With(zap.String("session", s.Key().String())),
	}
}

// Run plays one full game. Cancellation at any suspension point marks the
// session inactive, persists its state and returns the context error to the
// caller.
func (c *Controller) Run(ctx context.Context, gameID string) error {
	c.session.StartNewGame(gameID)
	c.log.Info("autoplay started", zap.String("game", gameID))

	for turn := 1; turn <= models.MaxGuesses; turn++ {
		guess := c.session.NextGuess()
		c.log.Info("guessing", zap.Int("turn", turn), zap.String("word", guess))

		if _, err := c.pacer.HumanTyping(ctx, len(guess)); err != nil {
			return c.abort(err)
		}
		if err := c.surface.SendGuess(ctx, guess); err != nil {
			return c.abort(err)
		}
		if _, err := c.pacer.BetweenActions(ctx, 0, 0); err != nil {
			return c.abort(err)
		}

		feedback, err := c.surface.Feedback(ctx)
		if err != nil {
			return c.abort(err)
		}

		result := parser.ParseGrid(feedback, guess, turn)
		if result == nil {
			c.log.Error("unparseable feedback", zap.Int("turn", turn), zap.String("word", guess))
			c.session.MarkInactive()
			return fmt.Errorf("%w for guess %q", ErrFeedbackUnparseable, guess)
		}

		c.session.ApplyGuess(*result)

		if result.IsWin() {
			c.session.FinishGame(guess)
			c.log.Info("solved", zap.Int("turns", turn), zap.String("target", guess))
			_, err := c.pacer.BetweenGames(ctx)
			return err
		}

		if turn == models.MaxGuesses {
			target := parser.ExtractTargetWord(feedback)
			if target == "" {
				target = "unknown"
			}
			c.session.FinishGame(target)
			c.log.Info("failed to solve", zap.String("target", target))
			_, err := c.pacer.BetweenGames(ctx)
			return err
		}

		if _, err := c.pacer.BetweenActions(ctx, 0, 0); err != nil {
			return c.abort(err)
		}
	}

	return nil
}

// abort performs the cancellation cleanup: the session is paused and
// persisted, then the error propagates so the caller's own cancellation
// bookkeeping stays correct.
func (c *Controller) abort(err error) error {
	if errors.Is(err, context.Canceled) {
		c.log.Info("autoplay cancelled")
	} else {
		c.log.Warn("autoplay aborted", zap.Error(err))
	}
	c.session.MarkInactive()
	return err
}
