package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	game "wordlebot/internal/game"
	models "wordlebot/internal/models"
	solver "wordlebot/internal/solver"
)

// Session owns one user's one named game context: its game state, its solver
// instance, its running task, and its persisted record. All mutation goes
// through methods holding the session lock; persistence failures are logged
// and the in-memory state stays authoritative.
type Session struct {
	key models.SessionKey

	mu           sync.Mutex
	solver       *solver.Solver
	game         *models.GameState
	active       bool
	lastActivity time.Time
	cancel       context.CancelFunc
	done         chan struct{}

	store *Store
	log   *zap.Logger
}

func newSession(key models.SessionKey, sv *solver.Solver, store *Store, log *zap.Logger) *Session {
	return &Session{
		key:          key,
		solver:       sv,
		active:       true,
		lastActivity: time.Now(),
		store:        store,
		log:          log.With(zap.String("session", key.String())),
	}
}

// Key returns the session's composite key.
func (s *Session) Key() models.SessionKey { return s.key }

// Active reports whether the session is connected.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// LastActivity returns the time of the session's last state change.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Touch refreshes the activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// StartNewGame resets the solver, installs a fresh game state and persists.
func (s *Session) StartNewGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solver.Reset()
	s.game = game.NewGame(gameID)
	s.active = true
	s.lastActivity = time.Now()
	s.persistLocked()
}

// NextGuess asks the solver for the next word to play.
func (s *Session) NextGuess() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solver.NextGuess(s.game)
}

// ApplyGuess appends one guess result to the game state and persists.
func (s *Session) ApplyGuess(result models.GuessResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return
	}
	game.AddGuess(s.game, result)
	s.lastActivity = time.Now()
	s.persistLocked()
}

// FinishGame records the target word, marks the session no longer playing
// and persists the final state.
func (s *Session) FinishGame(targetWord string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game != nil {
		game.Finish(s.game, targetWord)
	}
	s.active = false
	s.lastActivity = time.Now()
	s.persistLocked()
}

// MarkInactive flags the session paused and persists. Called on task
// cancellation and on unrecoverable feedback failures.
func (s *Session) MarkInactive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.persistLocked()
}

// Status is the listing view of a session.
type Status struct {
	Name    string `json:"name"`
	Playing bool   `json:"playing"`
	Guesses int    `json:"guesses"`
	Solved  bool   `json:"solved"`
	Failed  bool   `json:"failed"`
}

// Status reports the session's name, whether a game is being played, and
// the guesses used so far.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Name: s.key.Name}
	if s.game != nil {
		st.Guesses = len(s.game.Guesses)
		st.Solved = s.game.Solved
		st.Failed = s.game.Failed
		st.Playing = s.active && game.IsActive(s.game)
	}
	return st
}

// Snapshot returns the session's durable record form.
func (s *Session) Snapshot() models.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.SessionRecord {
	rec := models.SessionRecord{
		Version:      models.RecordVersion,
		UserID:       s.key.UserID,
		SessionName:  s.key.Name,
		Active:       s.active,
		LastActivity: s.lastActivity,
	}
	if s.game != nil {
		g := *s.game
		g.Guesses = append([]models.GuessResult(nil), s.game.Guesses...)
		rec.GameState = &g
	}
	return rec
}

func (s *Session) persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
}

func (s *Session) persistLocked() {
	if err := s.store.Save(s.snapshotLocked()); err != nil {
		s.log.Warn("cannot persist session", zap.Error(err))
	}
}

// restore rebuilds a session from its durable record. The solver starts
// fresh; it relearns constraints as new guesses come in.
func (s *Session) restore(rec models.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = rec.Active
	s.lastActivity = rec.LastActivity
	s.game = rec.GameState
	s.solver.Reset()
}

// setTask installs the running controller task's cancel handle.
func (s *Session) setTask(cancel context.CancelFunc, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel = cancel
	s.done = done
}

// CancelTask cancels any running controller task and waits for it to finish
// its cleanup. Safe to call when no task is running.
func (s *Session) CancelTask() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
