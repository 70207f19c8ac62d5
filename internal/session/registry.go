package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	models "wordlebot/internal/models"
	pacing "wordlebot/internal/pacing"
	solver "wordlebot/internal/solver"
	surface "wordlebot/internal/surface"
)

// ErrSessionNotFound is returned when play or stop targets a session that
// was never connected.
var ErrSessionNotFound = errors.New("session not found")

// Registry creates, looks up, persists, evicts and caps sessions across all
// users. Map mutation is mutually exclusive; each session's record file is
// written only under that session's own lock.
type Registry struct {
	mu       sync.Mutex
	sessions map[models.SessionKey]*Session

	store          *Store
	words          []string
	maxPerUser     int
	sessionTimeout time.Duration
	sweepInterval  time.Duration
	log            *zap.Logger
}

// NewRegistry builds a registry over the given dictionary and store, then
// admits every persisted record that survives the staleness check. Stale
// records have their durable files deleted.
func NewRegistry(store *Store, words []string, maxPerUser int, sessionTimeout, sweepInterval time.Duration, log *zap.Logger) *Registry {
	r := &Registry{
		sessions:       make(map[models.SessionKey]*Session),
		store:          store,
		words:          words,
		maxPerUser:     maxPerUser,
		sessionTimeout: sessionTimeout,
		sweepInterval:  sweepInterval,
		log:            log,
	}
	r.loadPersisted()
	return r
}

func (r *Registry) loadPersisted() {
	now := time.Now()
	for _, rec := range r.store.LoadAll() {
		key := rec.Key()
		if !rec.Active && now.Sub(rec.LastActivity) > r.sessionTimeout {
			r.log.Info("dropping stale persisted session", zap.String("key", key.String()))
			r.store.Delete(key)
			continue
		}
		s := newSession(key, solver.New(r.words, nil, r.log), r.store, r.log)
		s.restore(rec)
		r.sessions[key] = s
		r.log.Info("loaded persisted session", zap.String("key", key.String()))
	}
}

// GetOrCreate returns the existing active session for (userID, name) or
// creates one. Creation enforces the per-user cap by first evicting the
// user's least-recently-active session.
func (r *Registry) GetOrCreate(userID int64, name string) *Session {
	key := models.SessionKey{UserID: userID, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[key]; ok {
		if s.Active() {
			s.Touch()
			return s
		}
		r.disconnectLocked(key, s)
	}

	userSessions := r.userSessionsLocked(userID)
	if len(userSessions) >= r.maxPerUser {
		oldest := lo.MinBy(userSessions, func(a, b *Session) bool {
			return a.LastActivity().Before(b.LastActivity())
		})
		r.log.Info("evicting oldest session to respect per-user cap",
			zap.Int64("user", userID), zap.String("evicted", oldest.Key().String()))
		r.disconnectLocked(oldest.Key(), oldest)
	}

	s := newSession(key, solver.New(r.words, nil, r.log), r.store, r.log)
	r.sessions[key] = s
	s.persist()
	r.log.Info("session connected", zap.String("key", key.String()))
	return s
}

// Disconnect cancels any running task for the session, awaits its
// termination, persists the final state and removes both the in-memory
// entry and the durable record. Reports whether a session existed.
func (r *Registry) Disconnect(userID int64, name string) bool {
	key := models.SessionKey{UserID: userID, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[key]
	if !ok {
		return false
	}
	r.disconnectLocked(key, s)
	r.log.Info("session disconnected", zap.String("key", key.String()))
	return true
}

// disconnectLocked tears one session down under the registry lock. The
// awaited task never takes this lock, so waiting here cannot deadlock.
func (r *Registry) disconnectLocked(key models.SessionKey, s *Session) {
	s.CancelTask()
	s.MarkInactive()
	delete(r.sessions, key)
	r.store.Delete(key)
}

// ListSessions returns all of one user's sessions, in no particular order.
func (r *Registry) ListSessions(userID int64) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userSessionsLocked(userID)
}

func (r *Registry) userSessionsLocked(userID int64) []*Session {
	return lo.Filter(lo.Values(r.sessions), func(s *Session, _ int) bool {
		return s.Key().UserID == userID
	})
}

// Play starts (or restarts) the autoplay task for a connected session. A
// previous run is cancelled and awaited first, so one session never has two
// controller tasks.
func (r *Registry) Play(userID int64, name string, surf surface.GameSurface, pacer *pacing.Pacer) error {
	key := models.SessionKey{UserID: userID, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[key]
	if !ok {
		return ErrSessionNotFound
	}

	s.CancelTask()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.setTask(cancel, done)

	ctl := NewController(s, surf, pacer, r.log)
	go func() {
		defer close(done)
		err := ctl.Run(ctx, uuid.NewString())
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
		default:
			r.log.Warn("autoplay task ended with error",
				zap.String("key", key.String()), zap.Error(err))
		}
	}()

	return nil
}

// Stop cancels a session's running task but keeps it connected (paused).
// Reports whether a session existed.
func (r *Registry) Stop(userID int64, name string) bool {
	key := models.SessionKey{UserID: userID, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[key]
	if !ok {
		return false
	}
	s.CancelTask()
	return true
}

// SweepStale removes in-memory sessions that are inactive and idle beyond
// the configured timeout.
func (r *Registry) SweepStale() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, s := range r.sessions {
		if !s.Active() && now.Sub(s.LastActivity()) > r.sessionTimeout {
			delete(r.sessions, key)
			removed++
		}
	}
	if removed > 0 {
		r.log.Info("swept stale sessions", zap.Int("removed", removed))
	}
}

// StartSweeper runs the periodic staleness sweep until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.SweepStale()
			}
		}
	}()
	r.log.Info("started session sweeper", zap.Duration("interval", r.sweepInterval))
}

// Shutdown cancels every running task, awaits termination and persists final
// state. Records stay on disk so sessions resume after restart.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		s.CancelTask()
		if err := r.store.Save(s.Snapshot()); err != nil {
			r.log.Warn("cannot persist session during shutdown",
				zap.String("key", s.Key().String()), zap.Error(err))
		}
	}
	r.log.Info("all sessions shut down", zap.Int("count", len(r.sessions)))
}
