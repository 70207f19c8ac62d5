package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	models "wordlebot/internal/models"
	pacing "wordlebot/internal/pacing"
	session "wordlebot/internal/session"
	surface "wordlebot/internal/surface"
	util "wordlebot/internal/util"
)

// Bot exposes the registry and controller operations as a JSON command API:
// connect, disconnect, sessions, play, stop. It is the command frontend
// boundary; the chat platform behind it is not this package's concern.
type Bot struct {
	Registry   *session.Registry
	Pacer      *pacing.Pacer
	NewSurface func(key models.SessionKey) surface.GameSurface
	StartTime  time.Time
	Log        *zap.Logger
}

type sessionRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return len(s) > 0
}

func (b *Bot) bindSessionRequest(c *gin.Context) (sessionRequest, bool) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and name are required"})
		return req, false
	}
	if !isAlphanumeric(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session name must be alphanumeric"})
		return req, false
	}
	return req, true
}

// ConnectHandler creates or returns the session for (userId, name).
func (b *Bot) ConnectHandler(c *gin.Context) {
	req, ok := b.bindSessionRequest(c)
	if !ok {
		return
	}

	s := b.Registry.GetOrCreate(req.UserID, req.Name)
	b.Log.Info("connect", zap.Int64("user", req.UserID), zap.String("name", req.Name))
	c.JSON(http.StatusOK, gin.H{"connected": true, "session": s.Status()})
}

// DisconnectHandler tears the session down, task and record included.
func (b *Bot) DisconnectHandler(c *gin.Context) {
	req, ok := b.bindSessionRequest(c)
	if !ok {
		return
	}

	if !b.Registry.Disconnect(req.UserID, req.Name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or already disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

// SessionsHandler lists one user's sessions.
func (b *Bot) SessionsHandler(c *gin.Context) {
	var query struct {
		UserID int64 `form:"userId" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	statuses := lo.Map(b.Registry.ListSessions(query.UserID),
		func(s *session.Session, _ int) session.Status { return s.Status() })
	c.JSON(http.StatusOK, gin.H{"sessions": statuses})
}

// PlayHandler starts the autoplay task for a connected session.
func (b *Bot) PlayHandler(c *gin.Context) {
	req, ok := b.bindSessionRequest(c)
	if !ok {
		return
	}

	key := models.SessionKey{UserID: req.UserID, Name: req.Name}
	err := b.Registry.Play(req.UserID, req.Name, b.NewSurface(key), b.Pacer)
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found, connect first"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": true})
}

// StopHandler pauses a session's autoplay without disconnecting it.
func (b *Bot) StopHandler(c *gin.Context) {
	req, ok := b.bindSessionRequest(c)
	if !ok {
		return
	}

	if !b.Registry.Stop(req.UserID, req.Name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stopped": true})
}

// HealthzHandler reports liveness and uptime.
func (b *Bot) HealthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": util.FormatUptime(time.Since(b.StartTime)),
	})
}
