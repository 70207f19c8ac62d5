package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

type rateLimiterEntry struct {
	Limiter    *rate.Limiter
	LastAccess time.Time
}

func (app *App) getLimiter(key string) *rate.Limiter {
	app.LimiterMutex.RLock()
	entry, ok := app.LimiterMap[key]
	app.LimiterMutex.RUnlock()
	if ok {
		app.LimiterMutex.Lock()
		if entry, ok = app.LimiterMap[key]; ok {
			entry.LastAccess = time.Now()
		}
		app.LimiterMutex.Unlock()
		return entry.Limiter
	}

	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()
	if entry, ok = app.LimiterMap[key]; ok {
		entry.LastAccess = time.Now()
		return entry.Limiter
	}

	limiter := rate.NewLimiter(rate.Limit(app.Cfg.RateLimitRPS), app.Cfg.RateLimitBurst)
	app.LimiterMap[key] = &rateLimiterEntry{Limiter: limiter, LastAccess: time.Now()}
	return limiter
}

func (app *App) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := app.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (app *App) cleanupStaleRateLimiters() {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()

	cutoff := time.Now().Add(-app.Cfg.RateLimiterTTL)
	removed := 0
	for key, entry := range app.LimiterMap {
		if entry.LastAccess.Before(cutoff) {
			delete(app.LimiterMap, key)
			removed++
		}
	}
	if removed > 0 {
		app.Log.Info("cleaned up stale rate limiters", zap.Int("removed", removed))
	}
}
