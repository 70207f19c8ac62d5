// Package pacing produces the randomized wait durations that make the bot's
// activity look human: inter-action delays, inter-game cooldowns, typing
// simulation and error backoff. Every wait is context-aware so cancellation
// interrupts it.
package pacing

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const (
	// floorDelay is the minimum wait after jitter is applied.
	floorDelay = 500 * time.Millisecond
	// maxErrorBackoff caps exponential error backoff.
	maxErrorBackoff = 300 * time.Second
)

// SleepFunc waits for d or until ctx is cancelled. Tests swap in a recorder
// so pacing behavior is asserted without real waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer draws randomized delays and suspends the calling task for them.
type Pacer struct {
	minDelay     time.Duration
	maxDelay     time.Duration
	gameCooldown time.Duration

	rng   *rand.Rand
	sleep SleepFunc
	log   *zap.Logger
}

// New builds a pacer with the configured inter-action bounds and inter-game
// cooldown base. A nil rng gets a time-seeded source; a nil sleep gets the
// real context-aware sleep.
func New(minDelay, maxDelay, gameCooldown time.Duration, rng *rand.Rand, sleep SleepFunc, log *zap.Logger) *Pacer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if sleep == nil {
		sleep = ctxSleep
	}
	return &Pacer{
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		gameCooldown: gameCooldown,
		rng:          rng,
		sleep:        sleep,
		log:          log,
	}
}

// uniform draws from [lo, hi].
func (p *Pacer) uniform(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(p.rng.Int63n(int64(hi-lo)+1))
}

// BetweenActions waits a randomized duration in [min, max] plus a small
// signed jitter, clamped to the floor. Zero bounds use the configured
// defaults. Returns the duration actually waited.
func (p *Pacer) BetweenActions(ctx context.Context, min, max time.Duration) (time.Duration, error) {
	if min <= 0 {
		min = p.minDelay
	}
	if max <= 0 {
		max = p.maxDelay
	}

	base := p.uniform(min, max)
	jitter := p.uniform(-300*time.Millisecond, 500*time.Millisecond)
	total := base + jitter
	if total < floorDelay {
		total = floorDelay
	}

	p.log.Debug("pacing between actions", zap.Duration("delay", total))
	return total, p.sleep(ctx, total)
}

// BetweenGames waits the inter-game cooldown: the configured base plus a
// uniform jitter in [10s, 40s].
func (p *Pacer) BetweenGames(ctx context.Context) (time.Duration, error) {
	total := p.gameCooldown + p.uniform(10*time.Second, 40*time.Second)
	p.log.Info("cooldown between games", zap.Duration("delay", total))
	return total, p.sleep(ctx, total)
}

// OnError waits an exponential backoff of 2^retryCount seconds scaled by a
// uniform factor in [1, 2], capped at 300s.
func (p *Pacer) OnError(ctx context.Context, retryCount int) (time.Duration, error) {
	if retryCount < 0 {
		retryCount = 0
	}
	// 2^9 seconds already exceeds the cap; clamping here keeps the shift and
	// the multiplication from overflowing on large retry counts.
	base := maxErrorBackoff
	if retryCount < 9 {
		base = time.Duration(1<<uint(retryCount)) * time.Second
	}
	total := base + time.Duration(p.rng.Int63n(int64(base)+1))
	if total > maxErrorBackoff {
		total = maxErrorBackoff
	}

	p.log.Warn("error backoff", zap.Duration("delay", total), zap.Int("retry", retryCount))
	return total, p.sleep(ctx, total)
}

// HumanTyping waits as long as a human would take to type length characters,
// at a randomized 8-15 characters per second.
func (p *Pacer) HumanTyping(ctx context.Context, length int) (time.Duration, error) {
	charsPerSec := 8 + p.rng.Float64()*7
	total := time.Duration(float64(length) / charsPerSec * float64(time.Second))
	return total, p.sleep(ctx, total)
}
