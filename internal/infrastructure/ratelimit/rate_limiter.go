package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionDefault     = "default"
)

// Policy describes the token bucket for one action.
type Policy struct {
	Every time.Duration
	Burst int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per user and action.
type RateLimiter struct {
	policies map[string]Policy
	buckets  map[string]*bucket
	mutex    sync.Mutex
	now      func() time.Time
}

// NewRateLimiter builds a limiter allowing sendPerMinute chat messages per
// user per minute. Other actions get 20 per minute.
func NewRateLimiter(sendPerMinute int) *RateLimiter {
	if sendPerMinute <= 0 {
		sendPerMinute = 10
	}
	return &RateLimiter{
		policies: map[string]Policy{
			ActionSendMessage: {Every: time.Minute / time.Duration(sendPerMinute), Burst: sendPerMinute},
			ActionDefault:     {Every: 3 * time.Second, Burst: 20},
		},
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (rl *RateLimiter) policy(action string) Policy {
	if p, ok := rl.policies[action]; ok {
		return p
	}
	return rl.policies[ActionDefault]
}

// Allow consumes a token for the user action. When none is available it
// returns false and how long until one is.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, exists := rl.buckets[key]
	if !exists {
		p := rl.policy(action)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(p.Every), p.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Tokens returns the tokens currently available for a user action.
func (rl *RateLimiter) Tokens(userID, action string) (tokens int, maxTokens int) {
	rl.mutex.Lock()
	b, exists := rl.buckets[userID+":"+action]
	rl.mutex.Unlock()

	p := rl.policy(action)
	if !exists {
		return p.Burst, p.Burst
	}
	return int(b.limiter.TokensAt(rl.now())), p.Burst
}

// Cleanup removes buckets that have not been used for an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
