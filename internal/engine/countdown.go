package engine

import (
	"sync"
	"time"
)

// Countdown decrements a remaining-seconds counter once per tick and fires its
// expiry callback exactly once when the counter reaches zero. A Countdown is
// owned by exactly one Session and has no life of its own: every Start is
// paired with a terminal Stop, either by self-expiry or by the session leaving
// InProgress.
type Countdown struct {
	interval time.Duration

	mu        sync.Mutex
	remaining int
	running   bool
	expired   bool
	stopCh    chan struct{}
	onExpire  func()
}

// NewCountdown builds a controller ticking once per second.
func NewCountdown(onExpire func()) *Countdown {
	return NewCountdownWithInterval(time.Second, onExpire)
}

// NewCountdownWithInterval is test-only: it shortens the tick so expiry paths
// run in milliseconds instead of wall-clock seconds.
func NewCountdownWithInterval(interval time.Duration, onExpire func()) *Countdown {
	return &Countdown{
		interval: interval,
		onExpire: onExpire,
	}
}

// Start begins ticking down from initialSeconds. A countdown that is already
// ticking rejects the call. Starting at zero or below fires expiry immediately
// without spawning a ticker.
func (c *Countdown) Start(initialSeconds int) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.remaining = initialSeconds
	if c.remaining < 0 {
		c.remaining = 0
	}
	if c.remaining == 0 {
		c.expired = true
		c.mu.Unlock()
		if c.onExpire != nil {
			c.onExpire()
		}
		return nil
	}
	c.running = true
	c.stopCh = make(chan struct{})
	stopCh := c.stopCh
	c.mu.Unlock()

	go c.run(stopCh)
	return nil
}

func (c *Countdown) run(stopCh chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if c.tick() {
				return
			}
		}
	}
}

// tick decrements once and reports whether the loop should exit. The expired
// flag guarantees the callback cannot fire twice even if a stray tick lands
// after the counter reached zero.
func (c *Countdown) tick() bool {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return true
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		c.mu.Unlock()
		return false
	}
	if c.expired {
		c.mu.Unlock()
		return true
	}
	c.expired = true
	c.running = false
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
	return true
}

// Stop halts ticking. It is idempotent and safe to call after self-expiry, from
// any goroutine, including from within the expiry callback itself.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopCh != nil {
		select {
		case <-c.stopCh:
		default:
			close(c.stopCh)
		}
		c.stopCh = nil
	}
	c.running = false
}

// Remaining reports the seconds left. Once the owning session leaves
// InProgress the value is frozen because ticking has stopped.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether the countdown is still ticking.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
