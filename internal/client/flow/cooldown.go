package flow

import (
	"sync"
	"time"
)

// Ticker is the part of time.Ticker the countdown uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTicker is the real TickerFactory.
func NewTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Cooldown counts whole seconds down to zero on its own goroutine, reporting
// every tick. The ticker is released when the count reaches zero, on
// restart and on Stop.
type Cooldown struct {
	newTicker TickerFactory
	onTick    func(remaining int)

	mu        sync.Mutex
	remaining int
	stopped   bool
	stop      chan struct{}
	done      chan struct{}
}

// NewCooldown creates an idle Cooldown. onTick may be nil.
func NewCooldown(newTicker TickerFactory, onTick func(remaining int)) *Cooldown {
	if newTicker == nil {
		newTicker = NewTicker
	}
	if onTick == nil {
		onTick = func(int) {}
	}
	return &Cooldown{newTicker: newTicker, onTick: onTick}
}

// Start (re)starts the countdown at seconds, cancelling a running one. It
// must not be called from onTick or while holding a lock onTick takes.
func (c *Cooldown) Start(seconds int) {
	c.halt()
	c.mu.Lock()
	for c.stop != nil {
		// another Start won the race; cancel its countdown too
		c.mu.Unlock()
		c.halt()
		c.mu.Lock()
	}
	defer c.mu.Unlock()

	if c.stopped || seconds <= 0 {
		c.remaining = 0
		return
	}

	c.remaining = seconds
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.newTicker(time.Second), c.stop, c.done)
}

// Remaining returns the seconds left, 0 when idle.
func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Stop cancels the countdown for good and waits for its goroutine to exit.
// Later calls to Start do nothing.
func (c *Cooldown) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.halt()

	c.mu.Lock()
	c.remaining = 0
	c.mu.Unlock()
}

// halt cancels the running countdown, if any, and waits for it.
func (c *Cooldown) halt() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (c *Cooldown) run(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
		}

		c.mu.Lock()
		select {
		case <-stop:
			c.mu.Unlock()
			return
		default:
		}
		if c.remaining > 0 {
			c.remaining--
		}
		n := c.remaining
		c.mu.Unlock()

		c.onTick(n)
		if n == 0 {
			return
		}
	}
}
