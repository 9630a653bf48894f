// Package resilience provides reliability patterns for outbound chain and API calls.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the externally visible breaker state.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Breaker guards one upstream (the name-service API, the RPC node).
// It opens after maxFailures consecutive failures and rejects calls until
// timeout has elapsed, then lets a single probe through.
type Breaker struct {
	name        string
	mu          sync.Mutex
	state       State
	failures    int
	maxFailures int
	timeout     time.Duration
	openedAt    time.Time
	probing     bool
	onChange    func(name string, from, to State)
	now         func() time.Time
}

// NewBreaker creates a circuit breaker for the named upstream.
func NewBreaker(name string, maxFailures int, timeout time.Duration) *Breaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &Breaker{
		name:        name,
		state:       StateClosed,
		maxFailures: maxFailures,
		timeout:     timeout,
		now:         time.Now,
	}
}

// OnStateChange registers a callback invoked (outside the lock) on every transition.
func (b *Breaker) OnStateChange(fn func(name string, from, to State)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Name returns the upstream name.
func (b *Breaker) Name() string { return b.name }

// State reports the current state without side effects.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.timeout {
		return StateHalfOpen
	}
	return b.state
}

// Execute runs fn unless the circuit is open.
func (b *Breaker) Execute(fn func() error) error {
	return b.ExecuteContext(context.Background(), func(context.Context) error { return fn() })
}

// ExecuteContext runs fn unless the circuit is open. A failure caused by the
// caller's own context ending does not count against the upstream.
func (b *Breaker) ExecuteContext(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !b.allowRequest() {
		return ErrCircuitOpen
	}

	err := fn(ctx)

	switch {
	case err == nil:
		b.record(b.onSuccess)
	case ctx.Err() != nil:
		b.record(b.onAbandon)
	default:
		b.record(b.onFailure)
	}
	return err
}

func (b *Breaker) allowRequest() bool {
	var from State
	b.mu.Lock()
	switch b.state {
	case StateClosed:
		b.mu.Unlock()
		return true
	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return false
		}
		b.probing = true
		b.mu.Unlock()
		return true
	}

	// open
	if b.now().Sub(b.openedAt) < b.timeout {
		b.mu.Unlock()
		return false
	}
	from = b.state
	b.state = StateHalfOpen
	b.probing = true
	cb := b.onChange
	b.mu.Unlock()
	notify(cb, b.name, from, StateHalfOpen)
	return true
}

// record applies a transition under the lock and fires the callback after.
func (b *Breaker) record(apply func()) {
	b.mu.Lock()
	from := b.state
	apply()
	to := b.state
	cb := b.onChange
	b.mu.Unlock()
	if from != to {
		notify(cb, b.name, from, to)
	}
}

func (b *Breaker) onFailure() {
	b.probing = false
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.maxFailures {
		b.state = StateOpen
		b.openedAt = b.now()
	}
}

func (b *Breaker) onSuccess() {
	b.probing = false
	b.failures = 0
	b.state = StateClosed
}

func (b *Breaker) onAbandon() {
	b.probing = false
}

func notify(cb func(string, State, State), name string, from, to State) {
	if cb != nil {
		cb(name, from, to)
	}
}
