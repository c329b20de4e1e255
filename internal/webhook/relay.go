package webhook

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jmehdipour/phone-engine/internal/model"
)

var (
	ErrNoHealthy = errors.New("no healthy webhook sinks")
	ErrNoAcquire = errors.New("webhook sink not acquired")
)

// Relay spreads deliveries round-robin over the sinks whose breaker is
// ready and retries up to maxAttempts times.
type Relay struct {
	sinks       []Sink
	rr          atomic.Uint64
	maxAttempts int
}

func NewRelay(sinks []Sink, maxAttempts int) *Relay {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Relay{sinks: sinks, maxAttempts: maxAttempts}
}

func (r *Relay) Len() int { return len(r.sinks) }

func (r *Relay) pick() (Sink, error) {
	healthy := make([]Sink, 0, len(r.sinks))
	for _, s := range r.sinks {
		if s.Ready() {
			healthy = append(healthy, s)
		}
	}
	if len(healthy) == 0 {
		return nil, ErrNoHealthy
	}

	x := r.rr.Add(1)
	return healthy[int((x-1)%uint64(len(healthy)))], nil
}

func (r *Relay) tryOnce(ctx context.Context, env model.Envelope) error {
	s, err := r.pick()
	if err != nil {
		return err
	}
	if !s.Acquire() {
		return ErrNoAcquire
	}
	return s.Deliver(ctx, env)
}

// Deliver returns nil as soon as one sink accepts env, else the last error.
func (r *Relay) Deliver(ctx context.Context, env model.Envelope) error {
	var last error
	for i := 0; i < r.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.tryOnce(ctx, env)
		if err == nil {
			return nil
		}
		last = err
	}
	return last
}
