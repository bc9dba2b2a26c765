// SPDX-License-Identifier: MIT

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/resilience"
)

// ErrUnavailable is returned by a guarded store while its breaker is open.
var ErrUnavailable = errors.New("document store unavailable")

// IsRemoteFailure reports whether err says something about the health of
// the backend. Missing documents and caller cancellation do not.
func IsRemoteFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// NewBreaker creates a circuit breaker that only counts backend failures.
func NewBreaker(name string, threshold int, reset time.Duration) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(name, threshold, reset, resilience.WithFailureFilter(IsRemoteFailure))
}

// WithBreaker guards every call to s with cb. While the breaker is open,
// calls fail fast with ErrUnavailable.
func WithBreaker(s Store, cb *resilience.CircuitBreaker) Store {
	return &guarded{next: s, cb: cb}
}

type guarded struct {
	next Store
	cb   *resilience.CircuitBreaker
}

func (g *guarded) ReadText(ctx context.Context, location string) ([]byte, error) {
	var data []byte
	err := g.cb.Execute(func() error {
		var err error
		data, err = g.next.ReadText(ctx, location)
		return err
	})
	return data, g.mapErr(err)
}

func (g *guarded) WriteText(ctx context.Context, location string, data []byte) error {
	return g.mapErr(g.cb.Execute(func() error {
		return g.next.WriteText(ctx, location, data)
	}))
}

func (g *guarded) Close() error { return g.next.Close() }

// Unwrap returns the guarded store.
func (g *guarded) Unwrap() Store { return g.next }

func (g *guarded) mapErr(err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, g.cb.Name(), err)
	}
	return err
}
