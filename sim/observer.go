package sim

import (
	"context"
	"errors"
)

// Observer receives every completed generation.
// OnGeneration runs synchronously on the simulation goroutine; the next
// generation does not start until it returns. A non-nil error stops the run.
type Observer interface {
	OnGeneration(ctx context.Context, r *Report) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, r *Report) error

// OnGeneration calls f.
func (f ObserverFunc) OnGeneration(ctx context.Context, r *Report) error {
	return f(ctx, r)
}

// Observers fans a report out to each observer in order.
// Every observer runs; errors are joined.
type Observers []Observer

// OnGeneration calls every observer.
func (o Observers) OnGeneration(ctx context.Context, r *Report) error {
	var errs []error
	for _, obs := range o {
		if err := obs.OnGeneration(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
