package fakes

import (
	"context"
	"errors"
	"sync"
)

// FakeBus captures posted events and can simulate failures.
type FakeBus[T any] struct {
	mu        sync.Mutex
	Events    []T
	FailNext  bool
	FailError error
}

func (b *FakeBus[T]) Post(_ context.Context, event T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailNext {
		b.FailNext = false
		if b.FailError == nil {
			b.FailError = errors.New("post failed")
		}
		return b.FailError
	}
	b.Events = append(b.Events, event)
	return nil
}

// Posted returns a copy of the events recorded so far.
func (b *FakeBus[T]) Posted() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.Events))
	copy(out, b.Events)
	return out
}
