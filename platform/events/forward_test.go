package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key     string
	payload any
}

type recordingSink struct {
	mu       sync.Mutex
	messages []published
	failKey  string
}

func (s *recordingSink) Publish(_ context.Context, key string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.failKey {
		return errors.New("broker unavailable")
	}
	s.messages = append(s.messages, published{key: key, payload: payload})
	return nil
}

func TestForward_WhenChannelClosed_ThenForwardsAllAndReturns(t *testing.T) {
	// Arrange
	sub := make(chan string, 3)
	sub <- "read"
	sub <- "update"
	sub <- "delete"
	close(sub)
	sink := &recordingSink{}

	// Act
	res := Forward(context.Background(), sub, sink, func(s string) string { return s }, nil)

	// Assert
	assert.Equal(t, ForwardResult{Forwarded: 3}, res)
	require.Len(t, sink.messages, 3)
	assert.Equal(t, published{key: "update", payload: "update"}, sink.messages[1])
}

func TestForward_WhenSinkFails_ThenCountsAndContinues(t *testing.T) {
	sub := make(chan string, 2)
	sub <- "bad"
	sub <- "good"
	close(sub)
	sink := &recordingSink{failKey: "bad"}

	res := Forward(context.Background(), sub, sink, func(s string) string { return s }, nil)

	assert.Equal(t, ForwardResult{Forwarded: 1, Failed: 1}, res)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, "good", sink.messages[0].key)
}

func TestForward_WhenContextCancelled_ThenStops(t *testing.T) {
	sub := make(chan int)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan ForwardResult, 1)

	go func() {
		done <- Forward(ctx, sub, &recordingSink{}, func(int) string { return "" }, nil)
	}()
	cancel()

	select {
	case res := <-done:
		assert.Zero(t, res.Forwarded)
	case <-time.After(2 * time.Second):
		t.Fatal("forward did not stop after cancel")
	}
}

func TestForward_WhenContextAlreadyDone_ThenLeavesBufferedEvents(t *testing.T) {
	sub := make(chan string, 2)
	sub <- "read"
	sub <- "update"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{}

	res := Forward(ctx, sub, sink, func(s string) string { return s }, nil)

	assert.Equal(t, ForwardResult{}, res)
	assert.Empty(t, sink.messages)
	assert.Len(t, sub, 2)
}
