package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestSleepWithContext(t *testing.T) {
	clock := clockwork.NewFakeClock()

	t.Run("zero duration returns immediately", func(t *testing.T) {
		assert.True(t, sleepWithContext(context.Background(), clock, 0))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.False(t, sleepWithContext(ctx, clock, time.Minute))
	})

	t.Run("timer fires", func(t *testing.T) {
		done := make(chan bool, 1)
		go func() { done <- sleepWithContext(context.Background(), clock, time.Minute) }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(time.Minute)
		assert.True(t, <-done)
	})
}
