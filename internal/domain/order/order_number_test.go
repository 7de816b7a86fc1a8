package order

import (
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestNumberGenerator(t *testing.T) {
	t.Run("formats with millis and zero-padded sequence", func(t *testing.T) {
		clock := shared.FixedClock{Instant: time.UnixMilli(1748779200000)}
		gen := NewNumberGenerator(clock)

		assert.Equal(t, "ORD-1748779200000-0000", gen.Next())
	})

	t.Run("sequence increments within the same millisecond", func(t *testing.T) {
		clock := shared.FixedClock{Instant: time.UnixMilli(1748779200000)}
		gen := NewNumberGenerator(clock)

		gen.Next()
		assert.Equal(t, "ORD-1748779200000-0001", gen.Next())
		assert.Equal(t, "ORD-1748779200000-0002", gen.Next())
	})

	t.Run("sequence resets when the clock advances", func(t *testing.T) {
		clock := &steppingClock{instant: time.UnixMilli(1748779200000)}
		gen := NewNumberGenerator(clock)

		assert.Equal(t, "ORD-1748779200000-0000", gen.Next())
		clock.instant = clock.instant.Add(time.Millisecond)
		assert.Equal(t, "ORD-1748779200001-0000", gen.Next())
	})

	t.Run("concurrent calls never collide", func(t *testing.T) {
		clock := shared.FixedClock{Instant: time.UnixMilli(1748779200000)}
		gen := NewNumberGenerator(clock)

		const workers = 50
		results := make(chan string, workers)
		for i := 0; i < workers; i++ {
			go func() {
				results <- gen.Next()
			}()
		}

		seen := make(map[string]bool, workers)
		for i := 0; i < workers; i++ {
			number := <-results
			assert.False(t, seen[number], "duplicate order number %s", number)
			seen[number] = true
		}
	})
}

type steppingClock struct {
	instant time.Time
}

func (c *steppingClock) Now() time.Time {
	return c.instant
}
