package review

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewReview(t *testing.T) {
	t.Run("creates valid review", func(t *testing.T) {
		r, err := NewReview(uuid.New(), uuid.New(), uuid.New(), 4, "solid product", testNow)

		require.NoError(t, err)
		assert.Equal(t, 4, r.Rating)
	})

	t.Run("rejects rating outside range", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := NewReview(uuid.New(), uuid.New(), uuid.New(), rating, "", testNow)
			assert.Error(t, err, "rating %d", rating)
		}
	})

	t.Run("accepts boundary ratings", func(t *testing.T) {
		for _, rating := range []int{1, 5} {
			_, err := NewReview(uuid.New(), uuid.New(), uuid.New(), rating, "", testNow)
			assert.NoError(t, err, "rating %d", rating)
		}
	})
}
