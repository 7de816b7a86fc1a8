package order

import (
	"fmt"
	"sync"

	"github.com/marketplace/backend/internal/domain/shared"
)

// NumberGenerator produces order numbers of the form
// ORD-{unix milliseconds}-{zero-padded sequence}. The sequence resets
// each millisecond, so numbers from one generator are unique and
// sortable by creation time.
type NumberGenerator struct {
	clock shared.Clock

	mu         sync.Mutex
	lastMillis int64
	sequence   int
}

// NewNumberGenerator creates a generator driven by the given clock
func NewNumberGenerator(clock shared.Clock) *NumberGenerator {
	return &NumberGenerator{clock: clock}
}

// Next returns the next order number
func (g *NumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.clock.Now().UnixMilli()
	if millis == g.lastMillis {
		g.sequence++
	} else {
		g.lastMillis = millis
		g.sequence = 0
	}

	return fmt.Sprintf("ORD-%d-%04d", millis, g.sequence)
}
