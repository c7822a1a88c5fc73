package ad

import (
	"sync"

	"github.com/google/uuid"
)

// PlacementIDGenerator mints placement ids for newly rendered ads.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type PlacementIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 placement ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined placement ids for testing.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, which means the test minted more
// placements than it declared.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all placement ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
