package requests

import (
	"sync"
	"time"
)

// requestIDFormat keeps IDs lexicographically ordered by submission time,
// so sorting by ID is sorting by recency.
const requestIDFormat = "20060102150405"

// IDGenerator produces strictly increasing timestamp-shaped request IDs.
// Two submissions within the same second get consecutive IDs instead of
// colliding.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().Truncate(time.Second)
	if !t.After(g.last) {
		t = g.last.Add(time.Second)
	}
	g.last = t

	return t.Format(requestIDFormat)
}
