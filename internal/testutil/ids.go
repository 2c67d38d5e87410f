package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs generates predictable ids: "<prefix>-0001", "<prefix>-0002", ...
// with an independent counter per prefix.
//
// Thread-safety: SequenceIDs is safe for concurrent use via internal mutex.
type SequenceIDs struct {
	mu   sync.Mutex
	next map[string]int
}

func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{next: map[string]int{}}
}

// NewID returns the next id for prefix.
func (g *SequenceIDs) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[prefix]++
	return fmt.Sprintf("%s-%04d", prefix, g.next[prefix])
}
