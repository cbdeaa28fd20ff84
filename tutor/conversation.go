package tutor

import "sync"

// Conversation is the server held turn log of one session. Every method
// takes the lock for exactly one mutation or read, so turns from concurrent
// exchanges may interleave but are never lost or reordered after insertion.
type Conversation struct {
	mu    sync.Mutex
	turns []Turn
}

func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) Append(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, t)
}

// Snapshot returns a copy of the log in insertion order.
func (c *Conversation) Snapshot() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Clear empties the log and reports how many turns were dropped.
func (c *Conversation) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.turns)
	c.turns = nil
	return n
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
