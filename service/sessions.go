package service

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/ibreez3/socratic-relay/metrics"
	"github.com/ibreez3/socratic-relay/tutor"
)

const DefaultSession = "default"

// Sessions owns the server held conversations. Without session keying every
// caller shares DefaultSession. Idle sessions expire after ttl and the least
// recently used one is dropped once max is reached.
type Sessions struct {
	mu      sync.Mutex
	convs   *expirable.LRU[string, *tutor.Conversation]
	metrics *metrics.Metrics
}

func NewSessions(max int, ttl time.Duration, m *metrics.Metrics) *Sessions {
	if max <= 0 {
		max = 1
	}
	return &Sessions{
		convs:   expirable.NewLRU[string, *tutor.Conversation](max, nil, ttl),
		metrics: m,
	}
}

// Get returns the conversation for id, creating it on first use. Each call
// restarts the idle timer.
func (s *Sessions) Get(id string) *tutor.Conversation {
	id = normalizeSession(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs.Get(id)
	if !ok {
		conv = tutor.NewConversation()
	}
	s.convs.Add(id, conv)
	s.metrics.SetSessions(s.convs.Len())
	return conv
}

// Reset clears the conversation for id and returns the number of dropped
// turns. Unknown sessions report zero.
func (s *Sessions) Reset(id string) int {
	id = normalizeSession(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs.Peek(id)
	if !ok {
		return 0
	}
	return conv.Clear()
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convs.Len()
}

func normalizeSession(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultSession
	}
	return id
}
