package service

import (
	"testing"
	"time"

	"github.com/ibreez3/socratic-relay/tutor"
	"github.com/stretchr/testify/assert"
)

func TestSessionsDefaultKey(t *testing.T) {
	s := NewSessions(4, time.Hour, nil)
	a := s.Get("")
	b := s.Get("  ")
	c := s.Get(DefaultSession)
	assert.Same(t, a, b)
	assert.Same(t, a, c)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsReset(t *testing.T) {
	s := NewSessions(4, time.Hour, nil)
	conv := s.Get("alice")
	conv.Append(tutor.Turn{Role: tutor.RoleStudent, Text: "What is DFS?"})
	conv.Append(tutor.Turn{Role: tutor.RoleAssistant, Text: "What would you visit first?"})

	assert.Equal(t, 2, s.Reset("alice"))
	assert.Equal(t, 0, s.Get("alice").Len())
	assert.Equal(t, 0, s.Reset("nobody"))
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	s := NewSessions(2, time.Hour, nil)
	s.Get("a").Append(tutor.Turn{Role: tutor.RoleStudent, Text: "a"})
	s.Get("b")
	s.Get("a")
	s.Get("c")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Get("a").Len())
}

func TestSessionsExpireWhenIdle(t *testing.T) {
	s := NewSessions(4, 20*time.Millisecond, nil)
	s.Get("a").Append(tutor.Turn{Role: tutor.RoleStudent, Text: "a"})

	assert.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.Get("a").Len())
}
