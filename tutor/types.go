package tutor

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of a conversation log.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// HistoryItem is the wire shape of a client supplied turn.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ParseRole maps the role names used by chat frontends onto Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "user":
		return RoleStudent, nil
	case "assistant", "ai", "model":
		return RoleAssistant, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrMissingInput, s)
}

// TurnsFromHistory converts client history in order. Items with empty
// content are skipped.
func TurnsFromHistory(items []HistoryItem) ([]Turn, error) {
	turns := make([]Turn, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Content) == "" {
			continue
		}
		r, err := ParseRole(it.Role)
		if err != nil {
			return nil, err
		}
		turns = append(turns, Turn{Role: r, Text: it.Content})
	}
	return turns, nil
}
