package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/antoniostano/magana/internal/conversation"
)

// MockAdapter produces deterministic schema-conforming replies when no
// generative endpoint is configured.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Generate(ctx context.Context, _ string, turns []conversation.Turn) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	reply := Reply{
		ReplyText:          buildMockReply(turns),
		EnglishTranslation: "I heard you.",
		Steps:              []string{},
		Intent:             "chat",
	}
	raw, err := json.Marshal(reply)
	if err != nil {
		return "", fmt.Errorf("marshal mock reply: %w", err)
	}
	return string(raw), nil
}

func buildMockReply(turns []conversation.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != conversation.RoleUser {
			continue
		}
		for _, p := range turns[i].Parts {
			if !p.IsBinary() && strings.TrimSpace(p.Text) != "" {
				return fmt.Sprintf("Na ji ka: %s", strings.TrimSpace(p.Text))
			}
		}
	}
	return "Ina sauraro."
}
