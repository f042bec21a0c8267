package brain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reply is the structured answer contract shared with the generative
// endpoint: the system prompt instructs the model to always emit valid
// JSON matching this shape.
type Reply struct {
	Transcription      string   `json:"transcription"`
	ReplyText          string   `json:"reply_text"`
	EnglishTranslation string   `json:"english_translation"`
	ProverbUsed        string   `json:"proverb_used"`
	Steps              []string `json:"steps"`
	Analysis           string   `json:"analysis"`
	Intent             string   `json:"intent"`
}

// ParseReply decodes the raw model output. Models occasionally wrap JSON
// in a markdown fence even when asked for a JSON response, so fences are
// stripped before decoding.
func ParseReply(raw string) (Reply, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var reply Reply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return Reply{}, fmt.Errorf("malformed model reply: %w", err)
	}
	if reply.Steps == nil {
		reply.Steps = []string{}
	}
	if reply.Intent == "" {
		reply.Intent = "chat"
	}
	return reply, nil
}
