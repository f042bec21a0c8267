package conversation

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// HistoryCap bounds per-session history to the most recent 20 turns
// (10 user/model exchanges). Older turns are evicted from the front.
const HistoryCap = 20

// Part is one unit of message content: plain text, or raw bytes with a
// MIME type for audio and image payloads.
type Part struct {
	Text string `json:"text,omitempty"`
	Data []byte `json:"data,omitempty"`
	MIME string `json:"mime_type,omitempty"`
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BinaryPart(data []byte, mime string) Part {
	return Part{Data: data, MIME: mime}
}

func (p Part) IsBinary() bool {
	return len(p.Data) > 0
}

// Turn is one message within a session, user or model, with at least one
// part for user turns.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

func UserTurn(parts ...Part) Turn {
	return Turn{Role: RoleUser, Parts: parts}
}

func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{TextPart(text)}}
}

// Record stores the compact textual representation of a turn kept in
// session history (the upload label for user turns, the reply text for
// model turns).
type Record struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
