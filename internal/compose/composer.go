// Package compose turns the candidate input channels of one request into
// the ordered parts of a user turn plus a compact label for history.
package compose

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/antoniostano/magana/internal/conversation"
)

// Channel identifies which input channel won precedence for a turn.
type Channel string

const (
	ChannelDocument Channel = "document"
	ChannelAudio    Channel = "audio"
	ChannelImage    Channel = "image"
	ChannelSearch   Channel = "search"
	ChannelText     Channel = "text"
)

// DocumentCharLimit bounds extracted document text before prompt injection.
const DocumentCharLimit = 30000

const (
	documentInstruction  = "SUMMARIZE THIS DOCUMENT IN HAUSA BULLET POINTS:\n"
	audioInstruction     = "Transcribe this audio and respond in Hausa."
	imageInstruction     = "Describe this image in detail in Hausa."
	reasoningInstruction = "Yi tunani mai zurfi (Think deeply). Break it down step by step."
)

// Searcher augments a query with formatted web results. ok is false when no
// usable results are available; the turn then proceeds as plain text.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (results string, ok bool)
}

// Input carries the candidate channels and flags of one inbound turn.
type Input struct {
	Text         string
	DocumentText string
	AudioData    []byte
	AudioMIME    string
	ImageData    []byte
	ImageName    string
	Reasoning    bool
	Search       bool
	MaxResults   int
}

// Result is the composed user turn content.
type Result struct {
	Parts   []conversation.Part
	Label   string
	Channel Channel
}

// Compose picks exactly one primary channel per turn. Precedence:
// document > audio > image > search-augmented text > plain text.
func Compose(ctx context.Context, in Input, search Searcher) Result {
	var res Result

	switch {
	case strings.TrimSpace(in.DocumentText) != "":
		safe := truncateRunes(in.DocumentText, DocumentCharLimit)
		res = Result{
			Parts:   []conversation.Part{conversation.TextPart(documentInstruction + safe)},
			Label:   "[Document Uploaded]",
			Channel: ChannelDocument,
		}

	case len(in.AudioData) > 0:
		mime := in.AudioMIME
		if mime == "" {
			mime = "audio/wav"
		}
		res = Result{
			Parts: []conversation.Part{
				conversation.BinaryPart(in.AudioData, mime),
				conversation.TextPart(audioInstruction),
			},
			Label:   "[Voice Note Sent]",
			Channel: ChannelAudio,
		}

	case len(in.ImageData) > 0:
		caption := strings.TrimSpace(in.Text)
		if caption == "" {
			caption = imageInstruction
		}
		res = Result{
			Parts: []conversation.Part{
				conversation.BinaryPart(in.ImageData, ImageMIME(in.ImageName)),
				conversation.TextPart(caption),
			},
			Label:   fmt.Sprintf("[Image Uploaded: %s]", caption),
			Channel: ChannelImage,
		}

	default:
		res = composeText(ctx, in, search)
	}

	if in.Reasoning {
		res.Parts = append(res.Parts, conversation.TextPart(reasoningInstruction))
	}
	return res
}

func composeText(ctx context.Context, in Input, search Searcher) Result {
	text := in.Text

	if in.Search && strings.TrimSpace(text) != "" && search != nil {
		if results, ok := search.Search(ctx, text, in.MaxResults); ok {
			return Result{
				Parts:   []conversation.Part{conversation.TextPart(results + "\n\nUSER QUESTION: " + text)},
				Label:   fmt.Sprintf("[Searched: %s]", text),
				Channel: ChannelSearch,
			}
		}
	}

	return Result{
		Parts:   []conversation.Part{conversation.TextPart(text)},
		Label:   text,
		Channel: ChannelText,
	}
}

// truncateRunes bounds s to max characters. The cut never lands inside a
// multi-byte rune, so the result is always valid UTF-8.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// ImageMIME infers the MIME type from the uploaded file name.
func ImageMIME(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
