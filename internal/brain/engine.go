package brain

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/antoniostano/magana/internal/compose"
	"github.com/antoniostano/magana/internal/conversation"
	"github.com/antoniostano/magana/internal/observability"
	"github.com/antoniostano/magana/internal/persona"
)

// Localized replies for input channels that are disabled by configuration.
const (
	disabledAudioReply  = "Yi hakuri, ba a kunna amsa murya ba a yanzu."
	disabledVisionReply = "Yi hakuri, ba a kunna duban hotuna ba a yanzu."

	disabledAudioEnglish  = "Please send text input for now."
	disabledVisionEnglish = "Please use chat mode while vision support is disabled."
)

// Options gates optional input channels and bounds search augmentation.
type Options struct {
	AudioEnabled  bool
	VisionEnabled bool
	MaxResults    int
}

// TurnRequest is one inbound turn with its candidate channels and
// context fields.
type TurnRequest struct {
	SessionID    string
	Text         string
	DocumentText string
	AudioData    []byte
	AudioMIME    string
	ImageData    []byte
	ImageName    string
	Mode         string
	Age          string
	Gender       string
	Reasoning    bool
	Search       bool
}

// Engine runs the full turn pipeline: compose the user turn, derive the
// persona prompt, call the generative endpoint, parse the structured
// reply, and record the exchange. Memory is only written after a fully
// successful call.
type Engine struct {
	adapter Adapter
	store   conversation.Store
	search  compose.Searcher
	metrics *observability.Metrics
	opts    Options
}

func NewEngine(adapter Adapter, store conversation.Store, search compose.Searcher, metrics *observability.Metrics, opts Options) *Engine {
	return &Engine{
		adapter: adapter,
		store:   store,
		search:  search,
		metrics: metrics,
		opts:    opts,
	}
}

// Respond never returns an error: every failure is translated into a
// localized reply with intent "error".
func (e *Engine) Respond(ctx context.Context, req TurnRequest) Reply {
	started := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.ObserveTurnLatency(time.Since(started))
		}
	}()

	if reply, blocked := e.checkDisabledChannels(req); blocked {
		return e.finish(compose.ChannelText, reply)
	}

	composed := compose.Compose(ctx, compose.Input{
		Text:         req.Text,
		DocumentText: req.DocumentText,
		AudioData:    req.AudioData,
		AudioMIME:    req.AudioMIME,
		ImageData:    req.ImageData,
		ImageName:    req.ImageName,
		Reasoning:    req.Reasoning,
		Search:       req.Search,
		MaxResults:   e.opts.MaxResults,
	}, e.search)

	systemPrompt := persona.SystemPrompt(persona.Context{
		Age:       req.Age,
		Gender:    req.Gender,
		Mode:      req.Mode,
		Reasoning: req.Reasoning,
		Search:    req.Search,
	})

	history, err := e.store.History(ctx, req.SessionID)
	if err != nil {
		log.Printf("history load failed for session %q: %v", req.SessionID, err)
		return e.fail(composed.Channel, err)
	}

	turns := make([]conversation.Turn, 0, len(history)+1)
	for _, r := range history {
		turns = append(turns, conversation.Turn{
			Role:  r.Role,
			Parts: []conversation.Part{conversation.TextPart(r.Content)},
		})
	}
	turns = append(turns, conversation.UserTurn(composed.Parts...))

	raw, err := e.adapter.Generate(ctx, systemPrompt, turns)
	if err != nil {
		log.Printf("generate failed for session %q: %v", req.SessionID, err)
		return e.fail(composed.Channel, err)
	}

	reply, err := ParseReply(raw)
	if err != nil {
		log.Printf("reply parse failed for session %q: %v", req.SessionID, err)
		return e.fail(composed.Channel, &ProviderError{Message: err.Error()})
	}
	reply.Transcription = composed.Label

	if err := e.store.AppendExchange(ctx, req.SessionID,
		conversation.Record{Content: composed.Label},
		conversation.Record{Content: reply.ReplyText},
	); err != nil {
		// The reply already exists; losing one history entry is preferable
		// to failing the whole turn.
		log.Printf("history append failed for session %q: %v", req.SessionID, err)
	}

	return e.finish(composed.Channel, reply)
}

// Clear removes a session's history and reports whether it existed.
func (e *Engine) Clear(ctx context.Context, sessionID string) (bool, error) {
	return e.store.Clear(ctx, sessionID)
}

// checkDisabledChannels blocks a turn only when the disabled channel
// would actually win precedence for it. The document check mirrors the
// composer's: a whitespace-only document does not claim the turn.
func (e *Engine) checkDisabledChannels(req TurnRequest) (Reply, bool) {
	if strings.TrimSpace(req.DocumentText) != "" {
		return Reply{}, false
	}
	if len(req.AudioData) > 0 && !e.opts.AudioEnabled {
		return Reply{
			ReplyText:          disabledAudioReply,
			EnglishTranslation: disabledAudioEnglish,
			Steps:              []string{},
			Intent:             "error",
		}, true
	}
	if len(req.ImageData) > 0 && len(req.AudioData) == 0 && !e.opts.VisionEnabled {
		return Reply{
			ReplyText:          disabledVisionReply,
			EnglishTranslation: disabledVisionEnglish,
			Steps:              []string{},
			Intent:             "error",
		}, true
	}
	return Reply{}, false
}

func (e *Engine) fail(channel compose.Channel, err error) Reply {
	if e.metrics != nil {
		e.metrics.ProviderErrors.WithLabelValues(classify(err)).Inc()
	}
	return e.finish(channel, FallbackReply(err))
}

func (e *Engine) finish(channel compose.Channel, reply Reply) Reply {
	if e.metrics != nil {
		e.metrics.Turns.WithLabelValues(string(channel), reply.Intent).Inc()
	}
	return reply
}

func classify(err error) string {
	switch {
	case IsRateLimited(err):
		return "rate_limit"
	case IsAuthFailure(err):
		return "auth"
	default:
		return "network"
	}
}
