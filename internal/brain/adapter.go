// Package brain composes augmented prompts, invokes the remote generative
// endpoint through a pluggable transport, and translates failures into
// localized fallback replies.
package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antoniostano/magana/internal/conversation"
)

// Adapter invokes the remote generative endpoint with a system prompt and
// the full turn list (history plus the new user turn), returning the raw
// response text.
type Adapter interface {
	Generate(ctx context.Context, systemPrompt string, turns []conversation.Turn) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode    string
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewAdapter selects the transport by configuration: the official SDK,
// the raw HTTP wire, or a deterministic mock. Auto prefers the SDK when
// an API key is present.
func NewAdapter(ctx context.Context, cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewGenAIAdapter(ctx, cfg.APIKey, cfg.Model)
		}
		return NewMockAdapter(), nil
	case "genai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("gemini API key is required for genai mode")
		}
		return NewGenAIAdapter(ctx, cfg.APIKey, cfg.Model)
	case "http":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("gemini API key is required for http mode")
		}
		return NewHTTPAdapter(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}
