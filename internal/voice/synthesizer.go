// Package voice synthesizes Hausa speech audio through an external
// provider, fronted by a content-addressed on-disk cache.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Synthesizer turns text into speech audio for a given voice identity.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

type YarnGPTConfig struct {
	APIKey       string
	BaseURL      string
	DefaultVoice string
	Timeout      time.Duration
}

// YarnGPTProvider calls the YarnGPT text-to-speech HTTP API.
type YarnGPTProvider struct {
	cfg        YarnGPTConfig
	httpClient *http.Client
}

func NewYarnGPTProvider(cfg YarnGPTConfig) *YarnGPTProvider {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://yarngpt.ai/api/v1"
	}
	if strings.TrimSpace(cfg.DefaultVoice) == "" {
		cfg.DefaultVoice = "Umar"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &YarnGPTProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *YarnGPTProvider) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	if strings.TrimSpace(voiceID) == "" {
		voiceID = p.cfg.DefaultVoice
	}

	body, err := json.Marshal(map[string]any{
		"text":            text,
		"voice":           voiceID,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.cfg.BaseURL, "/")+"/tts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("tts provider status %d: %s", res.StatusCode, string(detail))
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}

// CachedSynthesizer serves repeated (voice, text) requests from the disk
// cache and only calls the provider on a miss. A provider failure caches
// nothing, so the next identical request retries the network call.
type CachedSynthesizer struct {
	cache    *AudioCache
	provider Synthesizer
}

func NewCachedSynthesizer(cache *AudioCache, provider Synthesizer) *CachedSynthesizer {
	return &CachedSynthesizer{cache: cache, provider: provider}
}

func (s *CachedSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if audio, ok := s.cache.Get(text, voiceID); ok {
		return audio, nil
	}

	audio, err := s.provider.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(text, voiceID, audio); err != nil {
		// Serving the audio matters more than caching it.
		return audio, nil
	}
	return audio, nil
}
