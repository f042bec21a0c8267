// Package app wires configuration into the running service graph.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/antoniostano/magana/internal/brain"
	"github.com/antoniostano/magana/internal/compose"
	"github.com/antoniostano/magana/internal/config"
	"github.com/antoniostano/magana/internal/conversation"
	"github.com/antoniostano/magana/internal/document"
	"github.com/antoniostano/magana/internal/httpapi"
	"github.com/antoniostano/magana/internal/observability"
	"github.com/antoniostano/magana/internal/search"
	"github.com/antoniostano/magana/internal/voice"
)

type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Engine  *brain.Engine
	Metrics *observability.Metrics

	// Cleanup should be called on shutdown to release external resources
	// (redis or postgres connections).
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	store, err := conversation.NewStore(ctx, cfg.RedisURL, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("conversation store init failed: %w", err)
	}

	adapter, err := brain.NewAdapter(ctx, brain.Config{
		Mode:    cfg.BrainAdapterMode,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("brain adapter init failed: %w", err)
	}

	// A typed nil *search.Client must not end up inside the interface, so
	// the searcher stays nil unless a key is configured.
	var searcher compose.Searcher
	if strings.TrimSpace(cfg.SerperAPIKey) != "" {
		searcher = search.NewClient(search.Config{
			APIKey:     cfg.SerperAPIKey,
			BaseURL:    cfg.SerperBaseURL,
			Timeout:    cfg.SerperTimeout,
			CacheTTL:   cfg.SearchCacheTTL,
			MaxResults: cfg.SearchMaxResults,
		})
	} else {
		log.Printf("search augmentation disabled: SERPER_API_KEY is not set")
	}

	audioCache, err := voice.NewAudioCache(cfg.AudioCacheDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("audio cache init failed: %w", err)
	}
	synth := voice.NewCachedSynthesizer(audioCache, voice.NewYarnGPTProvider(voice.YarnGPTConfig{
		APIKey:       cfg.TTSAPIKey,
		BaseURL:      cfg.TTSBaseURL,
		DefaultVoice: cfg.TTSDefaultVoice,
		Timeout:      cfg.TTSTimeout,
	}))

	engine := brain.NewEngine(adapter, store, searcher, metrics, brain.Options{
		AudioEnabled:  cfg.FeatureAudioInput,
		VisionEnabled: cfg.FeatureVision,
		MaxResults:    cfg.SearchMaxResults,
	})

	api := httpapi.New(cfg, engine, synth, document.TextFileExtractor{}, metrics)

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Engine:  engine,
		Metrics: metrics,
		Cleanup: store.Close,
	}, nil
}
