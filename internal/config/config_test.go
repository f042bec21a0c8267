package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.BrainAdapterMode != "auto" {
		t.Fatalf("BrainAdapterMode = %q, want %q", cfg.BrainAdapterMode, "auto")
	}
	if cfg.SerperTimeout != 6*time.Second {
		t.Fatalf("SerperTimeout = %v, want 6s", cfg.SerperTimeout)
	}
	if cfg.SearchCacheTTL != 2*time.Minute {
		t.Fatalf("SearchCacheTTL = %v, want 2m", cfg.SearchCacheTTL)
	}
	if cfg.SearchMaxResults != 3 {
		t.Fatalf("SearchMaxResults = %d, want 3", cfg.SearchMaxResults)
	}
	if cfg.TTSDefaultVoice != "Umar" {
		t.Fatalf("TTSDefaultVoice = %q, want %q", cfg.TTSDefaultVoice, "Umar")
	}
	if cfg.FeatureAudioInput || cfg.FeatureVision {
		t.Fatalf("audio/vision features should default off")
	}
}

func TestLoadExplicitOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("SERPER_TIMEOUT", "2s")
	t.Setenv("SEARCH_MAX_RESULTS", "5")
	t.Setenv("FEATURE_VISION", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.SerperTimeout != 2*time.Second {
		t.Fatalf("SerperTimeout = %v, want 2s", cfg.SerperTimeout)
	}
	if cfg.SearchMaxResults != 5 {
		t.Fatalf("SearchMaxResults = %d, want 5", cfg.SearchMaxResults)
	}
	if !cfg.FeatureVision {
		t.Fatalf("FeatureVision = false, want true")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("SEARCH_MAX_RESULTS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject non-positive SEARCH_MAX_RESULTS")
	}

	setCoreEnvEmpty(t)
	t.Setenv("FEATURE_AUDIO_INPUT", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject malformed bool")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"BRAIN_ADAPTER_MODE",
		"GEMINI_API_KEY",
		"GEMINI_MODEL_ID",
		"GEMINI_BASE_URL",
		"GEMINI_TIMEOUT",
		"SERPER_API_KEY",
		"SERPER_BASE_URL",
		"SERPER_TIMEOUT",
		"SEARCH_CACHE_TTL",
		"SEARCH_MAX_RESULTS",
		"YARNGPT_API_KEY",
		"YARNGPT_BASE_URL",
		"TTS_DEFAULT_VOICE_ID",
		"TTS_TIMEOUT",
		"AUDIO_CACHE_DIR",
		"FEATURE_AUDIO_INPUT",
		"FEATURE_VISION",
		"REDIS_URL",
		"DATABASE_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
