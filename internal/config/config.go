package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the Magana assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	BrainAdapterMode string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiTimeout    time.Duration

	SerperAPIKey     string
	SerperBaseURL    string
	SerperTimeout    time.Duration
	SearchCacheTTL   time.Duration
	SearchMaxResults int

	TTSAPIKey       string
	TTSBaseURL      string
	TTSDefaultVoice string
	TTSTimeout      time.Duration
	AudioCacheDir   string

	FeatureAudioInput bool
	FeatureVision     bool

	RedisURL    string
	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "magana"),
		BrainAdapterMode: envOrDefault("BRAIN_ADAPTER_MODE", "auto"),
		GeminiAPIKey:     envTrimmed("GEMINI_API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL_ID", "gemini-2.0-flash"),
		GeminiBaseURL:    envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		SerperAPIKey:     envTrimmed("SERPER_API_KEY"),
		SerperBaseURL:    envOrDefault("SERPER_BASE_URL", "https://google.serper.dev"),
		TTSAPIKey:        envTrimmed("YARNGPT_API_KEY"),
		TTSBaseURL:       envOrDefault("YARNGPT_BASE_URL", "https://yarngpt.ai/api/v1"),
		TTSDefaultVoice:  envOrDefault("TTS_DEFAULT_VOICE_ID", "Umar"),
		AudioCacheDir:    envOrDefault("AUDIO_CACHE_DIR", filepath.Join(os.TempDir(), "magana_cache")),
		RedisURL:         envTrimmed("REDIS_URL"),
		DatabaseURL:      envTrimmed("DATABASE_URL"),
		ShutdownTimeout:  15 * time.Second,
		GeminiTimeout:    60 * time.Second,
		SerperTimeout:    6 * time.Second,
		SearchCacheTTL:   2 * time.Minute,
		SearchMaxResults: 3,
		TTSTimeout:       30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.GeminiTimeout, err = durationFromEnv("GEMINI_TIMEOUT", cfg.GeminiTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SerperTimeout, err = durationFromEnv("SERPER_TIMEOUT", cfg.SerperTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SearchCacheTTL, err = durationFromEnv("SEARCH_CACHE_TTL", cfg.SearchCacheTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.SearchMaxResults, err = intFromEnv("SEARCH_MAX_RESULTS", cfg.SearchMaxResults)
	if err != nil {
		return Config{}, err
	}
	cfg.TTSTimeout, err = durationFromEnv("TTS_TIMEOUT", cfg.TTSTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.FeatureAudioInput, err = boolFromEnv("FEATURE_AUDIO_INPUT", false)
	if err != nil {
		return Config{}, err
	}
	cfg.FeatureVision, err = boolFromEnv("FEATURE_VISION", false)
	if err != nil {
		return Config{}, err
	}

	if cfg.SearchMaxResults <= 0 {
		return Config{}, fmt.Errorf("SEARCH_MAX_RESULTS must be positive")
	}
	if cfg.SerperTimeout <= 0 {
		return Config{}, fmt.Errorf("SERPER_TIMEOUT must be positive")
	}
	if cfg.SearchCacheTTL <= 0 {
		return Config{}, fmt.Errorf("SEARCH_CACHE_TTL must be positive")
	}
	if strings.TrimSpace(cfg.AudioCacheDir) == "" {
		return Config{}, fmt.Errorf("AUDIO_CACHE_DIR must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
