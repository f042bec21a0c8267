package voice

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// AudioCache is a content-addressed on-disk cache for synthesized speech.
// The key is a deterministic hash of (voice identity, exact text); file
// presence is the only validity check, and entries are write-once.
type AudioCache struct {
	dir string
}

func NewAudioCache(dir string) (*AudioCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}
	return &AudioCache{dir: dir}, nil
}

func (c *AudioCache) path(text, voiceID string) string {
	sum := sha256.Sum256([]byte(voiceID + "_" + text))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".mp3")
}

func (c *AudioCache) Get(text, voiceID string) ([]byte, bool) {
	audio, err := os.ReadFile(c.path(text, voiceID))
	if err != nil {
		return nil, false
	}
	return audio, true
}

func (c *AudioCache) Put(text, voiceID string, audio []byte) error {
	path := c.path(text, voiceID)
	if _, err := os.Stat(path); err == nil {
		// Write-once: identical keys are expected to carry identical content.
		return nil
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("persist audio: %w", err)
	}
	return nil
}
