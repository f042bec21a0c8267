// Package document is the text-extraction boundary for uploaded files.
// PDF and DOCX parsing belongs to external collaborators behind the same
// interface; the built-in extractor handles plain-text files.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor converts an uploaded document file into plain text.
type Extractor interface {
	Extract(path string) (string, error)
}

type TextFileExtractor struct{}

func (TextFileExtractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported document type %q", ext)
	}
}
