package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/antoniostano/magana/internal/conversation"
)

// GenAIAdapter talks to the Gemini API through the official SDK.
type GenAIAdapter struct {
	client *genai.Client
	model  string
}

func NewGenAIAdapter(ctx context.Context, apiKey, model string) (*GenAIAdapter, error) {
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIAdapter{client: client, model: model}, nil
}

func (a *GenAIAdapter) Generate(ctx context.Context, systemPrompt string, turns []conversation.Turn) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			if p.IsBinary() {
				parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIME))
			} else {
				parts = append(parts, genai.NewPartFromText(p.Text))
			}
		}
		role := genai.RoleUser
		if t.Role == conversation.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{Role: string(role), Parts: parts})
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", wrapGenAIError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ProviderError{Message: "empty model response"}
	}
	return text, nil
}

func wrapGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return &ProviderError{Message: err.Error()}
}
