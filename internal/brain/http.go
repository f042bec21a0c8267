package brain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/magana/internal/conversation"
)

// HTTPAdapter talks to the Gemini generateContent wire directly, for
// deployments that cannot carry the SDK dependency chain.
type HTTPAdapter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewHTTPAdapter(apiKey, baseURL, model string, timeout time.Duration) *HTTPAdapter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPAdapter{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inline_data,omitempty"`
}

type wireInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wireRequest struct {
	SystemInstruction *wireContent  `json:"system_instruction,omitempty"`
	Contents          []wireContent `json:"contents"`
	GenerationConfig  struct {
		ResponseMIMEType string `json:"response_mime_type"`
	} `json:"generationConfig"`
}

type wireResponse struct {
	Candidates []struct {
		Content struct {
			Parts []wirePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (a *HTTPAdapter) Generate(ctx context.Context, systemPrompt string, turns []conversation.Turn) (string, error) {
	payload := wireRequest{
		SystemInstruction: &wireContent{Parts: []wirePart{{Text: systemPrompt}}},
		Contents:          make([]wireContent, 0, len(turns)),
	}
	payload.GenerationConfig.ResponseMIMEType = "application/json"

	for _, t := range turns {
		wc := wireContent{Role: string(t.Role)}
		for _, p := range t.Parts {
			if p.IsBinary() {
				wc.Parts = append(wc.Parts, wirePart{InlineData: &wireInlineData{
					MIMEType: p.MIME,
					Data:     base64.StdEncoding.EncodeToString(p.Data),
				}})
			} else {
				wc.Parts = append(wc.Parts, wirePart{Text: p.Text})
			}
		}
		payload.Contents = append(payload.Contents, wc)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(a.baseURL, "/"), a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	res, err := a.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", &ProviderError{StatusCode: res.StatusCode, Message: string(detail)}
	}

	var parsed wireResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Message: "no candidates in response"}
	}

	var out strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", &ProviderError{Message: "empty model response"}
	}
	return out.String(), nil
}
