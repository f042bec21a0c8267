package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/antoniostano/magana/internal/conversation"
)

func TestHTTPAdapterGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "key123" {
			t.Errorf("missing api key header")
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["system_instruction"] == nil {
			t.Errorf("system instruction missing")
		}
		contents, _ := req["contents"].([]any)
		if len(contents) != 2 {
			t.Errorf("contents length = %d, want history + new turn", len(contents))
		}

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"reply_text\":\"Lafiya\"}"}]}}]}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter("key123", srv.URL, "", 2*time.Second)
	raw, err := a.Generate(context.Background(), "system prompt", []conversation.Turn{
		{Role: conversation.RoleUser, Parts: []conversation.Part{conversation.TextPart("Ina kwana?")}},
		{Role: conversation.RoleModel, Parts: []conversation.Part{conversation.TextPart("Lafiya lau")}},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	reply, err := ParseReply(raw)
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	if reply.ReplyText != "Lafiya" {
		t.Fatalf("ReplyText = %q, want Lafiya", reply.ReplyText)
	}
}

func TestHTTPAdapterEncodesBinaryParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req wireRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		parts := req.Contents[0].Parts
		if len(parts) != 2 || parts[0].InlineData == nil {
			t.Errorf("expected inline_data part first, got %+v", parts)
		} else if parts[0].InlineData.MIMEType != "image/png" {
			t.Errorf("mime = %q, want image/png", parts[0].InlineData.MIMEType)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter("k", srv.URL, "", 2*time.Second)
	_, err := a.Generate(context.Background(), "sys", []conversation.Turn{
		conversation.UserTurn(
			conversation.BinaryPart([]byte{0x89, 0x50}, "image/png"),
			conversation.TextPart("describe"),
		),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestHTTPAdapterCarriesStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewHTTPAdapter("k", srv.URL, "", 2*time.Second)
	_, err := a.Generate(context.Background(), "sys", []conversation.Turn{
		conversation.UserTurn(conversation.TextPart("q")),
	})
	if err == nil {
		t.Fatalf("Generate() should fail on 429")
	}
	if !IsRateLimited(err) {
		t.Fatalf("429 should classify as rate limited, got %v", err)
	}
}

func TestHTTPAdapterRejectsEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter("k", srv.URL, "", 2*time.Second)
	_, err := a.Generate(context.Background(), "sys", []conversation.Turn{
		conversation.UserTurn(conversation.TextPart("q")),
	})
	if err == nil {
		t.Fatalf("empty candidate list should be a provider error")
	}
}

func TestNewAdapterModes(t *testing.T) {
	ctx := context.Background()

	if _, err := NewAdapter(ctx, Config{Mode: "bogus"}); err == nil {
		t.Fatalf("unknown mode should be rejected")
	}
	if _, err := NewAdapter(ctx, Config{Mode: "http"}); err == nil {
		t.Fatalf("http mode without key should be rejected")
	}
	if _, err := NewAdapter(ctx, Config{Mode: "genai"}); err == nil {
		t.Fatalf("genai mode without key should be rejected")
	}

	a, err := NewAdapter(ctx, Config{Mode: "mock"})
	if err != nil {
		t.Fatalf("mock mode error = %v", err)
	}
	if _, ok := a.(*MockAdapter); !ok {
		t.Fatalf("mock mode adapter = %T", a)
	}

	// Auto without a key falls back to the mock transport.
	a, err = NewAdapter(ctx, Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("auto mode error = %v", err)
	}
	if _, ok := a.(*MockAdapter); !ok {
		t.Fatalf("auto mode without key = %T, want mock", a)
	}
}
