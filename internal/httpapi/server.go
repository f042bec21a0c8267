// Package httpapi exposes the assistant over HTTP: one multipart chat
// endpoint, a session-clear control, speech synthesis, health, and
// metrics. All orchestration lives in the brain engine; handlers only
// translate transport concerns.
package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/antoniostano/magana/internal/brain"
	"github.com/antoniostano/magana/internal/config"
	"github.com/antoniostano/magana/internal/document"
	"github.com/antoniostano/magana/internal/observability"
	"github.com/antoniostano/magana/internal/voice"
)

const maxUploadBytes = 32 << 20

type Server struct {
	cfg       config.Config
	engine    *brain.Engine
	synth     voice.Synthesizer
	extractor document.Extractor
	metrics   *observability.Metrics
}

func New(cfg config.Config, engine *brain.Engine, synth voice.Synthesizer, extractor document.Extractor, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:       cfg,
		engine:    engine,
		synth:     synth,
		extractor: extractor,
		metrics:   metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/clear", s.handleClear)
	r.Post("/api/tts", s.handleTTS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type chatResponse struct {
	SessionID          string   `json:"session_id"`
	UserTranscription  string   `json:"user_transcription"`
	BotReply           string   `json:"bot_reply"`
	EnglishTranslation string   `json:"english_translation"`
	ProverbUsed        string   `json:"proverb_used"`
	Steps              []string `json:"steps"`
	Analysis           string   `json:"analysis"`
	Intent             string   `json:"intent"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart form"})
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	req := brain.TurnRequest{
		SessionID: sessionID,
		Text:      r.FormValue("text"),
		Mode:      formValueOrDefault(r, "mode", "chat"),
		Age:       formValueOrDefault(r, "user_age", "adult"),
		Gender:    formValueOrDefault(r, "user_gender", "male"),
		Reasoning: r.FormValue("reasoning_mode") == "true",
		Search:    r.FormValue("search_mode") == "true",
	}

	if file, header, err := r.FormFile("document"); err == nil {
		defer file.Close()
		text, err := s.extractUpload(file, header)
		if err != nil {
			log.Printf("document extraction failed: %v", err)
			respondJSON(w, http.StatusOK, inputErrorResponse(sessionID,
				"Yi hakuri, ba a iya karanta wannan fayil ba.",
				"Could not read the uploaded document."))
			return
		}
		req.DocumentText = text
		// Documents go through the teacher persona, as the original UI did.
		req.Mode = "teacher"
	}

	if file, header, err := r.FormFile("audio"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil || len(data) == 0 {
			respondJSON(w, http.StatusOK, inputErrorResponse(sessionID,
				"Yi hakuri, ba a iya karanta muryar ba.",
				"Could not read the uploaded audio."))
			return
		}
		req.AudioData = data
		req.AudioMIME = header.Header.Get("Content-Type")
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil || len(data) == 0 {
			respondJSON(w, http.StatusOK, inputErrorResponse(sessionID,
				"Yi hakuri, ba a iya karanta hoton ba.",
				"Could not read the uploaded image."))
			return
		}
		req.ImageData = data
		req.ImageName = header.Filename
		if req.DocumentText == "" && len(req.AudioData) == 0 {
			req.Mode = "vision"
		}
	}

	reply := s.engine.Respond(r.Context(), req)
	respondJSON(w, http.StatusOK, replyToResponse(sessionID, reply))
}

func (s *Server) extractUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "magana_upload_*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return s.extractor.Extract(tmp.Name())
}

type clearRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.SessionID) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "session_id is required"})
		return
	}

	existed, err := s.engine.Clear(r.Context(), req.SessionID)
	if err != nil {
		log.Printf("clear failed for session %q: %v", req.SessionID, err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "clear failed"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "cleared", "existed": existed})
}

type ttsRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "text is required"})
		return
	}
	if strings.TrimSpace(req.VoiceID) == "" {
		req.VoiceID = s.cfg.TTSDefaultVoice
	}

	audio, err := s.synth.Synthesize(r.Context(), req.Text, req.VoiceID)
	if err != nil {
		log.Printf("tts failed: %v", err)
		if s.metrics != nil {
			s.metrics.TTSRequests.WithLabelValues("error").Inc()
		}
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed"})
		return
	}
	if s.metrics != nil {
		s.metrics.TTSRequests.WithLabelValues("ok").Inc()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"audio_base64": base64.StdEncoding.EncodeToString(audio),
	})
}

func replyToResponse(sessionID string, reply brain.Reply) chatResponse {
	transcription := reply.Transcription
	if transcription == "" {
		transcription = "📎 Input Received"
	}
	botReply := reply.ReplyText
	if botReply == "" {
		botReply = "Yi hakuri."
	}
	steps := reply.Steps
	if steps == nil {
		steps = []string{}
	}
	return chatResponse{
		SessionID:          sessionID,
		UserTranscription:  transcription,
		BotReply:           botReply,
		EnglishTranslation: reply.EnglishTranslation,
		ProverbUsed:        reply.ProverbUsed,
		Steps:              steps,
		Analysis:           reply.Analysis,
		Intent:             reply.Intent,
	}
}

func inputErrorResponse(sessionID, replyText, english string) chatResponse {
	return replyToResponse(sessionID, brain.Reply{
		ReplyText:          replyText,
		EnglishTranslation: english,
		Steps:              []string{},
		Intent:             "error",
	})
}

func formValueOrDefault(r *http.Request, key, fallback string) string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return fallback
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
