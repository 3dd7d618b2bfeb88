package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/traylingo/traylingo/pkg/cache"
	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/diag"
	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/pricing"
	"github.com/traylingo/traylingo/pkg/store"
	"github.com/traylingo/traylingo/pkg/tracker"
	"github.com/traylingo/traylingo/pkg/translate"
)

const settingsKey = "settings"

// Server is the traylingo daemon. Translations run through the shared
// Translator; live events go out over the WebSocket hub.
type Server struct {
	cfg        *config.Config
	translator *translate.Translator
	cache      *cache.Cache
	diag       *diag.Recorder
	tracker    tracker.Tracker
	store      *store.Store
	hub        *Hub
	mux        *http.ServeMux
}

// New creates a Server wired with all dependencies. tracker may be nil.
func New(cfg *config.Config, tr *translate.Translator, c *cache.Cache, d *diag.Recorder, tk tracker.Tracker, st *store.Store, hub *Hub) *Server {
	s := &Server{
		cfg:        cfg,
		translator: tr,
		cache:      c,
		diag:       d,
		tracker:    tk,
		store:      st,
		hub:        hub,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("/v1/translate", s.handleTranslate)
	s.mux.HandleFunc("/v1/cache/stats", s.handleCacheStats)
	s.mux.HandleFunc("/v1/cache/clear", s.handleCacheClear)
	s.mux.HandleFunc("/v1/errors", s.handleErrors)
	s.mux.HandleFunc("/v1/errors/clear", s.handleErrorsClear)
	s.mux.HandleFunc("/v1/usage", s.handleUsage)
	s.mux.HandleFunc("/v1/models", s.handleModels)
	s.mux.HandleFunc("/v1/settings", s.handleSettings)
	s.mux.HandleFunc("/ws", hub.ServeWS)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the daemon with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("traylingo daemon listening on %s", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

// translateRequest is the POST /v1/translate body.
type translateRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
	Model     string `json:"model,omitempty"`
	Stream    bool   `json:"stream,omitempty"`
}

// translateResponse is the synchronous reply. Streamed requests get only
// the session ID; the result arrives over the WebSocket.
type translateResponse struct {
	SessionID string               `json:"session_id"`
	Text      string               `json:"text,omitempty"`
	Usage     *models.UsagePayload `json:"usage,omitempty"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var req translateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeJSONError(w, http.StatusBadRequest, "text is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	treq := translate.Request{
		Text:      req.Text,
		SessionID: sessionID,
		Model:     s.resolveModel(req.Model),
		Stream:    true,
	}

	if req.Stream {
		// Deliver over the WebSocket; the caller polls the hub.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*s.cfg.API.Timeout)
			defer cancel()
			if err := s.translator.Translate(ctx, treq, s.hub); err != nil {
				s.hub.Fail(sessionID, asTranslateError(err))
			}
		}()
		writeJSON(w, http.StatusAccepted, translateResponse{SessionID: sessionID})
		return
	}

	col := &translate.Collector{}
	if err := s.translator.Translate(r.Context(), treq, col); err != nil {
		terr := asTranslateError(err)
		s.hub.Fail(sessionID, terr)
		writeJSON(w, statusForKind(terr.Kind), map[string]any{"session_id": sessionID, "error": terr})
		return
	}

	text, usage := col.Result()
	writeJSON(w, http.StatusOK, translateResponse{SessionID: sessionID, Text: text, Usage: &usage})
}

// resolveModel picks the request model, falling back to the persisted
// settings, then the configured default.
func (s *Server) resolveModel(requested string) string {
	if requested != "" {
		return requested
	}
	var settings models.Settings
	if ok, err := s.store.Get(settingsKey, &settings); err == nil && ok && settings.Model != "" {
		return settings.Model
	}
	return s.cfg.Model
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.cache.Clear(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "clear cache failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	history := s.diag.History()
	if history == nil {
		history = []models.ErrorRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleErrorsClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.diag.Clear(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "clear errors failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.tracker == nil {
		writeJSON(w, http.StatusOK, map[string]any{"models": []models.ModelSummary{}, "recent": []models.TranslationRecord{}})
		return
	}

	summaries, err := s.tracker.Summary(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "usage summary failed")
		return
	}
	recent, err := s.tracker.Recent(r.Context(), 50)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "usage query failed")
		return
	}
	if summaries == nil {
		summaries = []models.ModelSummary{}
	}
	if recent == nil {
		recent = []models.TranslationRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": summaries, "recent": recent})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, pricing.AvailableModels)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.currentSettings())
	case http.MethodPut:
		var settings models.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid settings body")
			return
		}
		if settings.Model != "" && !knownModel(settings.Model) {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown model %q", settings.Model))
			return
		}
		if err := s.store.Set(settingsKey, settings); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "persist settings failed")
			return
		}
		s.cache.SetEnabled(settings.CacheEnabled)
		s.diag.SetEnabled(settings.TelemetryEnabled)
		writeJSON(w, http.StatusOK, settings)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// currentSettings returns the persisted settings, or defaults derived from
// the config when none were saved yet.
func (s *Server) currentSettings() models.Settings {
	var settings models.Settings
	if ok, err := s.store.Get(settingsKey, &settings); err == nil && ok {
		return settings
	}
	return models.Settings{
		Model:            s.cfg.Model,
		CacheEnabled:     s.cfg.Cache.Enabled,
		TelemetryEnabled: s.cfg.Telemetry.Enabled,
	}
}

func knownModel(model string) bool {
	for _, m := range pricing.AvailableModels {
		if m.ID == model {
			return true
		}
	}
	return false
}

// asTranslateError normalizes any Translate error into the closed taxonomy.
func asTranslateError(err error) *translate.Error {
	var terr *translate.Error
	if errors.As(err, &terr) {
		return terr
	}
	return &translate.Error{Kind: translate.KindUnknown, Message: err.Error()}
}

// statusForKind maps an error kind to the HTTP status reported to local
// clients.
func statusForKind(kind translate.Kind) int {
	switch kind {
	case translate.KindAPIKeyMissing, translate.KindAuthenticationFailed:
		return http.StatusUnauthorized
	case translate.KindRateLimitExceeded:
		return http.StatusTooManyRequests
	case translate.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"message":%q,"code":%d}}`, message, code)
}
