// Package translate implements the translation request pipeline: building
// the outbound completion request, decoding the SSE response stream,
// tracking usage and cost, and short-circuiting repeats through the cache.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/traylingo/traylingo/pkg/cache"
	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/diag"
	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/pricing"
	"github.com/traylingo/traylingo/pkg/sanitize"
	"github.com/traylingo/traylingo/pkg/secret"
)

// Emitter receives the observable events of one request, keyed by session
// ID. Chunks arrive in byte order; the usage event precedes done; nothing
// follows done.
type Emitter interface {
	Chunk(sessionID, text string)
	Usage(usage models.UsagePayload)
	Done(sessionID string)
}

// Ledger records completed translations for the usage history. Best-effort;
// failures are logged and never affect the request outcome.
type Ledger interface {
	Record(ctx context.Context, rec models.TranslationRecord) error
}

// Request is one translation invocation. APIKey overrides the secret
// provider when set. Stream selects incremental SSE delivery versus a
// single complete response.
type Request struct {
	Text      string
	SessionID string
	APIKey    string
	Model     string
	Stream    bool
}

// Translator drives translation requests end to end. One Translator serves
// many concurrent requests; all per-request state lives on the stack.
type Translator struct {
	endpoint     string
	version      string
	timeout      time.Duration
	defaultModel string

	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	cache   *cache.Cache
	diag    *diag.Recorder
	ledger  Ledger
	secrets secret.Provider
}

// New creates a Translator. cache, recorder, and ledger may be nil.
func New(cfg *config.Config, c *cache.Cache, recorder *diag.Recorder, ledger Ledger, secrets secret.Provider) *Translator {
	return &Translator{
		endpoint:     cfg.API.URL,
		version:      cfg.API.Version,
		timeout:      cfg.API.Timeout,
		defaultModel: cfg.Model,
		client:       &http.Client{Timeout: cfg.API.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "completion-endpoint",
			Timeout: 30 * time.Second,
		}),
		cache:   c,
		diag:    recorder,
		ledger:  ledger,
		secrets: secrets,
	}
}

// Translate runs one request. On success the emitter sees zero or more
// chunk events, one usage event, then done, and Translate returns nil. On
// failure it returns a *Error and the emitter sequence is not completed.
func (t *Translator) Translate(ctx context.Context, req Request, em Emitter) error {
	model := req.Model
	if model == "" {
		model = t.defaultModel
	}

	// Key check comes before any cache or network activity.
	key := req.APIKey
	if key == "" && t.secrets != nil {
		key, _ = t.secrets.Get()
	}
	if key == "" {
		return t.fail(&Error{Kind: KindAPIKeyMissing}, len(req.Text), model)
	}

	text := sanitize.Clean(req.Text)

	if t.cache != nil {
		if translated, ok := t.cache.Lookup(text, model); ok {
			em.Chunk(req.SessionID, translated)
			em.Usage(models.UsagePayload{SessionID: req.SessionID, Cached: true})
			em.Done(req.SessionID)
			t.record(ctx, models.TranslationRecord{
				SessionID: req.SessionID,
				Model:     model,
				Cached:    true,
				CreatedAt: time.Now().UTC(),
			})
			return nil
		}
	}

	body, err := json.Marshal(buildRequest(text, model, req.Stream))
	if err != nil {
		return t.fail(&Error{Kind: KindUnknown, Message: err.Error()}, len(req.Text), model)
	}

	resp, err := t.send(ctx, key, body)
	if err != nil {
		return t.fail(classifyTransport(err, t.timeout), len(req.Text), model)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return t.fail(classifyResponse(resp.StatusCode, respBody, resp.Header.Get("Retry-After")), len(req.Text), model)
	}

	if req.Stream {
		return t.consumeStream(ctx, resp.Body, req.SessionID, text, model, em)
	}
	return t.consumeOnce(ctx, resp.Body, req.SessionID, text, model, em)
}

// send issues the HTTP request through the circuit breaker.
func (t *Translator) send(ctx context.Context, key string, body []byte) (*http.Response, error) {
	res, err := t.breaker.Execute(func() (any, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", key)
		httpReq.Header.Set("anthropic-version", t.version)
		return t.client.Do(httpReq)
	})
	if err != nil {
		return nil, err
	}
	return res.(*http.Response), nil
}

// consumeStream drives the SSE decoder over the response body, emitting
// each content delta in arrival order and accumulating the full text.
func (t *Translator) consumeStream(ctx context.Context, body io.Reader, sessionID, text, model string, em Emitter) error {
	dec := NewDecoder()
	var full strings.Builder
	var lastUsage *models.Usage

	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, ev := range dec.Feed(buf[:n]) {
				switch ev.Type {
				case EventContentDelta:
					em.Chunk(sessionID, ev.Text)
					full.WriteString(ev.Text)
				case EventUsage:
					u := ev.Usage
					lastUsage = &u
				case EventStop:
					// Terminal even if the peer drops the
					// connection right after this line.
					return t.finish(ctx, sessionID, text, model, full.String(), lastUsage, em)
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return t.fail(&Error{Kind: KindIncompleteResponse}, len(text), model)
			}
			return t.fail(classifyTransport(readErr, t.timeout), len(text), model)
		}
	}
}

// consumeOnce parses a complete non-streaming response body.
func (t *Translator) consumeOnce(ctx context.Context, body io.Reader, sessionID, text, model string, em Emitter) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return t.fail(classifyTransport(err, t.timeout), len(text), model)
	}

	var resp models.MessageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return t.fail(&Error{Kind: KindParseError, Message: err.Error()}, len(text), model)
	}

	var full strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	if full.Len() > 0 {
		em.Chunk(sessionID, full.String())
	}
	return t.finish(ctx, sessionID, text, model, full.String(), resp.Usage, em)
}

// finish computes usage and cost (zero when the endpoint reported none),
// emits the terminal usage and done events, then writes the cache and the
// ledger. Cache and ledger failures never alter the delivered outcome.
func (t *Translator) finish(ctx context.Context, sessionID, text, model, full string, usage *models.Usage, em Emitter) error {
	payload := models.UsagePayload{SessionID: sessionID}
	if usage != nil {
		payload.InputTokens = usage.InputTokens
		payload.OutputTokens = usage.OutputTokens
		payload.EstimatedCost = pricing.Cost(usage.InputTokens, usage.OutputTokens, model)
	}
	em.Usage(payload)
	em.Done(sessionID)

	if full != "" && t.cache != nil {
		if err := t.cache.Store(text, full, model); err != nil {
			log.Printf("translate: cache write: %v", err)
		}
	}

	t.record(ctx, models.TranslationRecord{
		SessionID:    sessionID,
		Model:        model,
		InputTokens:  payload.InputTokens,
		OutputTokens: payload.OutputTokens,
		CostUSD:      payload.EstimatedCost,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

// fail records the error for diagnostics (model and input length only,
// never the input content) and returns it.
func (t *Translator) fail(e *Error, inputLength int, model string) error {
	if t.diag != nil {
		t.diag.Record(string(e.Kind), e.UserMessage(), inputLength, model)
	}
	return e
}

func (t *Translator) record(ctx context.Context, rec models.TranslationRecord) {
	if t.ledger == nil {
		return
	}
	if err := t.ledger.Record(ctx, rec); err != nil {
		log.Printf("translate: usage ledger: %v", err)
	}
}
