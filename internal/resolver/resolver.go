// Package resolver breaks ties between candidate pages with an LLM
// call. It is strictly an arbiter: the model may only choose among the
// candidate pages the matcher already scored, or decline. It never
// invents a page number, and with no API key configured it degrades to
// needs_review instead of failing.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	defaultModel = "gpt-4o-mini"

	DecisionPick        = "pick"
	DecisionNeedsReview = "needs_review"
)

// Candidate is one page the matcher scored for an entry.
type Candidate struct {
	DestPage   int     `json:"dest_page"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// Decision is the resolver's verdict for one entry.
type Decision struct {
	Decision string `json:"decision"` // "pick" or "needs_review"
	DestPage int    `json:"dest_page,omitempty"`
	Reason   string `json:"reason"`
}

// Picked reports whether the decision settles on a page.
func (d *Decision) Picked() bool {
	return d != nil && d.Decision == DecisionPick
}

// decisionSchema validates the model's JSON reply before we trust it.
var decisionSchema = jsonschema.MustCompileString("decision.json", `{
	"type": "object",
	"required": ["decision", "reason"],
	"properties": {
		"decision": {"enum": ["pick", "needs_review"]},
		"dest_page": {"type": "integer", "minimum": 1},
		"reason": {"type": "string"}
	}
}`)

const systemPrompt = `You are a deterministic tie-break arbiter inside a legal-document ` +
	`hyperlinking pipeline. You are given one index entry and the candidate destination ` +
	`pages an automated matcher scored for it. Choose among the candidates only. ` +
	`Rules: (1) you may only answer with a dest_page that appears in the candidate list; ` +
	`(2) if no candidate meets the stated minimum confidence, or the entry text does not ` +
	`clearly favor one candidate, answer needs_review; (3) never guess a page that is not ` +
	`listed. Reply with strict JSON only, no prose: ` +
	`{"decision":"pick","dest_page":<int>,"reason":"..."} or ` +
	`{"decision":"needs_review","reason":"..."}`

// Config holds configuration for the resolver client.
type Config struct {
	APIKey        string
	Model         string
	MinConfidence float64
	MaxRetries    int
	Timeout       time.Duration
	BaseURL       string       // Optional (tests)
	HTTPClient    *http.Client // Optional (tests)
}

// Resolver arbitrates ambiguous match results via the OpenAI API.
type Resolver struct {
	model         string
	minConfidence float64
	maxRetries    int
	offline       bool
	client        openai.Client
	logger        *slog.Logger
}

// New creates a Resolver. An empty API key yields an offline resolver
// whose decisions are always needs_review.
func New(cfg Config, logger *slog.Logger) *Resolver {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.5
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Resolver{
		model:         cfg.Model,
		minConfidence: cfg.MinConfidence,
		maxRetries:    cfg.MaxRetries,
		logger:        logger,
	}

	if cfg.APIKey == "" {
		r.offline = true
		return r
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	r.client = openai.NewClient(opts...)
	return r
}

// Offline reports whether the resolver has no API key configured.
func (r *Resolver) Offline() bool { return r.offline }

// Resolve asks the model to arbitrate between candidates for one entry.
// The returned decision always names a candidate page or needs_review.
func (r *Resolver) Resolve(ctx context.Context, entryText string, candidates []Candidate) (*Decision, error) {
	if len(candidates) == 0 {
		return &Decision{Decision: DecisionNeedsReview, Reason: "no candidates to arbitrate"}, nil
	}
	if r.offline {
		return &Decision{Decision: DecisionNeedsReview, Reason: "resolver offline: no API key configured"}, nil
	}

	user, err := buildUserPrompt(entryText, candidates, r.minConfidence)
	if err != nil {
		return nil, err
	}

	var decision *Decision
	err = retry.Do(
		func() error {
			raw, err := r.complete(ctx, user)
			if err != nil {
				return err
			}
			d, err := parseDecision(raw, candidates, r.minConfidence)
			if err != nil {
				return err
			}
			decision = d
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.maxRetries)),
		retry.Delay(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("resolver gave no usable decision: %w", err)
	}

	r.logger.Info("resolver decision",
		"decision", decision.Decision,
		"dest_page", decision.DestPage,
		"candidates", len(candidates))
	return decision, nil
}

func (r *Resolver) complete(ctx context.Context, user string) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildUserPrompt serializes the entry and its candidates as JSON so
// the model sees exactly what the matcher saw.
func buildUserPrompt(entryText string, candidates []Candidate, minConfidence float64) (string, error) {
	payload := struct {
		Entry         string      `json:"entry"`
		MinConfidence float64     `json:"min_confidence"`
		Candidates    []Candidate `json:"candidates"`
	}{
		Entry:         entryText,
		MinConfidence: minConfidence,
		Candidates:    candidates,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal resolver prompt: %w", err)
	}
	return string(data), nil
}

// parseDecision validates and hardens the model reply: schema-checked
// JSON, and a pick must name a listed candidate at or above the floor.
// Anything else is downgraded to needs_review rather than trusted.
func parseDecision(raw string, candidates []Candidate, minConfidence float64) (*Decision, error) {
	raw = stripCodeFence(raw)

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("resolver reply is not JSON: %w", err)
	}
	if err := decisionSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("resolver reply failed validation: %w", err)
	}

	var d Decision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("resolver reply did not decode: %w", err)
	}

	if d.Decision != DecisionPick {
		d.DestPage = 0
		return &d, nil
	}

	for _, c := range candidates {
		if c.DestPage != d.DestPage {
			continue
		}
		if c.Confidence < minConfidence {
			return &Decision{
				Decision: DecisionNeedsReview,
				Reason:   fmt.Sprintf("picked page %d is below the confidence floor", d.DestPage),
			}, nil
		}
		return &d, nil
	}

	// The model named a page we never offered.
	return &Decision{
		Decision: DecisionNeedsReview,
		Reason:   fmt.Sprintf("model picked page %d which is not a candidate", d.DestPage),
	}, nil
}

// stripCodeFence tolerates models that wrap JSON in markdown fences.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
