package classify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/procureml/poclass/internal/llm"
	"github.com/procureml/poclass/internal/taxonomy"
)

// Source says where a result came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceLive  Source = "live"
	SourceRetry Source = "retry"
)

// ErrInvalidResponse marks a reply that stayed malformed or schema-incomplete
// after the single retry.
var ErrInvalidResponse = errors.New("invalid model response")

// InvalidResponseError carries the raw model text so callers can show it to
// the user for diagnosis.
type InvalidResponseError struct {
	Raw    string
	Detail string
}

func (e *InvalidResponseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid model response: %s", e.Detail)
	}
	return "invalid model response"
}

func (e *InvalidResponseError) Unwrap() error {
	return ErrInvalidResponse
}

// Result is a fully interpreted classification.
type Result struct {
	Classification   Classification `json:"classification"`
	SchemaOK         bool           `json:"schema_ok"`
	Outcome          Outcome        `json:"outcome"`
	Confidence       *float64       `json:"confidence"`
	ConfidenceLabel  string         `json:"confidence_label"`
	MatchQualityNote string         `json:"match_quality_note,omitempty"`
	Source           Source         `json:"source"`
	Raw              string         `json:"raw"`
}

// Options tune the completion request sent per classification.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Classifier orchestrates the classify call: prompt assembly, parsing, the
// single retry on malformed or schema-incomplete replies, taxonomy
// validation, and session cache write-through. Transport retries live one
// layer down in llm.RetryingProvider.
type Classifier struct {
	provider llm.Provider
	model    string
	table    *taxonomy.Table
	session  *Session
	opts     Options
}

// NewClassifier creates a Classifier bound to a provider, taxonomy table,
// and session.
func NewClassifier(provider llm.Provider, model string, table *taxonomy.Table, session *Session, opts Options) *Classifier {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 512
	}
	return &Classifier{
		provider: provider,
		model:    model,
		table:    table,
		session:  session,
		opts:     opts,
	}
}

// Session returns the classifier's session state.
func (c *Classifier) Session() *Session {
	return c.session
}

// Table returns the taxonomy table the classifier validates against.
func (c *Classifier) Table() *taxonomy.Table {
	return c.table
}

// ClassifyAndValidate resolves a description/supplier pair to a validated
// classification. Cache hits return the stored parse without re-checking the
// schema; the cache only ever holds schema-valid parses. A cache miss makes
// one live call, retries once if the reply is unparseable or misses required
// fields, and writes the schema-valid parse through to the cache.
func (c *Classifier) ClassifyAndValidate(ctx context.Context, description, supplier string) (*Result, error) {
	key := CacheKey(description, supplier)
	if cached, ok := c.session.cached(key); ok {
		return c.interpret(cached, SourceCache, ""), nil
	}

	res, err := c.classifyLive(ctx, description, supplier)
	if err != nil {
		return nil, err
	}

	c.session.putCache(key, res.Classification)
	return res, nil
}

// ClassifyOnce performs a single classification without touching the session
// cache. Evaluation runs use it so every gold row gets a fresh prediction.
func (c *Classifier) ClassifyOnce(ctx context.Context, description, supplier string) (*Result, error) {
	return c.classifyLive(ctx, description, supplier)
}

func (c *Classifier) classifyLive(ctx context.Context, description, supplier string) (*Result, error) {
	raw, err := c.complete(ctx, description, supplier)
	if err != nil {
		return nil, fmt.Errorf("classification request: %w", err)
	}

	parsed, ok := ParseResponse(raw)
	schemaOK := false
	detail := "not valid JSON"
	if ok {
		schemaOK, detail = ValidateSchema(parsed)
	}
	source := SourceLive

	if !ok || !schemaOK {
		log.Printf("model response invalid (%s), retrying once", detail)
		retryRaw, err := c.complete(ctx, description, supplier)
		if err != nil {
			return nil, fmt.Errorf("classification retry: %w", err)
		}
		raw = retryRaw
		source = SourceRetry

		parsed, ok = ParseResponse(raw)
		schemaOK = false
		detail = "not valid JSON"
		if ok {
			schemaOK, detail = ValidateSchema(parsed)
		}
	}

	if !ok || !schemaOK {
		return nil, &InvalidResponseError{Raw: raw, Detail: detail}
	}

	return c.interpret(parsed, source, raw), nil
}

func (c *Classifier) complete(ctx context.Context, description, supplier string) (string, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    BuildMessages(c.table, description, supplier),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *Classifier) interpret(parsed Classification, source Source, raw string) *Result {
	confidence := ConfidenceValue(parsed)
	return &Result{
		Classification:   parsed,
		SchemaOK:         true,
		Outcome:          ValidateTaxonomy(parsed, c.table),
		Confidence:       confidence,
		ConfidenceLabel:  ConfidenceLabel(confidence),
		MatchQualityNote: MatchQualityNote(parsed),
		Source:           source,
		Raw:              raw,
	}
}
