package translator

import (
	"bytes"
	"fmt"
	"time"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultMaxTokens is the token limit used when a target requires one and the
// source payload omits it.
const DefaultMaxTokens = 4096

// DefaultModels are the per-target model names attached by the generic fallback.
var DefaultModels = map[Format]string{
	FormatClaude: "claude-3-5-sonnet-20241022",
	FormatOpenAI: "gpt-4o",
	FormatGemini: "gemini-1.5-pro",
	FormatOllama: "llama3",
}

// Engine converts payloads between formats using a sealed registry. It holds no
// mutable state after construction and is safe for concurrent use.
type Engine struct {
	registry         *Registry
	defaultModels    map[Format]string
	defaultMaxTokens int
	now              func() time.Time
	newID            func(prefix string) string
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithDefaultModels overrides default model names per target format.
func WithDefaultModels(models map[Format]string) EngineOption {
	return func(e *Engine) {
		for format, model := range models {
			if model != "" {
				e.defaultModels[format] = model
			}
		}
	}
}

// WithDefaultMaxTokens overrides the default token limit.
func WithDefaultMaxTokens(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.defaultMaxTokens = n
		}
	}
}

// WithClock sets the time source used for synthesized timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the generator used for synthesized identifiers.
func WithIDGenerator(newID func(prefix string) string) EngineOption {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine builds an engine over the registry and seals the registry.
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	registry.Seal()

	e := &Engine{
		registry:         registry,
		defaultModels:    make(map[Format]string, len(DefaultModels)),
		defaultMaxTokens: DefaultMaxTokens,
		now:              time.Now,
		newID:            newUUID,
	}
	for format, model := range DefaultModels {
		e.defaultModels[format] = model
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newUUID(prefix string) string {
	return prefix + uuid.NewString()
}

// Registry exposes the sealed registry backing the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Options returns the per-call converter options for a target format.
func (e *Engine) Options(target Format) Options {
	return Options{
		DefaultModel:     e.defaultModels[target],
		DefaultMaxTokens: e.defaultMaxTokens,
		Now:              e.now,
		NewID:            e.newID,
	}
}

// ConvertRequest converts a request payload from one format to another. It never
// fails: unknown pairs use the generic fallback and converter failures are
// recovered. Identical formats pass the payload through unchanged.
func (e *Engine) ConvertRequest(from, to Format, rawJSON []byte) []byte {
	out, _ := e.TranslateRequest(from, to, rawJSON)
	return out
}

// ConvertResponse converts a fully assembled response payload from one format to
// another. Like ConvertRequest it never fails; the caller always receives a
// structurally valid payload of the target shape.
func (e *Engine) ConvertResponse(from, to Format, rawJSON []byte) []byte {
	out, _ := e.TranslateResponse(from, to, rawJSON)
	return out
}

// TranslateRequest is ConvertRequest that also reports which path produced the result.
func (e *Engine) TranslateRequest(from, to Format, rawJSON []byte) ([]byte, Outcome) {
	if from == to {
		return bytes.Clone(rawJSON), OutcomeIdentity
	}

	opts := e.Options(to)
	pair := Pair{From: from, To: to}
	conv, ok := e.registry.Lookup(from, to)
	if !ok || conv.Request == nil {
		log.WithField("pair", pair.String()).Warn("translator: no request converter registered, using generic fallback")
		return FallbackRequest(opts, rawJSON), OutcomeFallback
	}
	if !gjson.ValidBytes(rawJSON) {
		log.WithField("pair", pair.String()).Warn("translator: request is not valid JSON, using generic fallback")
		return FallbackRequest(opts, rawJSON), OutcomeRecovered
	}

	out, err := safeTransform(conv.Request, opts, rawJSON)
	if err != nil {
		log.WithError(err).WithField("pair", pair.String()).Warn("translator: request conversion failed, using generic fallback")
		return FallbackRequest(opts, rawJSON), OutcomeRecovered
	}
	return out, OutcomeExplicit
}

// TranslateResponse is ConvertResponse that also reports which path produced the result.
func (e *Engine) TranslateResponse(from, to Format, rawJSON []byte) ([]byte, Outcome) {
	if from == to {
		return bytes.Clone(rawJSON), OutcomeIdentity
	}

	opts := e.Options(to)
	pair := Pair{From: from, To: to}
	conv, ok := e.registry.Lookup(from, to)
	if !ok || conv.Response == nil {
		log.WithField("pair", pair.String()).Warn("translator: no response converter registered, using generic fallback")
		return FallbackResponse(to, opts, rawJSON), OutcomeFallback
	}
	if !gjson.ValidBytes(rawJSON) {
		log.WithField("pair", pair.String()).Warn("translator: response is not valid JSON, using generic fallback")
		return FallbackResponse(to, opts, rawJSON), OutcomeRecovered
	}

	out, err := safeTransform(conv.Response, opts, rawJSON)
	if err != nil {
		log.WithError(err).WithField("pair", pair.String()).Warn("translator: response conversion failed, returning default response")
		return DefaultResponse(to, opts), OutcomeRecovered
	}
	return out, OutcomeExplicit
}

// safeTransform runs a converter, turning panics and malformed output into errors.
func safeTransform(fn func(Options, []byte) ([]byte, error), opts Options, rawJSON []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: panic: %v", ErrConversionFailed, r)
		}
	}()

	out, err = fn(opts, rawJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if !gjson.ValidBytes(out) {
		return nil, fmt.Errorf("%w: converter produced invalid JSON", ErrConversionFailed)
	}
	return out, nil
}

// DefaultResponse renders the minimal well-formed response of the target format:
// one empty text block, zeroed usage and a natural stop.
func DefaultResponse(target Format, opts Options) []byte {
	resp := canonical.EmptyResponse(newID(opts, target), opts.DefaultModel)
	return renderResponse(target, opts, resp)
}

func renderResponse(target Format, opts Options, resp canonical.Response) []byte {
	switch target {
	case FormatClaude:
		return []byte(common.RenderClaudeResponse(resp))
	case FormatGemini:
		return []byte(common.RenderGeminiResponse(resp, ""))
	case FormatOllama:
		return []byte(common.RenderOllamaResponse(resp, opts.Timestamp()))
	default:
		return []byte(common.RenderOpenAIResponse(resp, common.OpenAIRenderOptions{Created: opts.Timestamp().Unix()}))
	}
}

func newID(opts Options, target Format) string {
	switch target {
	case FormatClaude:
		return opts.ID("", "msg_")
	case FormatOpenAI:
		return opts.ID("", "chatcmpl-")
	default:
		return ""
	}
}
