// Package translator converts chat requests and responses between the Claude
// Messages, OpenAI Chat Completions, Gemini generateContent and Ollama generate
// wire formats.
package translator

import "time"

// Options carries per-call settings handed to every converter.
type Options struct {
	// DefaultModel is the model name for the target format, used when the source
	// payload carries none.
	DefaultModel string
	// DefaultMaxTokens is used when the target requires an explicit token limit.
	DefaultMaxTokens int
	// Now supplies timestamps for synthesized fields.
	Now func() time.Time
	// NewID synthesizes identifiers such as "msg_..." when upstream omits them.
	NewID func(prefix string) string
}

// RequestTransform converts a request payload from a source schema to a target schema.
// The input must not be modified; a freshly allocated payload is returned.
type RequestTransform func(opts Options, rawJSON []byte) ([]byte, error)

// ResponseTransform converts a fully assembled, non-streaming response payload
// from a source schema to a target schema.
type ResponseTransform func(opts Options, rawJSON []byte) ([]byte, error)

// Converter groups the request and response transforms of one ordered format pair.
type Converter struct {
	// Request is the function for transforming requests.
	Request RequestTransform
	// Response is the function for transforming responses.
	Response ResponseTransform
}

// Pair is an ordered (source, target) format pair.
type Pair struct {
	From Format `json:"from"`
	To   Format `json:"to"`
}

// String renders the pair as its registry key, "source->target".
func (p Pair) String() string {
	return string(p.From) + "->" + string(p.To)
}

// Outcome describes which path produced a conversion result.
type Outcome string

const (
	// OutcomeIdentity means source and target matched and the payload passed through.
	OutcomeIdentity Outcome = "identity"
	// OutcomeExplicit means a registered pair converter produced the result.
	OutcomeExplicit Outcome = "explicit"
	// OutcomeFallback means no pair was registered and the generic converter ran.
	OutcomeFallback Outcome = "fallback"
	// OutcomeRecovered means a converter failed and a safe default was returned.
	OutcomeRecovered Outcome = "recovered"
)

// Timestamp returns the current time from Now, or the wall clock when unset.
func (o Options) Timestamp() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// ID returns id when set, otherwise a freshly synthesized identifier with the
// given prefix. Without a generator it returns id unchanged.
func (o Options) ID(id, prefix string) string {
	if id != "" || o.NewID == nil {
		return id
	}
	return o.NewID(prefix)
}
