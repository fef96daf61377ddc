package translator

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// Registry maps ordered format pairs to their converters. It is populated once
// during start-up and sealed before it is shared; after Seal it is read-only,
// so concurrent lookups need no locking.
type Registry struct {
	pairs  map[Pair]Converter
	sealed bool
}

// NewRegistry constructs an empty translator registry.
func NewRegistry() *Registry {
	return &Registry{pairs: make(map[Pair]Converter)}
}

// Register stores request/response transforms between two formats. A later
// registration of the same pair replaces the earlier one. Registration on a
// sealed registry is ignored.
func (r *Registry) Register(from, to Format, request RequestTransform, response ResponseTransform) {
	pair := Pair{From: from, To: to}
	if r.sealed {
		log.WithField("pair", pair.String()).Warn("translator: registry is sealed, registration ignored")
		return
	}
	r.pairs[pair] = Converter{Request: request, Response: response}
}

// Seal freezes the registry. It is safe to call more than once.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the registry has been frozen.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Lookup returns the converter registered for the pair, if any.
func (r *Registry) Lookup(from, to Format) (Converter, bool) {
	conv, ok := r.pairs[Pair{From: from, To: to}]
	return conv, ok
}

// Has reports whether an explicit converter exists for the pair.
func (r *Registry) Has(from, to Format) bool {
	_, ok := r.pairs[Pair{From: from, To: to}]
	return ok
}

// Pairs lists the registered pairs in a stable order.
func (r *Registry) Pairs() []Pair {
	out := make([]Pair, 0, len(r.pairs))
	for pair := range r.pairs {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
