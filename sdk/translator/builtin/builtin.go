// Package builtin exposes the built-in translator registrations for SDK users.
package builtin

import (
	"github.com/chatbridge/chatbridge/internal/translator"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// Registry returns a new sealed registry populated with the built-in pairs.
func Registry() *sdktranslator.Registry {
	registry := sdktranslator.NewRegistry()
	translator.RegisterBuiltins(registry)
	registry.Seal()
	return registry
}

// Engine returns an engine over the built-in pairs.
func Engine(opts ...sdktranslator.EngineOption) *sdktranslator.Engine {
	return sdktranslator.NewEngine(Registry(), opts...)
}

// Pipeline returns a pipeline that already contains the built-in translators.
func Pipeline(opts ...sdktranslator.EngineOption) *sdktranslator.Pipeline {
	return sdktranslator.NewPipeline(Engine(opts...))
}
