package translator

import "context"

// RequestEnvelope represents a request in the translation pipeline.
type RequestEnvelope struct {
	From    Format
	To      Format
	Body    []byte
	Outcome Outcome
}

// ResponseEnvelope represents a response in the translation pipeline.
type ResponseEnvelope struct {
	From    Format
	To      Format
	Body    []byte
	Outcome Outcome
}

// RequestMiddleware decorates request translation.
type RequestMiddleware func(ctx context.Context, req RequestEnvelope, next RequestHandler) (RequestEnvelope, error)

// ResponseMiddleware decorates response translation.
type ResponseMiddleware func(ctx context.Context, resp ResponseEnvelope, next ResponseHandler) (ResponseEnvelope, error)

// RequestHandler performs request translation between formats.
type RequestHandler func(ctx context.Context, req RequestEnvelope) (RequestEnvelope, error)

// ResponseHandler performs response translation between formats.
type ResponseHandler func(ctx context.Context, resp ResponseEnvelope) (ResponseEnvelope, error)

// Pipeline orchestrates request/response transformation with middleware support.
type Pipeline struct {
	engine             *Engine
	requestMiddleware  []RequestMiddleware
	responseMiddleware []ResponseMiddleware
}

// NewPipeline constructs a pipeline bound to the provided engine.
func NewPipeline(engine *Engine) *Pipeline {
	if engine == nil {
		engine = NewEngine(nil)
	}
	return &Pipeline{engine: engine}
}

// Engine returns the engine the pipeline translates with.
func (p *Pipeline) Engine() *Engine {
	return p.engine
}

// UseRequest adds request middleware executed in registration order.
func (p *Pipeline) UseRequest(mw RequestMiddleware) {
	if mw != nil {
		p.requestMiddleware = append(p.requestMiddleware, mw)
	}
}

// UseResponse adds response middleware executed in registration order.
func (p *Pipeline) UseResponse(mw ResponseMiddleware) {
	if mw != nil {
		p.responseMiddleware = append(p.responseMiddleware, mw)
	}
}

// TranslateRequest applies middleware and the engine's request conversion.
func (p *Pipeline) TranslateRequest(ctx context.Context, req RequestEnvelope) (RequestEnvelope, error) {
	terminal := func(ctx context.Context, input RequestEnvelope) (RequestEnvelope, error) {
		input.Body, input.Outcome = p.engine.TranslateRequest(input.From, input.To, input.Body)
		return input, nil
	}

	handler := terminal
	for i := len(p.requestMiddleware) - 1; i >= 0; i-- {
		mw := p.requestMiddleware[i]
		next := handler
		handler = func(ctx context.Context, r RequestEnvelope) (RequestEnvelope, error) {
			return mw(ctx, r, next)
		}
	}

	return handler(ctx, req)
}

// TranslateResponse applies middleware and the engine's response conversion.
func (p *Pipeline) TranslateResponse(ctx context.Context, resp ResponseEnvelope) (ResponseEnvelope, error) {
	terminal := func(ctx context.Context, input ResponseEnvelope) (ResponseEnvelope, error) {
		input.Body, input.Outcome = p.engine.TranslateResponse(input.From, input.To, input.Body)
		return input, nil
	}

	handler := terminal
	for i := len(p.responseMiddleware) - 1; i >= 0; i-- {
		mw := p.responseMiddleware[i]
		next := handler
		handler = func(ctx context.Context, r ResponseEnvelope) (ResponseEnvelope, error) {
			return mw(ctx, r, next)
		}
	}

	return handler(ctx, resp)
}
