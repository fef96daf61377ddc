package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chatbridge/chatbridge/internal/logging"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// KindRequest selects request conversion or detection.
	KindRequest = "request"
	// KindResponse selects response conversion or detection.
	KindResponse = "response"

	// formatAuto asks the server to detect the source format.
	formatAuto = "auto"

	// HeaderOutcome reports which conversion path produced the body.
	HeaderOutcome = "X-Chatbridge-Outcome"
	// HeaderSourceFormat reports the source format used, detected or explicit.
	HeaderSourceFormat = "X-Chatbridge-Source-Format"
)

// ConvertHandler serves the conversion and detection endpoints over a pipeline.
// The pipeline can be replaced while requests are in flight; each request uses
// the one current when it started.
type ConvertHandler struct {
	pipeline  atomic.Pointer[sdktranslator.Pipeline]
	logger    logging.ConversionLogger
	logBodies atomic.Bool
}

// NewConvertHandler creates a handler. logger may be nil to disable conversion logs;
// logBodies emits source and converted payloads at debug level.
func NewConvertHandler(pipeline *sdktranslator.Pipeline, logger logging.ConversionLogger, logBodies bool) *ConvertHandler {
	h := &ConvertHandler{logger: logger}
	h.pipeline.Store(pipeline)
	h.logBodies.Store(logBodies)
	return h
}

// Pipeline returns the pipeline currently serving conversions.
func (h *ConvertHandler) Pipeline() *sdktranslator.Pipeline {
	return h.pipeline.Load()
}

// SetPipeline swaps the pipeline used by subsequent requests. nil is ignored.
func (h *ConvertHandler) SetPipeline(pipeline *sdktranslator.Pipeline) {
	if pipeline != nil {
		h.pipeline.Store(pipeline)
	}
}

// SetLogBodies toggles debug logging of converted payloads.
func (h *ConvertHandler) SetLogBodies(enabled bool) {
	h.logBodies.Store(enabled)
}

// ConvertRequest handles POST /v1/convert/request.
func (h *ConvertHandler) ConvertRequest(c *gin.Context) {
	h.convert(c, KindRequest)
}

// ConvertResponse handles POST /v1/convert/response.
func (h *ConvertHandler) ConvertResponse(c *gin.Context) {
	h.convert(c, KindResponse)
}

func (h *ConvertHandler) convert(c *gin.Context, kind string) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}
	from, to, err := resolvePair(kind, c.Query("from"), c.Query("to"), body)
	if err != nil {
		WriteError(c, http.StatusBadRequest, err.Error())
		return
	}

	out, outcome, err := h.run(c.Request.Context(), kind, from, to, body)
	if err != nil {
		WriteError(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.record(logging.GetGinRequestID(c), kind, from, to, outcome, body, out)

	c.Header(HeaderOutcome, string(outcome))
	c.Header(HeaderSourceFormat, from.String())
	c.Data(http.StatusOK, "application/json", out)
}

// Detect handles POST /v1/detect?kind=request|response.
func (h *ConvertHandler) Detect(c *gin.Context) {
	kind := strings.ToLower(strings.TrimSpace(c.DefaultQuery("kind", KindRequest)))
	if kind != KindRequest && kind != KindResponse {
		WriteError(c, http.StatusBadRequest, fmt.Sprintf("unknown kind %q, expected request or response", kind))
		return
	}
	body, ok := readJSONBody(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "format": detect(kind, body).String()})
}

// Pairs handles GET /v1/pairs.
func (h *ConvertHandler) Pairs(c *gin.Context) {
	pairs := h.Pipeline().Engine().Registry().Pairs()
	if pairs == nil {
		pairs = []sdktranslator.Pair{}
	}
	formats := make([]string, 0, len(sdktranslator.KnownFormats))
	for _, f := range sdktranslator.KnownFormats {
		formats = append(formats, f.String())
	}
	c.JSON(http.StatusOK, gin.H{"pairs": pairs, "formats": formats})
}

func (h *ConvertHandler) run(ctx context.Context, kind string, from, to sdktranslator.Format, body []byte) ([]byte, sdktranslator.Outcome, error) {
	pipeline := h.Pipeline()
	if kind == KindResponse {
		resp, err := pipeline.TranslateResponse(ctx, sdktranslator.ResponseEnvelope{From: from, To: to, Body: body})
		return resp.Body, resp.Outcome, err
	}
	req, err := pipeline.TranslateRequest(ctx, sdktranslator.RequestEnvelope{From: from, To: to, Body: body})
	return req.Body, req.Outcome, err
}

func (h *ConvertHandler) record(requestID, kind string, from, to sdktranslator.Format, outcome sdktranslator.Outcome, in, out []byte) {
	if h.logBodies.Load() {
		log.WithFields(log.Fields{
			"request_id": requestID,
			"direction":  kind,
			"pair":       sdktranslator.Pair{From: from, To: to}.String(),
			"outcome":    outcome,
		}).Debugf("converted payload\n>>> %s\n<<< %s", in, out)
	}
	if h.logger == nil || !h.logger.IsEnabled() {
		return
	}
	err := h.logger.LogConversion(logging.ConversionRecord{
		RequestID: requestID,
		Direction: kind,
		From:      from.String(),
		To:        to.String(),
		Outcome:   string(outcome),
		Input:     in,
		Output:    out,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.WithError(err).Warn("failed to write conversion log")
	}
}

// readJSONBody reads the request body and rejects empty or malformed JSON.
func readJSONBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		WriteError(c, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return nil, false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		WriteError(c, http.StatusBadRequest, "request body is empty")
		return nil, false
	}
	if !gjson.ValidBytes(body) {
		WriteError(c, http.StatusBadRequest, "request body is not valid JSON")
		return nil, false
	}
	return body, true
}

// resolvePair validates the format names; an empty or "auto" source is detected
// from the payload.
func resolvePair(kind, fromName, toName string, body []byte) (sdktranslator.Format, sdktranslator.Format, error) {
	if strings.TrimSpace(toName) == "" {
		return "", "", fmt.Errorf("%w: missing target format", sdktranslator.ErrUnsupportedFormat)
	}
	to := sdktranslator.FromString(toName)
	if !to.Known() {
		return "", "", fmt.Errorf("%w: %q", sdktranslator.ErrUnsupportedFormat, toName)
	}

	var from sdktranslator.Format
	if name := strings.TrimSpace(fromName); name == "" || strings.EqualFold(name, formatAuto) {
		from = detect(kind, body)
	} else {
		from = sdktranslator.FromString(name)
		if !from.Known() {
			return "", "", fmt.Errorf("%w: %q", sdktranslator.ErrUnsupportedFormat, fromName)
		}
	}
	return from, to, nil
}

func detect(kind string, body []byte) sdktranslator.Format {
	if kind == KindResponse {
		return sdktranslator.DetectResponseFormat(body)
	}
	return sdktranslator.DetectRequestFormat(body)
}
