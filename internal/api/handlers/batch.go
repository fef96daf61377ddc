package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/chatbridge/chatbridge/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"
)

// maxBatchConcurrency bounds the conversions running at once for one batch.
const maxBatchConcurrency = 8

// Batch handles POST /v1/convert/batch. Each item is converted independently;
// a bad item yields an error entry without failing the batch.
func (h *ConvertHandler) Batch(c *gin.Context) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}
	items := gjson.GetBytes(body, "items")
	if !items.IsArray() {
		WriteError(c, http.StatusBadRequest, "items must be an array")
		return
	}

	requestID := logging.GetGinRequestID(c)
	list := items.Array()
	results := make([]string, len(list))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(maxBatchConcurrency)
	for i, item := range list {
		i, item := i, item
		g.Go(func() error {
			results[i] = h.convertItem(ctx, requestID, i, item)
			return nil
		})
	}
	_ = g.Wait()

	out := `{"items":[]}`
	for _, result := range results {
		out, _ = sjson.SetRaw(out, "items.-1", result)
	}
	c.Data(http.StatusOK, "application/json", []byte(out))
}

// convertItem converts one batch entry and renders its result object.
func (h *ConvertHandler) convertItem(ctx context.Context, requestID string, index int, item gjson.Result) string {
	out := `{"index":0}`
	out, _ = sjson.Set(out, "index", index)

	kind := strings.ToLower(strings.TrimSpace(item.Get("kind").String()))
	if kind == "" {
		kind = KindRequest
	}
	out, _ = sjson.Set(out, "kind", kind)
	if kind != KindRequest && kind != KindResponse {
		out, _ = sjson.Set(out, "error", "unknown kind "+kind)
		return out
	}

	payload := item.Get("payload")
	if !payload.IsObject() {
		out, _ = sjson.Set(out, "error", "payload must be a JSON object")
		return out
	}
	raw := []byte(payload.Raw)

	from, to, err := resolvePair(kind, item.Get("from").String(), item.Get("to").String(), raw)
	if err != nil {
		out, _ = sjson.Set(out, "error", err.Error())
		return out
	}
	if err = ctx.Err(); err != nil {
		out, _ = sjson.Set(out, "error", err.Error())
		return out
	}

	converted, outcome, err := h.run(ctx, kind, from, to, raw)
	if err != nil {
		out, _ = sjson.Set(out, "error", err.Error())
		return out
	}
	h.record(requestID, kind, from, to, outcome, raw, converted)

	out, _ = sjson.Set(out, "from", from.String())
	out, _ = sjson.Set(out, "to", to.String())
	out, _ = sjson.Set(out, "outcome", string(outcome))
	out, _ = sjson.SetRaw(out, "payload", string(converted))
	return out
}
