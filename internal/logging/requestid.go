package logging

import (
	"context"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the conversion request id in both directions.
const HeaderRequestID = "X-Request-ID"

const (
	ginRequestIDKey   = "chatbridge.request_id"
	maxRequestIDChars = 64
)

type requestIDKey struct{}

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// GenerateRequestID returns a short id: the first 8 hex digits of a random UUID.
func GenerateRequestID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}

// ResolveRequestID reuses an inbound X-Request-ID when it is short and only
// holds filename-safe characters, since the id ends up in conversion log names.
// Anything else is replaced by a generated id.
func ResolveRequestID(inbound string) string {
	inbound = strings.TrimSpace(inbound)
	if inbound == "" || len(inbound) > maxRequestIDChars || !validRequestID.MatchString(inbound) {
		return GenerateRequestID()
	}
	return inbound
}

// attachRequestID stores the id on the Gin context, the request context and
// the response header.
func attachRequestID(c *gin.Context, requestID string) {
	SetGinRequestID(c, requestID)
	c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
	c.Header(HeaderRequestID, requestID)
}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request id carried by ctx, or "".
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// SetGinRequestID stores the request id on the Gin context.
func SetGinRequestID(c *gin.Context, requestID string) {
	if c != nil {
		c.Set(ginRequestIDKey, requestID)
	}
}

// GetGinRequestID returns the request id stored on the Gin context, or "".
func GetGinRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(ginRequestIDKey)
}
