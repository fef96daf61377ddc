package middleware

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
)

const samplePayload = `{"model":"gpt-4o","messages":[{"role":"user","content":"hi"}]}`

func encode(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, _ = w.Write(data)
		_ = w.Close()
	case "deflate":
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Fatalf("flate writer: %v", err)
		}
		_, _ = w.Write(data)
		_ = w.Close()
	case "br":
		w := brotli.NewWriter(&buf)
		_, _ = w.Write(data)
		_ = w.Close()
	case "zstd":
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(data, nil)
	default:
		return data
	}
	return buf.Bytes()
}

func newEchoEngine(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(DecodeRequestBody(maxBytes))
	engine.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Header("X-Seen-Encoding", c.GetHeader("Content-Encoding"))
		c.Data(http.StatusOK, "application/json", body)
	})
	return engine
}

func TestDecodeRequestBody(t *testing.T) {
	engine := newEchoEngine(0)
	for _, encoding := range []string{"", "identity", "gzip", "deflate", "br", "zstd"} {
		t.Run("encoding="+encoding, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(encode(t, encoding, []byte(samplePayload))))
			if encoding != "" {
				req.Header.Set("Content-Encoding", encoding)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if rec.Body.String() != samplePayload {
				t.Fatalf("decoded body = %q", rec.Body.String())
			}
			if got := rec.Header().Get("X-Seen-Encoding"); got != "" {
				t.Fatalf("expected Content-Encoding to be cleared, got %q", got)
			}
		})
	}
}

func TestDecodeRequestBodyRejectsUnknownEncoding(t *testing.T) {
	engine := newEchoEngine(0)
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte(samplePayload)))
	req.Header.Set("Content-Encoding", "compress")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestDecodeRequestBodyRejectsCorruptGzip(t *testing.T) {
	engine := newEchoEngine(0)
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDecodeRequestBodyEnforcesLimit(t *testing.T) {
	engine := newEchoEngine(16)

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte(samplePayload)))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("raw status = %d, want 413", rec.Code)
	}

	expanded := bytes.Repeat([]byte("a"), 64)
	for _, encoding := range []string{"gzip", "deflate", "br", "zstd"} {
		compressed := encode(t, encoding, expanded)
		engine = newEchoEngine(int64(len(compressed)) + 1)
		req = httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(compressed))
		req.Header.Set("Content-Encoding", encoding)
		rec = httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("%s decompressed status = %d, want 413, body = %s", encoding, rec.Code, rec.Body.String())
		}
	}
}
