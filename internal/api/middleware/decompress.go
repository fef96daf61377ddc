// Package middleware provides HTTP middleware components for the chatbridge server.
// This file contains the body decoding middleware that accepts compressed payloads.
package middleware

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxBodyBytes limits decoded request bodies.
const DefaultMaxBodyBytes int64 = 32 << 20 // 32 MiB

// DecodeRequestBody replaces a compressed request body with its decoded form
// according to Content-Encoding (gzip, deflate, br, zstd). Unsupported encodings
// are rejected with 415.
func DecodeRequestBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		encoding := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding")))
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
		_ = c.Request.Body.Close()
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
			return
		}
		if int64(len(raw)) > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
			return
		}

		decoded, err := decompress(encoding, raw, maxBytes)
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, errUnsupportedEncoding):
				status = http.StatusUnsupportedMediaType
			case errors.Is(err, errBodyTooLarge):
				status = http.StatusRequestEntityTooLarge
			}
			abortWithError(c, status, err.Error())
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(decoded))
		c.Request.ContentLength = int64(len(decoded))
		c.Request.Header.Del("Content-Encoding")
		c.Next()
	}
}

var (
	errUnsupportedEncoding = errors.New("unsupported content encoding")
	errBodyTooLarge        = errors.New("request body too large")
)

// decompress decodes data for the given Content-Encoding value.
func decompress(encoding string, data []byte, maxBytes int64) ([]byte, error) {
	switch encoding {
	case "", "identity":
		return data, nil
	case "gzip", "x-gzip":
		return decompressGzip(data, maxBytes)
	case "deflate":
		return readLimited(flate.NewReader(bytes.NewReader(data)), "deflate", maxBytes)
	case "br":
		return readLimited(io.NopCloser(brotli.NewReader(bytes.NewReader(data))), "brotli", maxBytes)
	case "zstd":
		return decompressZstd(data, maxBytes)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedEncoding, encoding)
	}
}

func decompressGzip(data []byte, maxBytes int64) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return readLimited(reader, "gzip", maxBytes)
}

func decompressZstd(data []byte, maxBytes int64) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return readLimited(decoder.IOReadCloser(), "zstd", maxBytes)
}

func readLimited(reader io.ReadCloser, name string, maxBytes int64) ([]byte, error) {
	defer func() {
		if errClose := reader.Close(); errClose != nil {
			log.WithError(errClose).Warnf("failed to close %s reader", name)
		}
	}()

	decompressed, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s data: %w", name, err)
	}
	if int64(len(decompressed)) > maxBytes {
		return nil, fmt.Errorf("%w: decompressed %s body exceeds %d bytes", errBodyTooLarge, name, maxBytes)
	}
	return decompressed, nil
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": message, "type": "invalid_request_error"}})
}
