package logging

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

// RequestIDHeader carries the ID of an outgoing tagging request.
const RequestIDHeader = "X-Request-ID"

// Transport is an http.RoundTripper that tags each request with an ID and
// logs its outcome with the run ID of the request context.
type Transport struct {
	// Backend names the service in log lines.
	Backend string
	// Base performs the request; http.DefaultTransport when nil.
	Base http.RoundTripper
}

// NewTransport wraps base for backend.
func NewTransport(backend string, base http.RoundTripper) *Transport {
	return &Transport{Backend: backend, Base: base}
}

// generateRequestID generates a random request ID.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp if random generation fails
		return hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(b)
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = generateRequestID()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	args := []any{
		"backend", t.Backend,
		"request_id", requestID,
		"method", req.Method,
		"host", req.URL.Host,
		"duration_ms", duration.Milliseconds(),
	}
	logger := LoggerFromContext(req.Context())
	if err != nil {
		logger.Warn("tagging_request", append(args, "error", err.Error())...)
		return nil, err
	}
	args = append(args, "status", resp.StatusCode, "content_length", resp.ContentLength)
	if resp.StatusCode >= 400 {
		logger.Warn("tagging_request", args...)
	} else {
		logger.Debug("tagging_request", args...)
	}
	return resp, nil
}
