package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/rs/zerolog"

	"github.com/iho/paymentinstructions/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the cache.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	maxFingerprintBytes = 1 << 20
)

// cachedResponse is what the store keeps per idempotency key.
type cachedResponse struct {
	Fingerprint string            `json:"fingerprint"`
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body"`
}

// replayedHeaders are copied into the cache alongside the body.
var replayedHeaders = []string{"Content-Type", "X-Instruction-Reference"}

// IdempotencyMiddleware replays the first response for a repeated
// Idempotency-Key. Responses below 500 are deterministic outcomes and are
// cached; server errors release the key so the client can retry.
type IdempotencyMiddleware struct {
	store    usecase.IdempotencyStore
	ttl      time.Duration
	logger   zerolog.Logger
	onReplay func()
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// uses usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// OnReplay registers a callback run for every replayed response.
func (m *IdempotencyMiddleware) OnReplay(fn func()) *IdempotencyMiddleware {
	m.onReplay = fn
	return m
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		fingerprint, err := fingerprintBody(r)
		if err != nil {
			writeMiddlewareError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("idempotency_key", key).Msg("idempotency check failed")
			writeMiddlewareError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			m.replay(w, key, fingerprint, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		m.serve(next, recorder, r, key)

		if recorder.statusCode >= http.StatusInternalServerError {
			m.release(r, key)
			return
		}

		entry := cachedResponse{
			Fingerprint: fingerprint,
			StatusCode:  recorder.statusCode,
			Headers:     make(map[string]string, len(replayedHeaders)),
			Body:        recorder.body.Bytes(),
		}
		for _, name := range replayedHeaders {
			if v := recorder.Header().Get(name); v != "" {
				entry.Headers[name] = v
			}
		}

		encoded, err := json.Marshal(entry)
		if err == nil {
			err = m.store.Update(r.Context(), key, encoded, m.ttl)
		}
		if err != nil {
			m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
			m.release(r, key)
		}
	})
}

// serve runs next and releases the key if it panics, so a crashed request
// does not hold the key for the whole TTL. The panic is passed on.
func (m *IdempotencyMiddleware) serve(next http.Handler, w http.ResponseWriter, r *http.Request, key string) {
	defer func() {
		if rec := recover(); rec != nil {
			m.release(r, key)
			panic(rec)
		}
	}()
	next.ServeHTTP(w, r)
}

func (m *IdempotencyMiddleware) release(r *http.Request, key string) {
	if err := m.store.Release(context.WithoutCancel(r.Context()), key); err != nil {
		m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, key, fingerprint string, cached []byte) {
	if usecase.IsInFlight(cached) {
		writeMiddlewareError(w, http.StatusConflict, "request with this idempotency key is in progress")
		return
	}

	var entry cachedResponse
	if err := json.Unmarshal(cached, &entry); err != nil || entry.StatusCode == 0 {
		m.logger.Error().Err(err).Str("idempotency_key", key).Msg("corrupt idempotency entry")
		writeMiddlewareError(w, http.StatusInternalServerError, "idempotency check failed")
		return
	}

	if entry.Fingerprint != fingerprint {
		writeMiddlewareError(w, http.StatusUnprocessableEntity, "idempotency key was used with a different request body")
		return
	}

	if m.onReplay != nil {
		m.onReplay()
	}

	for name, v := range entry.Headers {
		w.Header().Set(name, v)
	}
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(entry.StatusCode)
	w.Write(entry.Body)
}

// fingerprintBody hashes the RFC 8785 canonical form of the body, so the same
// JSON document matches regardless of key order or whitespace. Bodies that are
// not JSON are hashed as-is. The body is restored for the next handler.
func fingerprintBody(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFingerprintBytes+1))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

	canonical, err := jcs.Transform(body)
	if err != nil {
		canonical = body
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func writeMiddlewareError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
