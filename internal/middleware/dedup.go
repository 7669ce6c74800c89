package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/finboard-ai/workspace-platform/pkg/metrics"
)

// Deduper aborts mutating requests that are byte-for-byte (or target-wise)
// identical to one still in flight. The second request never reaches the
// handler; only the first writer proceeds.
type Deduper struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewDeduper creates a request deduper.
func NewDeduper() *Deduper {
	return &Deduper{
		inflight: make(map[string]struct{}),
	}
}

// targetKey carries the fields that identify a component-scoped request.
// When both are present they form the dedup key on their own, so two
// requests against the same component dedupe even if other body fields
// differ.
type targetKey struct {
	ComponentID string `json:"componentId"`
	TabID       string `json:"tabId"`
}

// Middleware returns the dedup middleware. Only mutating methods are keyed;
// GETs pass through untouched.
func (d *Deduper) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, `{"error":"failed to read request body"}`, http.StatusBadRequest)
			return
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := d.key(r.Method, r.URL.Path, body)

		d.mu.Lock()
		if _, busy := d.inflight[key]; busy {
			d.mu.Unlock()
			metrics.DuplicateRequestsAborted.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"identical request already in flight"}`))
			return
		}
		d.inflight[key] = struct{}{}
		d.mu.Unlock()

		defer func() {
			d.mu.Lock()
			delete(d.inflight, key)
			d.mu.Unlock()
		}()

		next.ServeHTTP(w, r)
	})
}

func (d *Deduper) key(method, path string, body []byte) string {
	var target targetKey
	if err := json.Unmarshal(body, &target); err == nil && target.ComponentID != "" && target.TabID != "" {
		return method + " " + path + " " + target.ComponentID + ":" + target.TabID
	}
	sum := sha256.Sum256(body)
	return method + " " + path + " " + hex.EncodeToString(sum[:])
}
