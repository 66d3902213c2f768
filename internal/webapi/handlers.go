package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yuin/goldmark"

	"github.com/kernelbot/hypercorn/dataset"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Handlers holds the HTTP handler methods for the dataset API.
type Handlers struct {
	store DatasetStore
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(store DatasetStore) *Handlers {
	return &Handlers{store: store}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleInfo describes the served dataset.
func (h *Handlers) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	info, err := h.store.Info()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleSample draws a random batch. Query params: count (default 10) and
// an optional seed for reproducible batches.
func (h *Handlers) HandleSample(w http.ResponseWriter, r *http.Request) {
	count := 10
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid count %q", raw))
			return
		}
		count = n
	}

	var seed *int64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid seed %q", raw))
			return
		}
		seed = &n
	}

	rows, err := h.store.Sample(count, seed)
	if err != nil {
		if errors.Is(err, dataset.ErrInvalidBatchSize) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, SampleResponse{Count: len(rows), Rows: rows})
}

// HandleStats returns the dataset profile.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleCard renders the dataset card markdown as HTML. Without a card
// file a minimal index page is served instead.
func (h *Handlers) HandleCard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	card, err := h.store.Card()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!DOCTYPE html>\n<html><head><title>hypercorn</title></head><body>\n")
	if card == "" {
		fmt.Fprint(w, "<h1>hypercorn</h1><p>No dataset card found. API endpoints: /api/health, /api/dataset, /api/sample, /api/stats</p>")
	} else if err := goldmark.Convert([]byte(card), w); err != nil {
		fmt.Fprintf(w, "<p>failed to render dataset card: %v</p>", err)
	}
	fmt.Fprint(w, "\n</body></html>\n")
}

// RegisterRoutes registers all dataset API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, store DatasetStore) {
	h := NewHandlers(store)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/dataset", h.HandleInfo)
	mux.HandleFunc("GET /api/sample", h.HandleSample)
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("GET /", h.HandleCard)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
