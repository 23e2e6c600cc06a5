// Package httpapi exposes screening over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"AdverseScreener/internal/domain"
)

const (
	resultIDHeader = "X-Result-ID"
	dobLayout      = "2006-01-02"
	screenTimeout  = 10 * time.Minute
)

// Service is what the handlers need from the screening use case.
type Service interface {
	ScreenAndStore(ctx context.Context, url string, query domain.QueryPerson) (string, domain.ScreeningResult, error)
	Get(ctx context.Context, id string) (domain.ScreeningResult, error)
	List(ctx context.Context) ([]domain.ResultMetadata, error)
}

// Handler serves the screening routes.
type Handler struct {
	service  Service
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// New creates a Handler. A nil gatherer leaves /metrics unregistered.
func New(service Service, gatherer prometheus.Gatherer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, gatherer: gatherer, logger: logger}
}

// Router builds the chi router with every route mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.handleHealth)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/screening", func(r chi.Router) {
		r.With(middleware.Timeout(screenTimeout)).Post("/screen", h.handleScreen)
		r.Get("/results", h.handleListResults)
		r.Get("/results/{id}", h.handleGetResult)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

func (h *Handler) handleScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.writeError(ctx, w, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	url := strings.TrimSpace(r.PostForm.Get("url"))
	query, err := queryFromForm(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	id, result, err := h.service.ScreenAndStore(ctx, url, query)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	w.Header().Set(resultIDHeader, id)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := intParam(r, "limit")
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	results, err := h.service.List(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, page(results, offset, limit))
}

func (h *Handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// queryFromForm joins first, middle and last names and checks the optional date of birth.
func queryFromForm(r *http.Request) (domain.QueryPerson, error) {
	first := strings.TrimSpace(r.PostForm.Get("first_name"))
	last := strings.TrimSpace(r.PostForm.Get("last_name"))
	if first == "" || last == "" {
		return domain.QueryPerson{}, errors.Join(domain.ErrInvalidRequest, errors.New("first_name and last_name are required"))
	}

	parts := []string{first}
	if middle := strings.TrimSpace(r.PostForm.Get("middle_names")); middle != "" {
		parts = append(parts, middle)
	}
	parts = append(parts, last)

	dob := strings.TrimSpace(r.PostForm.Get("date_of_birth"))
	if dob != "" {
		if _, err := time.Parse(dobLayout, dob); err != nil {
			return domain.QueryPerson{}, errors.Join(domain.ErrInvalidRequest, errors.New("date_of_birth must be YYYY-MM-DD"))
		}
	}

	return domain.QueryPerson{Name: strings.Join(parts, " "), DateOfBirth: dob}, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.Join(domain.ErrInvalidRequest, errors.New(name+" must be a non-negative integer"))
	}
	return n, nil
}

// page slices results; a zero limit means everything after offset.
func page(results []domain.ResultMetadata, offset, limit int) []domain.ResultMetadata {
	if offset >= len(results) {
		return []domain.ResultMetadata{}
	}
	results = results[offset:]
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
