// Package httpapi exposes the redirect endpoint, the link management API and
// the dashboard over chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/yourname/linkdash/internal/config"
	"github.com/yourname/linkdash/internal/core"
	"github.com/yourname/linkdash/internal/metrics"
	"github.com/yourname/linkdash/internal/store"
)

type Router struct {
	cfg config.Config
	svc *core.Service
}

func NewRouter(cfg config.Config, svc *core.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", dur).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	api := &Router{cfg: cfg, svc: svc}

	r.MethodFunc(http.MethodGet, "/healthz", api.handleHealth)
	r.MethodFunc(http.MethodGet, "/readyz", api.handleReady)
	r.MethodFunc(http.MethodGet, "/metrics", metrics.Handler)

	r.Route("/api/links", func(r chi.Router) {
		r.MethodFunc(http.MethodGet, "/", api.handleList)
		r.MethodFunc(http.MethodPost, "/", api.handleCreate)
		r.MethodFunc(http.MethodGet, "/{code}", api.handleGet)
		r.MethodFunc(http.MethodDelete, "/{code}", api.handleDelete)
	})

	// Dashboard pages
	r.MethodFunc(http.MethodGet, "/", api.handleDashboard)
	r.MethodFunc(http.MethodGet, "/code/{code}", api.handleStatsPage)

	// Redirect path
	r.MethodFunc(http.MethodGet, "/{code}", api.handleRedirect)

	return r
}

type createReq struct {
	URL        string `json:"url"`
	CustomCode string `json:"customCode,omitempty"`
}

// last_clicked is always null at creation time, so it is omitted here.
type createResp struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"original_url"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	ShortURL    string    `json:"short_url,omitempty"`
}

type deleteResp struct {
	Success bool `json:"success"`
	Deleted struct {
		Code string `json:"code"`
	} `json:"deleted"`
}

func (rt *Router) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}
	link, err := rt.svc.Create(r.Context(), req.URL, req.CustomCode)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	resp := createResp{
		Code:        link.Code,
		OriginalURL: link.OriginalURL,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt,
	}
	if rt.cfg.BaseURL != "" {
		resp.ShortURL = strings.TrimRight(rt.cfg.BaseURL, "/") + "/" + link.Code
	}
	writeJSON(w, resp, http.StatusCreated)
	metrics.Creates.Inc()
}

func (rt *Router) handleList(w http.ResponseWriter, r *http.Request) {
	links, err := rt.svc.List(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, links, http.StatusOK)
}

func (rt *Router) handleGet(w http.ResponseWriter, r *http.Request) {
	link, err := rt.svc.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, link, http.StatusOK)
}

func (rt *Router) handleDelete(w http.ResponseWriter, r *http.Request) {
	code, err := rt.svc.Delete(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	var resp deleteResp
	resp.Success = true
	resp.Deleted.Code = code
	writeJSON(w, resp, http.StatusOK)
	metrics.Deletes.Inc()
}

func (rt *Router) handleRedirect(w http.ResponseWriter, r *http.Request) {
	target, err := rt.svc.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RedirectMisses.Inc()
		}
		rt.writeServiceError(w, r, err)
		return
	}
	metrics.Redirects.Inc()
	// Target is served verbatim; 302 keeps browsers coming back through us
	// so every click is counted.
	http.Redirect(w, r, target, http.StatusFound)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (rt *Router) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (rt *Router) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrMissingURL),
		errors.Is(err, core.ErrInvalidURL),
		errors.Is(err, core.ErrBadCode),
		errors.Is(err, core.ErrEmptyCode):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrCodeTaken):
		writeError(w, err.Error(), http.StatusConflict)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}
