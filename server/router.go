// Package server is the HTTP surface: render and thumbnail a quote, upload
// images, list recent logos and switch the editing theme.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sunnystate/quotes/assets"
	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/theme"
)

// Deps are the collaborators the handlers use.
type Deps struct {
	Generator *export.Generator
	// Thumbnails returns a generator rasterising the given 1-based page.
	Thumbnails func(page int) *export.Generator
	Uploader   *assets.Uploader
	Logos      *assets.LogoHistory
	Theme      *theme.Manager
	Metrics    *Metrics
	Log        *slog.Logger

	MaxRequestSize int64
	MaxUploadBytes int64
}

// NewRouter mounts every route on a chi router.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = NewMetrics(nil)
	}
	h := &handlers{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/quotes/render", h.render)
		r.Post("/quotes/thumbnail", h.thumbnail)
		r.Post("/assets", h.upload)
		r.Get("/logos/recent", h.recentLogos)
		r.Get("/theme", h.getTheme)
		r.Post("/theme", h.setTheme)
	})
	return r
}
