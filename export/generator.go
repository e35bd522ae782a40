// Package export runs one quote through fetch, layout and render and hands
// back the finished document.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/sunnystate/quotes/assets"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/quote"
	"github.com/sunnystate/quotes/renderer"
)

// ErrExportFailed is the one failure users see; the cause is wrapped.
var ErrExportFailed = errors.New("error generating PDF, please try again")

// Generator produces quote documents. It is safe for concurrent use; each
// call works on its own snapshot.
type Generator struct {
	backend     renderer.Backend
	fetcher     assets.ImageFetcher
	style       layout.Style
	geometry    layout.Geometry
	concurrency int
	log         *slog.Logger
	live        atomic.Int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithStyle sets the visual variant.
func WithStyle(s layout.Style) Option { return func(g *Generator) { g.style = s } }

// WithGeometry sets the page size and margin.
func WithGeometry(geom layout.Geometry) Option { return func(g *Generator) { g.geometry = geom } }

// WithConcurrency bounds parallel gallery fetches.
func WithConcurrency(n int) Option { return func(g *Generator) { g.concurrency = n } }

// WithLogger sets the logger for asset and export failures.
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.log = l } }

// NewGenerator wires a rendering backend and an image fetcher.
func NewGenerator(backend renderer.Backend, fetcher assets.ImageFetcher, opts ...Option) *Generator {
	g := &Generator{
		backend:     backend,
		fetcher:     fetcher,
		style:       layout.DefaultStyle(),
		geometry:    layout.A4,
		concurrency: 4,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Style returns the variant the generator renders with.
func (g *Generator) Style() layout.Style { return g.style }

// LiveArtifacts counts artifacts produced and not yet released.
func (g *Generator) LiveArtifacts() int64 { return g.live.Load() }

// Layout fetches the images q references and lays it out. The logo and the
// footer brand image are fetched one after the other before anything else,
// since the header geometry depends on the logo; gallery photos are fetched
// together afterwards, download mode only.
func (g *Generator) Layout(ctx context.Context, q quote.Quote, mode layout.Mode) (*layout.Document, error) {
	q = q.Clone()
	quote.Normalize(&q)

	images := layout.ImageMap{}
	logo := strings.TrimSpace(q.Company.LogoURL)
	if img, ok := assets.FetchOne(ctx, g.fetcher, logo, "company logo", g.log); ok {
		images[logo] = img
	}
	brand := strings.TrimSpace(g.style.FooterBrandImage)
	if img, ok := assets.FetchOne(ctx, g.fetcher, brand, "footer brand", g.log); ok {
		images[brand] = img
	}

	if mode == layout.ModeDownload && g.style.IncludeGallery {
		var reqs []assets.Request
		for _, it := range q.PrintableItems() {
			for _, ref := range it.ImageURLs {
				reqs = append(reqs, assets.Request{Ref: strings.TrimSpace(ref), Label: it.Label()})
			}
		}
		for ref, img := range assets.Prefetch(ctx, g.fetcher, reqs, g.concurrency, g.log) {
			images[ref] = img
		}
	}

	return layout.Build(q, layout.Options{
		Mode:       mode,
		Geometry:   g.geometry,
		Style:      g.style,
		Typesetter: g.backend,
		Images:     images,
	})
}

// Generate produces the document for q. Any failure, a panic included, is
// logged and returned as ErrExportFailed; no partial artifact is returned.
func (g *Generator) Generate(ctx context.Context, q quote.Quote, mode layout.Mode) (art *Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			art, err = nil, fmt.Errorf("%w: panic: %v", ErrExportFailed, r)
		}
		if err != nil {
			g.log.ErrorContext(ctx, "export failed",
				slog.String("project", q.Project.Name),
				slog.String("mode", mode.String()),
				slog.Any("error", err),
			)
		}
	}()

	doc, err := g.Layout(ctx, q, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	data, err := g.backend.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	art = newArtifact(data, &g.live)
	art.Mode = mode
	art.Pages = len(doc.Pages)
	art.ContentType = renderer.ContentTypeOf(g.backend)
	art.FileName = q.FileName()
	if art.ContentType == renderer.ContentTypePNG {
		art.FileName = strings.TrimSuffix(art.FileName, ".pdf") + ".png"
	}
	g.log.InfoContext(ctx, "document generated",
		slog.String("file", art.FileName),
		slog.String("mode", mode.String()),
		slog.Int("pages", art.Pages),
		slog.Int("bytes", len(data)),
	)
	return art, nil
}
