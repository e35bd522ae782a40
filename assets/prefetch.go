package assets

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sunnystate/quotes/layout"
)

// Request is one image to fetch; Label names it in logs (e.g. the line item).
type Request struct {
	Ref   string
	Label string
}

// Prefetch fetches every request with at most limit in flight and returns
// the images that succeeded. Failures are logged at WARN and left out, so
// the layout treats them as absent. Duplicate refs are fetched once.
func Prefetch(ctx context.Context, f ImageFetcher, reqs []Request, limit int, log *slog.Logger) layout.ImageMap {
	if log == nil {
		log = slog.Default()
	}
	if limit <= 0 {
		limit = 1
	}

	var (
		mu  sync.Mutex
		out = layout.ImageMap{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := map[string]bool{}
	for _, r := range reqs {
		if r.Ref == "" || seen[r.Ref] {
			continue
		}
		seen[r.Ref] = true
		g.Go(func() error {
			img, err := f.Fetch(gctx, r.Ref)
			if err != nil {
				log.WarnContext(gctx, "image fetch failed",
					slog.String("url", r.Ref),
					slog.String("item", r.Label),
					slog.Any("error", err),
				)
				return nil
			}
			mu.Lock()
			out[r.Ref] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// FetchOne fetches a single image, logging a failure and reporting it as
// absent.
func FetchOne(ctx context.Context, f ImageFetcher, ref, label string, log *slog.Logger) (image.Image, bool) {
	if ref == "" {
		return nil, false
	}
	img, err := f.Fetch(ctx, ref)
	if err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.WarnContext(ctx, "image fetch failed", slog.String("url", ref), slog.String("item", label), slog.Any("error", err))
		return nil, false
	}
	return img, true
}
