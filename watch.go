package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sunnystate/quotes/assets"
	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/preview"
	"github.com/sunnystate/quotes/quote"
)

// runWatch re-renders a preview PDF whenever the quote file changes.
func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	input := fs.String("in", "", "quote JSON file to watch")
	output := fs.String("out", "preview.pdf", "preview output path")
	interval := fs.Duration("poll", 250*time.Millisecond, "how often to stat the input")
	profile := fs.String("profile", "", "config profile")
	_ = fs.Parse(args)
	if *input == "" {
		return errors.New("-in is required")
	}

	a, err := setup(*profile)
	if err != nil {
		return err
	}
	defer a.closeLog()

	b, err := a.backend("")
	if err != nil {
		return err
	}
	fetcher := assets.NewFetcher(a.cfg.Render.FetchTimeout)
	fetcher.AllowFiles = true
	gen := a.generator(b, fetcher, a.style)

	sched := preview.NewScheduler(a.cfg.Render.PreviewDebounce,
		func(ctx context.Context, q quote.Quote) (*export.Artifact, error) {
			return gen.Generate(ctx, q, layout.ModePreview)
		},
		preview.WithLogger(a.log),
		preview.OnCommit(func(seq uint64, art *export.Artifact) {
			data, err := art.Bytes()
			if err != nil {
				return
			}
			if err := os.WriteFile(*output, data, 0o644); err != nil {
				a.log.Error("write preview", slog.String("path", *output), slog.Any("error", err))
				return
			}
			a.log.Info("preview updated", slog.Uint64("seq", seq), slog.Int("pages", art.Pages))
		}),
	)
	defer sched.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var last time.Time
	tick := time.NewTicker(*interval)
	defer tick.Stop()
	for {
		if fi, err := os.Stat(*input); err == nil && fi.ModTime().After(last) {
			last = fi.ModTime()
			if q, err := readQuote(*input); err != nil {
				a.log.Warn("quote not readable", slog.Any("error", err))
			} else {
				sched.Submit(q)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}
