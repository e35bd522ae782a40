package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sunnystate/quotes/assets"
	"github.com/sunnystate/quotes/config"
	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/logging"
	"github.com/sunnystate/quotes/prefs"
	"github.com/sunnystate/quotes/quote"
	"github.com/sunnystate/quotes/renderer"
	canvasrenderer "github.com/sunnystate/quotes/renderer/canvas"
	fpdfrenderer "github.com/sunnystate/quotes/renderer/fpdf"
	rasterrenderer "github.com/sunnystate/quotes/renderer/raster"
	"github.com/sunnystate/quotes/server"
	"github.com/sunnystate/quotes/style"
	"github.com/sunnystate/quotes/theme"
)

// Version is injected with -ldflags "-X main.Version=..."; app.version from
// config is used otherwise.
var Version = ""

const usage = `usage: quotes <command> [flags]

commands:
  render   lay out a quote JSON file and write PDF (or PNG with -backend png)
  sample   write a generated sample quote as JSON
  watch    re-render a preview PDF whenever a quote file changes
  serve    run the HTTP API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "sample":
		err = runSample(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		err = fmt.Errorf("unknown command %q\n\n%s", os.Args[1], usage)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	catalog  *style.Catalog
	style    layout.Style
	geometry layout.Geometry
}

func setup(profile string) (*app, error) {
	if profile == "" {
		profile = os.Getenv("APP_ENVIRONMENT")
	}
	if profile == "" {
		profile = "local"
	}
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if Version == "" {
		Version = cfg.App.Version
	}
	log, closeLog := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, os.Stderr)
	slog.SetDefault(log)

	catalog, err := style.Load(cfg.Render.VariantFile)
	if err != nil {
		return nil, err
	}
	st, err := catalog.Lookup(cfg.Render.Variant)
	if err != nil {
		return nil, err
	}
	geom, err := layout.PageSize(cfg.Render.PageSize, cfg.Render.MarginMM)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, closeLog: closeLog, catalog: catalog, style: st, geometry: geom}, nil
}

func (a *app) backend(name string) (renderer.Backend, error) {
	if name == "" {
		name = a.cfg.Render.Backend
	}
	switch name {
	case "canvas":
		return canvasrenderer.NewRenderer(), nil
	case "fpdf":
		return fpdfrenderer.NewRenderer()
	case "png":
		return rasterrenderer.NewRenderer(a.cfg.Render.ThumbnailDPI), nil
	}
	return nil, fmt.Errorf("unknown backend %q (canvas, fpdf, png)", name)
}

func (a *app) generator(b renderer.Backend, f assets.ImageFetcher, st layout.Style) *export.Generator {
	return export.NewGenerator(b, f,
		export.WithStyle(st),
		export.WithGeometry(a.geometry),
		export.WithConcurrency(a.cfg.Render.FetchConcurrency),
		export.WithLogger(a.log),
	)
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	input := fs.String("in", "", "quote JSON file (- for stdin)")
	output := fs.String("out", "", "output path; defaults to the quote's file name")
	mode := fs.String("mode", "download", "download or preview")
	backendName := fs.String("backend", "", "canvas, fpdf or png; defaults to render.backend")
	variant := fs.String("variant", "", "style variant; defaults to render.variant")
	page := fs.Int("page", 1, "page to rasterise with -backend png")
	debug := fs.String("debug-json", "", "write the laid-out document as JSON to this path (- for stdout)")
	profile := fs.String("profile", "", "config profile")
	_ = fs.Parse(args)

	a, err := setup(*profile)
	if err != nil {
		return err
	}
	defer a.closeLog()

	q, err := readQuote(*input)
	if err != nil {
		return err
	}
	m := layout.ModeDownload
	switch *mode {
	case "download":
	case "preview":
		m = layout.ModePreview
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}

	st := a.style
	if *variant != "" {
		if st, err = a.catalog.Lookup(*variant); err != nil {
			return err
		}
	}
	b, err := a.backend(*backendName)
	if err != nil {
		return err
	}
	if rr, ok := b.(*rasterrenderer.Renderer); ok {
		b = rr.WithPage(*page)
	}

	fetcher := assets.NewFetcher(a.cfg.Render.FetchTimeout)
	fetcher.AllowFiles = true
	gen := a.generator(b, fetcher, st)

	ctx := context.Background()
	if *debug != "" {
		doc, err := gen.Layout(ctx, q, m)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
		if err := writeDebug(doc, *debug); err != nil {
			return err
		}
	}

	art, err := gen.Generate(ctx, q, m)
	if err != nil {
		return err
	}
	defer art.Release()

	out := *output
	if out == "" {
		out = art.FileName
	}
	data, err := art.Bytes()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d pages)\n", out, art.Pages)
	return nil
}

func readQuote(path string) (quote.Quote, error) {
	var q quote.Quote
	if path == "" {
		return q, errors.New("-in is required")
	}
	f := os.Stdin
	if path != "-" {
		var err error
		if f, err = os.Open(path); err != nil {
			return q, fmt.Errorf("open quote: %w", err)
		}
		defer f.Close()
	}
	if err := json.NewDecoder(f).Decode(&q); err != nil {
		return q, fmt.Errorf("decode quote %s: %w", path, err)
	}
	return q, nil
}

func writeDebug(doc *layout.Document, path string) error {
	if path == "-" {
		return layout.EncodeDebugJSON(os.Stdout, doc)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}
	if err := layout.WriteDebugJSON(doc, path); err != nil {
		return fmt.Errorf("write debug JSON: %w", err)
	}
	return nil
}

func runSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	rows := fs.Int("rows", 6, "number of line items")
	seed := fs.Uint64("seed", 0, "random seed; 0 picks one from the clock")
	output := fs.String("out", "-", "output path (- for stdout)")
	company := fs.String("company", "Sunny State Glass", "company name")
	_ = fs.Parse(args)

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(s, s>>1))

	ed := quote.NewEditor()
	ed.Quote().Company = quote.Company{
		Name:       *company,
		Tagline:    "Custom Glass & Mirror",
		Phone:      "6025551234",
		License:    "ROC #123456",
		WebsiteURL: "sunnystateglass.com",
	}
	ed.Quote().Project.QuoteDate = time.Now().Format(time.DateOnly)
	ed.Replace(quote.Sample(rng, *rows))

	data, err := json.MarshalIndent(ed.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if *output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*output, data, 0o644)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	profile := fs.String("profile", "", "config profile")
	_ = fs.Parse(args)

	a, err := setup(*profile)
	if err != nil {
		return err
	}
	defer a.closeLog()
	cfg := a.cfg

	a.log.Info("starting quotes",
		slog.String("version", Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Render.Backend),
		slog.String("variant", a.style.Name),
	)

	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		return err
	}
	b, err := a.backend("")
	if err != nil {
		return err
	}
	fetcher := assets.NewFetcher(cfg.Render.FetchTimeout)
	gen := a.generator(b, fetcher, a.style)

	uploader := assets.NewUploader(cfg.Assets.UploadURL, cfg.Assets.UploadPreset, cfg.Assets.MaxUploadBytes)
	uploader.Log = a.log

	handler := server.NewRouter(server.Deps{
		Generator: gen,
		Thumbnails: func(page int) *export.Generator {
			return a.generator(rasterrenderer.NewRenderer(cfg.Render.ThumbnailDPI).WithPage(page), fetcher, a.style)
		},
		Uploader:       uploader,
		Logos:          assets.NewLogoHistory(store),
		Theme:          theme.NewManager(store, theme.WithLogger(a.log)),
		Metrics:        server.NewMetrics(func() float64 { return float64(gen.LiveArtifacts()) }),
		Log:            a.log,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		MaxUploadBytes: cfg.Assets.MaxUploadBytes,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, server.New(cfg.Server, handler), cfg.Server.ShutdownTimeout, a.log)
}
