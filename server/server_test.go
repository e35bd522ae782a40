package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnystate/quotes/assets"
	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/prefs"
	"github.com/sunnystate/quotes/renderer"
	rasterrenderer "github.com/sunnystate/quotes/renderer/raster"
	"github.com/sunnystate/quotes/theme"
)

type fakeBackend struct{}

func (fakeBackend) LayoutLines(content string, width float64, font string, size float64) ([]layout.TextLine, error) {
	return renderer.Wrap(content, width, func(s string) float64 { return float64(len([]rune(s))) * size * 0.5 }), nil
}

func (fakeBackend) Render(doc *layout.Document) ([]byte, error) {
	return []byte("%PDF-1.7 fake"), nil
}

type noImages struct{}

func (noImages) Fetch(context.Context, string) (image.Image, error) { return nil, assets.ErrFetch }

const quoteJSON = `{
  "company": {"name": "Sunny State Glass", "websiteUrl": "sunnystateglass.com"},
  "project": {"name": "Smith Residence", "quoteNumber": "204", "quoteDate": "2026-01-15"},
  "client": {"name": "Jane Smith", "email": "jane@example.com"},
  "lineItems": [
    {"id": "1", "room": "Master Bath", "description": "Frameless shower door", "quantity": "1", "unitPrice": "1800", "total": "1800"}
  ],
  "laborInstallation": "250",
  "installationWeeks": 3
}`

type fixture struct {
	srv      *httptest.Server
	upstream *httptest.Server
	store    *prefs.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		if r.FormValue("upload_preset") != "ok" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid upload preset"}}`))
			return
		}
		_, hdr, _ := r.FormFile("file")
		_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn.example.com/" + hdr.Filename})
	}))
	t.Cleanup(upstream.Close)

	store := prefs.Memory()
	gen := export.NewGenerator(fakeBackend{}, noImages{}, export.WithLogger(quiet))
	uploader := assets.NewUploader(upstream.URL, "ok", 1<<20)
	uploader.Log = quiet

	h := NewRouter(Deps{
		Generator: gen,
		Thumbnails: func(page int) *export.Generator {
			return export.NewGenerator(rasterrenderer.NewRenderer(24).WithPage(page), noImages{}, export.WithLogger(quiet))
		},
		Uploader: uploader,
		Logos:    assets.NewLogoHistory(store),
		Theme: theme.NewManager(store, theme.WithClock(func() time.Time {
			return time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local)
		})),
		Metrics: NewMetrics(func() float64 { return float64(gen.LiveArtifacts()) }),
		Log:     quiet,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, upstream: upstream, store: store}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRenderDownload(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.srv.URL+"/v1/quotes/render", "application/json", strings.NewReader(quoteJSON))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Smith_Residence_204.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "1", resp.Header.Get("X-Page-Count"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRenderPreviewIsInline(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.srv.URL+"/v1/quotes/render?mode=preview", "application/json", strings.NewReader(quoteJSON))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "inline;"))
}

func TestRenderRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name, query, body string
		status            int
		code              string
	}{
		{"bad mode", "?mode=print", quoteJSON, http.StatusBadRequest, codeValidation},
		{"bad json", "", "{", http.StatusBadRequest, codeBadRequest},
		{"bad email", "", `{"client":{"email":"not-an-email"}}`, http.StatusUnprocessableEntity, codeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(f.srv.URL+"/v1/quotes/render"+tc.query, "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			var er ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
			assert.Equal(t, tc.code, er.Error.Code)
		})
	}
}

func TestThumbnailPNG(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.srv.URL+"/v1/quotes/thumbnail?page=1", "application/json", strings.NewReader(quoteJSON))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 199, img.Bounds().Dx())

	resp2, err := http.Post(f.srv.URL+"/v1/quotes/thumbnail?page=9", "application/json", strings.NewReader(quoteJSON))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp2.StatusCode)
}

func uploadRequest(t *testing.T, url, name string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG fake"))
	require.NoError(t, mw.Close())
	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadLogoUpdatesRecent(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"a.png", "b.png", "a.png"} {
		resp, err := http.DefaultClient.Do(uploadRequest(t, f.srv.URL+"/v1/assets?kind=logo", name))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(f.srv.URL + "/v1/logos/recent")
	require.NoError(t, err)
	defer resp.Body.Close()
	var recent []assets.Uploaded
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recent))
	require.Len(t, recent, 2)
	assert.Equal(t, "https://cdn.example.com/a.png", recent[0].URL)
	assert.Equal(t, "https://cdn.example.com/b.png", recent[1].URL)
}

func TestUploadPhotoSkipsRecentAndRejectsBadKind(t *testing.T) {
	f := newFixture(t)
	resp, err := http.DefaultClient.Do(uploadRequest(t, f.srv.URL+"/v1/assets?kind=photo", "door.jpg"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	recent, err := http.Get(f.srv.URL + "/v1/logos/recent")
	require.NoError(t, err)
	defer recent.Body.Close()
	body, _ := io.ReadAll(recent.Body)
	assert.JSONEq(t, `[]`, string(body))

	resp, err = http.DefaultClient.Do(uploadRequest(t, f.srv.URL+"/v1/assets?kind=banner", "x.png"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestThemeToggle(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/v1/theme")
	require.NoError(t, err)
	var st theme.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	resp.Body.Close()
	assert.Equal(t, theme.State{Mode: theme.Light, Auto: true}, st)

	resp, err = http.Post(f.srv.URL+"/v1/theme", "application/json", strings.NewReader(`{"action":"toggle"}`))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	resp.Body.Close()
	assert.Equal(t, theme.State{Mode: theme.Dark}, st)

	saved, _ := f.store.String(theme.KeyTheme)
	assert.Equal(t, "dark", saved)

	resp, err = http.Post(f.srv.URL+"/v1/theme", "application/json", strings.NewReader(`{"action":"set"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.srv.URL+"/v1/quotes/render", "application/json", strings.NewReader(quoteJSON))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `quotes_documents_total{mode="download",outcome="ok"} 1`)
	assert.Contains(t, string(body), "quotes_live_artifacts 0")
}
