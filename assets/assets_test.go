package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnystate/quotes/prefs"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	logo := pngBytes(t, 200, 100)
	mux := http.NewServeMux()
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(logo)
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/garbage.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchDecodesPNG(t *testing.T) {
	srv := imageServer(t)
	img, err := NewFetcher(time.Second).Fetch(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestFetchFailuresWrapErrFetch(t *testing.T) {
	srv := imageServer(t)
	f := NewFetcher(100 * time.Millisecond)
	for _, path := range []string{"/missing.png", "/garbage.png", "/slow.png"} {
		_, err := f.Fetch(context.Background(), srv.URL+path)
		assert.True(t, errors.Is(err, ErrFetch), path)
	}
	_, err := f.Fetch(context.Background(), "/etc/passwd")
	assert.True(t, errors.Is(err, ErrFetch))
}

type countingFetcher struct {
	inner    ImageFetcher
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (c *countingFetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	c.calls.Add(1)
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return c.inner.Fetch(ctx, ref)
}

func TestPrefetchDropsFailuresAndBoundsConcurrency(t *testing.T) {
	srv := imageServer(t)
	cf := &countingFetcher{inner: NewFetcher(time.Second)}
	reqs := []Request{
		{Ref: srv.URL + "/logo.png", Label: "Shower"},
		{Ref: srv.URL + "/logo.png", Label: "Mirror"},
		{Ref: srv.URL + "/missing.png", Label: "Railing"},
		{Ref: srv.URL + "/logo.png?v=2", Label: "Door"},
		{Ref: "", Label: "No photo"},
	}
	got := Prefetch(context.Background(), cf, reqs, 2, quietLogger())

	assert.Len(t, got, 2)
	_, ok := got.Lookup(srv.URL + "/missing.png")
	assert.False(t, ok)
	assert.EqualValues(t, 3, cf.calls.Load())
	assert.LessOrEqual(t, cf.peak.Load(), int32(2))
}

func TestFetchOneLogsAndReportsAbsent(t *testing.T) {
	srv := imageServer(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	_, ok := FetchOne(context.Background(), NewFetcher(time.Second), srv.URL+"/missing.png", "logo", log)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "image fetch failed")
	assert.Contains(t, buf.String(), "item=logo")
}

func TestUploadReturnsHostedURL(t *testing.T) {
	var gotPreset, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		gotName = hdr.Filename
		_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn.example.com/logo.png"})
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "sunny-unsigned", 1<<20)
	u.Log = quietLogger()
	u.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }

	res, err := u.Upload(context.Background(), KindLogo, "logo.png", bytes.NewReader(pngBytes(t, 4, 4)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", res.URL)
	assert.Equal(t, "logo.png", res.FileName)
	assert.Equal(t, "sunny-unsigned", gotPreset)
	assert.Equal(t, "logo.png", gotName)
}

func TestUploadFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "nope", 1<<20)
	_, err := u.Upload(context.Background(), KindPhoto, "a.png", bytes.NewReader([]byte("x")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpload))
	assert.Contains(t, err.Error(), "Upload preset not found")

	small := NewUploader(srv.URL, "p", 4)
	_, err = small.Upload(context.Background(), KindPhoto, "a.png", bytes.NewReader([]byte("too large")))
	assert.True(t, errors.Is(err, ErrUpload))

	_, err = NewUploader("", "p", 0).Upload(context.Background(), KindLogo, "a.png", bytes.NewReader(nil))
	assert.True(t, errors.Is(err, ErrUpload))
}

func TestLogoHistoryDedupesAndCaps(t *testing.T) {
	h := NewLogoHistory(prefs.Memory())
	assert.Empty(t, h.Recent())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		_, err := h.Add(Uploaded{
			URL:        "https://cdn.example.com/" + string(rune('a'+i)) + ".png",
			FileName:   string(rune('a'+i)) + ".png",
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	list := h.Recent()
	require.Len(t, list, MaxRecentLogos)
	assert.Equal(t, "l.png", list[0].FileName)
	assert.Equal(t, "c.png", list[9].FileName)

	// re-adding an existing url moves it to the front without duplicating
	_, err := h.Add(Uploaded{URL: "https://cdn.example.com/e.png", FileName: "e2.png", UploadedAt: base})
	require.NoError(t, err)
	list = h.Recent()
	require.Len(t, list, MaxRecentLogos)
	assert.Equal(t, "e2.png", list[0].FileName)
	count := 0
	for _, l := range list {
		if l.URL == "https://cdn.example.com/e.png" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, base, list[0].UploadedAt)
}

// slowPrefs widens the window between reading and writing the list.
type slowPrefs struct {
	*prefs.Store
}

func (p slowPrefs) Unmarshal(key string, out any) error {
	err := p.Store.Unmarshal(key, out)
	time.Sleep(2 * time.Millisecond)
	return err
}

func TestLogoHistoryConcurrentAddsKeepEveryLogo(t *testing.T) {
	h := NewLogoHistory(slowPrefs{prefs.Memory()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.Add(Uploaded{URL: "https://cdn.example.com/" + string(rune('a'+i)) + ".png", UploadedAt: time.Now()})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, h.Recent(), 8)
}
