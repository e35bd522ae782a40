// Package assets fetches, uploads and remembers the remote images a quote
// references: the company logo, the footer brand image and line-item photos.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// ErrFetch marks a failed image fetch. Callers treat it as "image absent".
var ErrFetch = errors.New("image fetch failed")

// DefaultTimeout bounds one fetch when the Fetcher has none configured.
const DefaultTimeout = 10 * time.Second

// DefaultMaxBytes caps a fetched image body.
const DefaultMaxBytes = 20 << 20

// ImageFetcher resolves a reference to a decoded image.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}

// Fetcher downloads images over HTTP(S). With AllowFiles set it also reads
// local paths, which the CLI uses for offline rendering.
type Fetcher struct {
	Client     *http.Client
	Timeout    time.Duration
	MaxBytes   int64
	AllowFiles bool
}

var _ ImageFetcher = (*Fetcher)(nil)

// NewFetcher returns a Fetcher with its own client and the given timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{Client: &http.Client{}, Timeout: timeout, MaxBytes: DefaultMaxBytes}
}

// Fetch downloads and decodes ref. Any failure, including a timeout or an
// undecodable body, is returned wrapped in ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrFetch)
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := f.open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, ref, err)
	}
	defer body.Close()

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	img, _, err := image.Decode(io.LimitReader(body, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %w", ErrFetch, ref, err)
	}
	return img, nil
}

func (f *Fetcher) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if !f.AllowFiles {
			return nil, errors.New("unsupported scheme")
		}
		return os.Open(strings.TrimPrefix(ref, "file://"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
