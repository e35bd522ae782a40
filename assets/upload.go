package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUpload marks a failed upload. The message is safe to show to users.
var ErrUpload = errors.New("upload failed")

// Kind says what an uploaded image is for.
type Kind string

const (
	KindLogo  Kind = "logo"
	KindPhoto Kind = "photo"
)

// Uploaded is the result of a successful upload.
type Uploaded struct {
	URL        string    `json:"url"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Uploader posts single image files to an unsigned-upload image host.
type Uploader struct {
	Endpoint string
	Preset   string
	MaxBytes int64
	Client   *http.Client
	Log      *slog.Logger
	now      func() time.Time
}

// NewUploader returns an uploader for endpoint using preset.
func NewUploader(endpoint, preset string, maxBytes int64) *Uploader {
	return &Uploader{
		Endpoint: endpoint,
		Preset:   preset,
		MaxBytes: maxBytes,
		Client:   &http.Client{Timeout: 60 * time.Second},
		Log:      slog.Default(),
		now:      time.Now,
	}
}

type hostResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one file and returns its hosted URL. Every failure wraps
// ErrUpload; nothing is retried.
func (u *Uploader) Upload(ctx context.Context, kind Kind, fileName string, r io.Reader) (Uploaded, error) {
	if u.Endpoint == "" {
		return Uploaded{}, fmt.Errorf("%w: no upload endpoint configured", ErrUpload)
	}
	data, err := io.ReadAll(io.LimitReader(r, u.limit()+1))
	if err != nil {
		return Uploaded{}, fmt.Errorf("%w: read file: %w", ErrUpload, err)
	}
	if int64(len(data)) > u.limit() {
		return Uploaded{}, fmt.Errorf("%w: file exceeds %d bytes", ErrUpload, u.limit())
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return Uploaded{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if _, err := fw.Write(data); err != nil {
		return Uploaded{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	_ = mw.WriteField("upload_preset", u.Preset)
	_ = mw.WriteField("tags", string(kind))
	if err := mw.Close(); err != nil {
		return Uploaded{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, &body)
	if err != nil {
		return Uploaded{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Uploaded{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	defer resp.Body.Close()

	var hr hostResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&hr); err != nil {
		return Uploaded{}, fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}
	if hr.Error != nil {
		return Uploaded{}, fmt.Errorf("%w: %s", ErrUpload, hr.Error.Message)
	}
	url := hr.SecureURL
	if url == "" {
		url = hr.URL
	}
	if resp.StatusCode != http.StatusOK || url == "" {
		return Uploaded{}, fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}

	now := time.Now
	if u.now != nil {
		now = u.now
	}
	if u.Log != nil {
		u.Log.InfoContext(ctx, "image uploaded",
			slog.String("kind", string(kind)),
			slog.String("file", fileName),
			slog.String("url", url),
		)
	}
	return Uploaded{URL: url, FileName: fileName, UploadedAt: now().UTC()}, nil
}

func (u *Uploader) limit() int64 {
	if u.MaxBytes > 0 {
		return u.MaxBytes
	}
	return DefaultMaxBytes
}
