package assets

import (
	"fmt"
	"sync"
	"time"
)

// MaxRecentLogos caps the recent-logo list.
const MaxRecentLogos = 10

const recentLogosKey = "recentLogos"

// Prefs is the preference storage the logo history lives in.
type Prefs interface {
	Unmarshal(key string, out any) error
	Set(key string, value any) error
}

// LogoHistory is the persisted list of recently used logos, newest first,
// unique by URL. Adds are serialised so concurrent uploads are all kept.
type LogoHistory struct {
	mu    sync.Mutex
	prefs Prefs
}

// NewLogoHistory reads and writes the list through prefs.
func NewLogoHistory(prefs Prefs) *LogoHistory {
	return &LogoHistory{prefs: prefs}
}

type storedLogo struct {
	URL        string `koanf:"url"`
	FileName   string `koanf:"filename"`
	UploadedAt string `koanf:"uploadedAt"`
}

// Recent returns the stored logos, newest first. An unreadable list reads
// as empty.
func (h *LogoHistory) Recent() []Uploaded {
	var stored []storedLogo
	if err := h.prefs.Unmarshal(recentLogosKey, &stored); err != nil {
		return nil
	}
	out := make([]Uploaded, 0, len(stored))
	for _, s := range stored {
		if s.URL == "" {
			continue
		}
		at, _ := time.Parse(time.RFC3339, s.UploadedAt)
		out = append(out, Uploaded{URL: s.URL, FileName: s.FileName, UploadedAt: at})
	}
	return out
}

// Add puts logo at the front, dropping an older entry with the same URL and
// anything past MaxRecentLogos.
func (h *LogoHistory) Add(logo Uploaded) ([]Uploaded, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := []Uploaded{logo}
	for _, l := range h.Recent() {
		if l.URL != logo.URL {
			list = append(list, l)
		}
	}
	if len(list) > MaxRecentLogos {
		list = list[:MaxRecentLogos]
	}

	stored := make([]map[string]any, len(list))
	for i, l := range list {
		stored[i] = map[string]any{
			"url":        l.URL,
			"filename":   l.FileName,
			"uploadedAt": l.UploadedAt.UTC().Format(time.RFC3339),
		}
	}
	if err := h.prefs.Set(recentLogosKey, stored); err != nil {
		return nil, fmt.Errorf("assets: save recent logos: %w", err)
	}
	return list, nil
}
