// Package theme keeps the light/dark editing theme. It never affects the
// exported document.
package theme

import (
	"log/slog"
	"sync"
	"time"
)

// Mode is the resolved theme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Preference keys.
const (
	KeyTheme = "theme"
	KeyAuto  = "themeAuto"
)

// Dark hours are [DarkFrom, DarkUntil) in local time, wrapping midnight.
const (
	DarkFrom  = 19
	DarkUntil = 7
)

// Store is the subset of prefs.Store the manager needs.
type Store interface {
	String(key string) (string, bool)
	Bool(key string) (bool, bool)
	Set(key string, value any) error
}

// State is what the manager reports to callers.
type State struct {
	Mode Mode `json:"mode"`
	Auto bool `json:"auto"`
}

// Manager holds the process-wide theme. Init reads the store once; Toggle
// is the only mutation.
type Manager struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
	log   *slog.Logger
	state State
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager resolves the initial theme from store: an explicit persisted
// choice wins unless auto mode is on or nothing is stored, in which case the
// local hour decides.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}

	saved, hasSaved := store.String(KeyTheme)
	auto, hasAuto := store.Bool(KeyAuto)
	if !hasAuto {
		auto = true
	}
	if hasSaved && !auto && (saved == string(Light) || saved == string(Dark)) {
		m.state = State{Mode: Mode(saved)}
		return m
	}
	m.state = State{Mode: ForHour(m.now().Hour()), Auto: true}
	return m
}

// ForHour returns Dark between DarkFrom and DarkUntil.
func ForHour(hour int) Mode {
	if hour >= DarkFrom || hour < DarkUntil {
		return Dark
	}
	return Light
}

// Current returns the theme. In auto mode it follows the clock.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Auto {
		m.state.Mode = ForHour(m.now().Hour())
	}
	return m.state
}

// Toggle flips the theme, persists it as an explicit choice and turns auto
// mode off. Persistence failures are logged; the in-memory toggle still
// applies.
func (m *Manager) Toggle() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := Dark
	if m.state.Mode == Dark {
		next = Light
	}
	m.state = State{Mode: next}
	m.persist()
	return m.state
}

// Set applies an explicit mode, or re-enables auto mode when auto is true.
func (m *Manager) Set(mode Mode, auto bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if auto {
		m.state = State{Mode: ForHour(m.now().Hour()), Auto: true}
	} else {
		m.state = State{Mode: mode}
	}
	m.persist()
	return m.state
}

func (m *Manager) persist() {
	if err := m.store.Set(KeyTheme, string(m.state.Mode)); err != nil {
		m.log.Warn("theme: persist failed", slog.Any("error", err))
		return
	}
	if err := m.store.Set(KeyAuto, m.state.Auto); err != nil {
		m.log.Warn("theme: persist failed", slog.Any("error", err))
	}
}
