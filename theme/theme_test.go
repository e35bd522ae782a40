package theme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sunnystate/quotes/prefs"
)

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 1, hour, 30, 0, 0, time.Local) }
}

func TestForHour(t *testing.T) {
	cases := map[int]Mode{0: Dark, 6: Dark, 7: Light, 12: Light, 18: Light, 19: Dark, 23: Dark}
	for hour, want := range cases {
		assert.Equal(t, want, ForHour(hour), "hour %d", hour)
	}
}

func TestInitWithoutPreferenceUsesClock(t *testing.T) {
	m := NewManager(prefs.Memory(), WithClock(at(21)))
	assert.Equal(t, State{Mode: Dark, Auto: true}, m.Current())

	m = NewManager(prefs.Memory(), WithClock(at(10)))
	assert.Equal(t, State{Mode: Light, Auto: true}, m.Current())
}

func TestInitExplicitChoiceWins(t *testing.T) {
	store := prefs.Memory()
	_ = store.Set(KeyTheme, "light")
	_ = store.Set(KeyAuto, false)

	m := NewManager(store, WithClock(at(22)))
	assert.Equal(t, State{Mode: Light}, m.Current())
}

func TestInitAutoIgnoresSavedChoice(t *testing.T) {
	store := prefs.Memory()
	_ = store.Set(KeyTheme, "light")
	_ = store.Set(KeyAuto, true)

	m := NewManager(store, WithClock(at(22)))
	assert.Equal(t, Dark, m.Current().Mode)
}

func TestTogglePersistsAndDisablesAuto(t *testing.T) {
	store := prefs.Memory()
	m := NewManager(store, WithClock(at(9)))

	got := m.Toggle()
	assert.Equal(t, State{Mode: Dark}, got)

	saved, _ := store.String(KeyTheme)
	auto, _ := store.Bool(KeyAuto)
	assert.Equal(t, "dark", saved)
	assert.False(t, auto)

	// a fresh manager picks up the explicit choice regardless of the hour
	assert.Equal(t, State{Mode: Dark}, NewManager(store, WithClock(at(9))).Current())
}

func TestSetAutoFollowsClock(t *testing.T) {
	hour := 9
	m := NewManager(prefs.Memory(), WithClock(func() time.Time { return at(hour)() }))
	m.Toggle()
	st := m.Set("", true)
	assert.Equal(t, State{Mode: Light, Auto: true}, st)

	hour = 20
	assert.Equal(t, Dark, m.Current().Mode)
}
