package preview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/quote"
)

func named(name string) quote.Quote {
	return quote.Quote{Project: quote.Project{Name: name}}
}

type recorder struct {
	mu       sync.Mutex
	rendered []string
	made     []*export.Artifact
}

func (r *recorder) render(_ context.Context, q quote.Quote) (*export.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, q.Project.Name)
	art := export.NewArtifact(q.FileName(), "application/pdf", []byte(q.Project.Name))
	r.made = append(r.made, art)
	return art, nil
}

func quiet() Option { return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))) }

func TestDebounceRendersOnlyLatest(t *testing.T) {
	rec := &recorder{}
	committed := make(chan uint64, 4)
	s := NewScheduler(30*time.Millisecond, rec.render, quiet(),
		OnCommit(func(seq uint64, _ *export.Artifact) { committed <- seq }))
	defer s.Close()

	s.Submit(named("A"))
	s.Submit(named("AB"))
	last := s.Submit(named("ABC"))

	select {
	case seq := <-committed:
		assert.Equal(t, last, seq)
	case <-time.After(2 * time.Second):
		t.Fatal("preview never committed")
	}
	art, seq := s.Current()
	require.NotNil(t, art)
	assert.Equal(t, last, seq)
	data, err := art.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(data))

	rec.mu.Lock()
	assert.Equal(t, []string{"ABC"}, rec.rendered)
	rec.mu.Unlock()
}

func TestStaleResultIsReleased(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var stale *export.Artifact
	render := func(_ context.Context, q quote.Quote) (*export.Artifact, error) {
		art := export.NewArtifact("", "", []byte(q.Project.Name))
		if q.Project.Name == "slow" {
			stale = art
			started <- struct{}{}
			<-release
		}
		return art, nil
	}
	committed := make(chan uint64, 4)
	s := NewScheduler(time.Millisecond, render, quiet(),
		OnCommit(func(seq uint64, _ *export.Artifact) { committed <- seq }))
	defer s.Close()

	s.Submit(named("slow"))
	<-started
	newer := s.Submit(named("fast"))

	select {
	case seq := <-committed:
		assert.Equal(t, newer, seq)
	case <-time.After(2 * time.Second):
		t.Fatal("newer preview never committed")
	}
	close(release)

	assert.Eventually(t, stale.Released, 2*time.Second, 5*time.Millisecond)
	_, seq := s.Current()
	assert.Equal(t, newer, seq)
}

func TestReplacingReleasesPrevious(t *testing.T) {
	rec := &recorder{}
	committed := make(chan uint64, 4)
	s := NewScheduler(time.Millisecond, rec.render, quiet(),
		OnCommit(func(seq uint64, _ *export.Artifact) { committed <- seq }))

	s.Submit(named("first"))
	<-committed
	first, _ := s.Current()

	s.Submit(named("second"))
	<-committed
	second, _ := s.Current()

	assert.True(t, first.Released())
	assert.False(t, second.Released())

	s.Close()
	assert.True(t, second.Released())
	cur, _ := s.Current()
	assert.Nil(t, cur)
}

func TestRenderErrorKeepsPreviousPreview(t *testing.T) {
	fail := false
	var mu sync.Mutex
	render := func(_ context.Context, q quote.Quote) (*export.Artifact, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("render failed")
		}
		return export.NewArtifact("", "", []byte("ok")), nil
	}
	committed := make(chan uint64, 4)
	s := NewScheduler(time.Millisecond, render, quiet(),
		OnCommit(func(seq uint64, _ *export.Artifact) { committed <- seq }))
	defer s.Close()

	first := s.Submit(named("ok"))
	<-committed

	mu.Lock()
	fail = true
	mu.Unlock()
	s.Submit(named("broken"))
	time.Sleep(50 * time.Millisecond)

	art, seq := s.Current()
	assert.Equal(t, first, seq)
	assert.False(t, art.Released())
}

func TestSubmitAfterCloseIsIgnored(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(time.Millisecond, rec.render, quiet())
	s.Close()
	s.Submit(named("late"))
	time.Sleep(20 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Empty(t, rec.rendered)
}
