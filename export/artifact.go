package export

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/sunnystate/quotes/layout"
)

// ErrReleased is returned when reading an artifact after Release.
var ErrReleased = errors.New("export: artifact released")

// Artifact is a produced document held in memory. The holder owns it and
// must call Release once it is replaced or no longer shown.
type Artifact struct {
	ID          string
	FileName    string
	ContentType string
	Mode        layout.Mode
	Pages       int

	mu       sync.Mutex
	data     []byte
	released bool
	live     *atomic.Int64
}

// NewArtifact wraps bytes produced outside a Generator, such as a page
// thumbnail.
func NewArtifact(fileName, contentType string, data []byte) *Artifact {
	a := newArtifact(data, nil)
	a.FileName, a.ContentType = fileName, contentType
	return a
}

func newArtifact(data []byte, live *atomic.Int64) *Artifact {
	if live != nil {
		live.Add(1)
	}
	return &Artifact{ID: uuid.NewString(), data: data, live: live}
}

// Bytes returns the document bytes.
func (a *Artifact) Bytes() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil, ErrReleased
	}
	return a.data, nil
}

// Size is the byte length, or 0 after Release.
func (a *Artifact) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.data)
}

// Release drops the bytes. It is safe to call more than once.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return
	}
	a.released = true
	a.data = nil
	if a.live != nil {
		a.live.Add(-1)
	}
}

// Released reports whether Release has been called.
func (a *Artifact) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}
