package quote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownItem is returned when an edit names a row id that does not exist.
var ErrUnknownItem = errors.New("quote: unknown line item")

// Field names accepted by Editor.Set.
const (
	FieldRoom        = "room"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unitPrice"
)

// Editor applies form edits to a quote while keeping the form-layer rules:
// there is always at least one row, ids are never reused, totals are eager.
// An Editor is not safe for concurrent use; hand Snapshot() to other goroutines.
type Editor struct {
	q Quote
}

// NewEditor starts an editing session with one blank row.
func NewEditor() *Editor {
	e := &Editor{q: Quote{InstallationWeeks: 2}}
	e.q.LineItems = []LineItem{NewLineItem()}
	return e
}

// EditorFor starts an editing session from an existing quote.
func EditorFor(q Quote) *Editor {
	q = q.Clone()
	Normalize(&q)
	if len(q.LineItems) == 0 {
		q.LineItems = []LineItem{NewLineItem()}
	}
	return &Editor{q: q}
}

// Snapshot returns an independent copy of the current state.
func (e *Editor) Snapshot() Quote { return e.q.Clone() }

// Quote exposes the live state for header fields (company, project, client, notes).
func (e *Editor) Quote() *Quote { return &e.q }

// AddItem appends a blank row and returns its id.
func (e *Editor) AddItem() string {
	it := NewLineItem()
	e.q.LineItems = append(e.q.LineItems, it)
	return it.ID
}

// RemoveItem deletes a row. Deleting the last remaining row replaces it with
// a blank row carrying a new id.
func (e *Editor) RemoveItem(id string) error {
	idx := e.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if len(e.q.LineItems) == 1 {
		e.q.LineItems = []LineItem{NewLineItem()}
		return nil
	}
	e.q.LineItems = append(e.q.LineItems[:idx], e.q.LineItems[idx+1:]...)
	return nil
}

// Set updates one field of a row from raw form input.
func (e *Editor) Set(id, field, value string) error {
	idx := e.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	it := &e.q.LineItems[idx]
	switch field {
	case FieldRoom:
		it.Room = value
	case FieldDescription:
		it.Description = value
	case FieldQuantity:
		it.SetQuantity(ParseAmount(value))
	case FieldUnitPrice:
		it.SetUnitPrice(ParseAmount(value))
	default:
		return fmt.Errorf("quote: unknown field %q", field)
	}
	return nil
}

// SetLabor updates the labor and installation amount from raw form input.
func (e *Editor) SetLabor(value string) {
	e.q.LaborInstallation = ParseAmount(value)
}

// SetProjectName stores the name capped to MaxProjectNameLen runes.
func (e *Editor) SetProjectName(name string) {
	e.q.Project.Name = CapRunes(name, MaxProjectNameLen)
}

// AttachImage adds an uploaded photo url to a row.
func (e *Editor) AttachImage(id, url string) error {
	idx := e.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if strings.TrimSpace(url) == "" {
		return errors.New("quote: empty image url")
	}
	e.q.LineItems[idx].ImageURLs = append(e.q.LineItems[idx].ImageURLs, url)
	return nil
}

// DetachImage removes the photo at position i from a row.
func (e *Editor) DetachImage(id string, i int) error {
	idx := e.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	urls := e.q.LineItems[idx].ImageURLs
	if i < 0 || i >= len(urls) {
		return fmt.Errorf("quote: image index %d out of range", i)
	}
	e.q.LineItems[idx].ImageURLs = append(urls[:i:i], urls[i+1:]...)
	return nil
}

// Replace swaps in generated data: info fields and the whole row list at once.
func (e *Editor) Replace(s SampleData) {
	e.q.Project.Name = CapRunes(s.ProjectName, MaxProjectNameLen)
	e.q.Project.QuoteNumber = s.QuoteNumber
	e.q.Client = Client{Name: s.ClientName, Phone: s.ClientPhone, Email: s.ClientEmail}
	e.q.LaborInstallation = clampZero(s.LaborInstallation)
	items := make([]LineItem, 0, len(s.LineItems))
	for _, it := range s.LineItems {
		it.ID = uuid.NewString()
		it.ImageURLs = append([]string(nil), it.ImageURLs...)
		it.recompute()
		items = append(items, it)
	}
	if len(items) == 0 {
		items = append(items, NewLineItem())
	}
	e.q.LineItems = items
}

func (e *Editor) index(id string) int {
	for i := range e.q.LineItems {
		if e.q.LineItems[i].ID == id {
			return i
		}
	}
	return -1
}
