// Package renderer defines the backends that turn a laid-out document into bytes.
package renderer

import "github.com/sunnystate/quotes/layout"

// Renderer writes a laid-out document to its final binary form, such as PDF or PNG.
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

// Backend is a Renderer that also measures text with its own fonts, so the
// layout wraps lines exactly as the backend will draw them.
type Backend interface {
	Renderer
	layout.Typesetter
}

// Content types of the built-in backends.
const (
	ContentTypePDF = "application/pdf"
	ContentTypePNG = "image/png"
)

// ContentTyper is implemented by backends whose output is not PDF.
type ContentTyper interface {
	ContentType() string
}

// ContentTypeOf returns the MIME type r produces.
func ContentTypeOf(r Renderer) string {
	if ct, ok := r.(ContentTyper); ok {
		return ct.ContentType()
	}
	return ContentTypePDF
}
