package canvasrenderer

import (
	"bytes"
	"image"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/quote"
)

func TestLayoutLinesWrapsText(t *testing.T) {
	r := NewRenderer()
	size := 12 * layout.PtToMm

	lines, err := r.LayoutLines("hello world again", 10, layout.FontRegular, size)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}

	lines, err = r.LayoutLines("foo\n\nbar", 100, layout.FontBold, size)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 || lines[1].Content != "" {
		t.Fatalf("expected 3 lines with a blank middle, got %+v", lines)
	}
}

func TestLayoutLinesWidthLimit(t *testing.T) {
	r := NewRenderer()
	limit := 30.0
	lines, err := r.LayoutLines("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", limit, layout.FontRegular, 12*layout.PtToMm)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

func TestBoldIsWiderThanRegular(t *testing.T) {
	r := NewRenderer()
	size := 10 * layout.PtToMm
	reg, err := r.LayoutLines("TOTAL AMOUNT", 0, layout.FontRegular, size)
	if err != nil {
		t.Fatalf("regular: %v", err)
	}
	bold, err := r.LayoutLines("TOTAL AMOUNT", 0, layout.FontBold, size)
	if err != nil {
		t.Fatalf("bold: %v", err)
	}
	if bold[0].Width <= reg[0].Width {
		t.Fatalf("bold width %g should exceed regular %g", bold[0].Width, reg[0].Width)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer()
	it := quote.NewLineItem()
	it.Description = "Picture window"
	it.SetQuantity(decimal.NewFromInt(2))
	it.SetUnitPrice(decimal.NewFromInt(100))
	it.ImageURLs = []string{"photo"}
	q := quote.Quote{
		Company:   quote.Company{Name: "Sunny State Glass", LogoURL: "logo", WebsiteURL: "example.com"},
		Project:   quote.Project{Name: "Smith Residence", QuoteNumber: "7"},
		LineItems: []quote.LineItem{it},
	}
	images := layout.ImageMap{
		"logo":  image.NewRGBA(image.Rect(0, 0, 100, 40)),
		"photo": image.NewRGBA(image.Rect(0, 0, 64, 48)),
	}

	doc, err := layout.Build(q, layout.Options{Typesetter: r, Images: images})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected main page plus gallery page, got %d", len(doc.Pages))
	}
	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	if _, err := NewRenderer().Render(&layout.Document{}); err == nil {
		t.Fatalf("expected error for a document without pages")
	}
}
