// Package fpdfrenderer draws laid-out documents to PDF with jung-kurt/gofpdf.
// Unlike the canvas backend it writes the page link annotations.
package fpdfrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"sync"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/sunnystate/quotes/fonts"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/renderer"
)

const family = "go"

// Renderer is safe for concurrent use; each Render builds its own document.
type Renderer struct {
	mu      sync.Mutex
	measure *gofpdf.Fpdf
	// Created is stamped as the PDF creation date; zero means time.Now.
	Created time.Time
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer creates a renderer using the built-in fonts.
func NewRenderer() (*Renderer, error) {
	m, err := newDoc(layout.A4.Width, layout.A4.Height)
	if err != nil {
		return nil, err
	}
	return &Renderer{measure: m}, nil
}

func newDoc(w, h float64) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.AddUTF8FontFromBytes(family, "", fonts.MustLoad(fonts.Regular))
	pdf.AddUTF8FontFromBytes(family, "B", fonts.MustLoad(fonts.Bold))
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("fpdf: init: %w", err)
	}
	return pdf, nil
}

func styleOf(font string) string {
	if font == layout.FontBold {
		return "B"
	}
	return ""
}

// LayoutLines implements layout.Typesetter. fontSize and width are in mm.
func (r *Renderer) LayoutLines(content string, width float64, font string, fontSize float64) ([]layout.TextLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measure.SetFont(family, styleOf(font), fontSize*layout.MmToPt)
	lines := renderer.Wrap(content, width, r.measure.GetStringWidth)
	if err := r.measure.Error(); err != nil {
		return nil, fmt.Errorf("fpdf: measure: %w", err)
	}
	return lines, nil
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("fpdf: nil document")
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("fpdf: document has no pages")
	}
	pdf, err := newDoc(doc.Pages[0].Width, doc.Pages[0].Height)
	if err != nil {
		return nil, err
	}
	m := doc.Meta
	pdf.SetTitle(m.Title, true)
	pdf.SetAuthor(m.Author, true)
	pdf.SetSubject(m.Subject, true)
	pdf.SetCreator(m.Creator, true)
	created := r.Created
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)
	pdf.SetCatalogSort(true)

	registered := map[string]bool{}
	for _, page := range doc.Pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, op := range page.Ops {
			switch op.Kind {
			case layout.OpText:
				drawText(pdf, *op.Text)
			case layout.OpLine:
				drawLine(pdf, *op.Line)
			case layout.OpRect:
				drawRect(pdf, *op.Rect)
			case layout.OpImage:
				if err := drawImage(pdf, *op.Image, doc.Resources, registered); err != nil {
					return nil, fmt.Errorf("fpdf: page %d: %w", page.Number, err)
				}
			}
		}
		for _, l := range page.Links {
			pdf.LinkString(l.X, l.Y, l.Width, l.Height, l.URL)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(pdf *gofpdf.Fpdf, tb layout.TextBox) {
	pdf.SetFont(family, styleOf(tb.Font), tb.FontSize*layout.MmToPt)
	pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content}}
	}
	for i, line := range lines {
		w := pdf.GetStringWidth(line.Content)
		x := tb.X
		switch tb.Align {
		case layout.AlignCenter:
			x = tb.X + (tb.Width-w)/2
		case layout.AlignRight:
			x = tb.X + tb.Width - w
		}
		top := tb.Y + float64(i)*tb.LineHeight
		// cap height is roughly 0.7 of the em for the Go fonts
		baseline := top + (tb.LineHeight+tb.FontSize*0.7)/2
		pdf.Text(x, baseline, line.Content)
	}
}

func drawLine(pdf *gofpdf.Fpdf, ln layout.Line) {
	w := ln.Width
	if w <= 0 {
		w = 0.2
	}
	pdf.SetDrawColor(ln.Color.R, ln.Color.G, ln.Color.B)
	pdf.SetLineWidth(w)
	pdf.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
}

func drawRect(pdf *gofpdf.Fpdf, rc layout.Rect) {
	style := ""
	if rc.FillColor != nil {
		pdf.SetFillColor(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
		style += "F"
	}
	if rc.StrokeWidth > 0 {
		pdf.SetDrawColor(rc.StrokeColor.R, rc.StrokeColor.G, rc.StrokeColor.B)
		pdf.SetLineWidth(rc.StrokeWidth)
		style += "D"
	}
	if style == "" {
		return
	}
	if rc.Radius > 0 {
		pdf.RoundedRect(rc.X, rc.Y, rc.Width, rc.Height, rc.Radius, "1234", style)
		return
	}
	pdf.Rect(rc.X, rc.Y, rc.Width, rc.Height, style)
}

func drawImage(pdf *gofpdf.Fpdf, box layout.ImageBox, res layout.Resources, registered map[string]bool) error {
	img, ok := res.Images[box.Ref]
	if !ok || img.Image == nil {
		return fmt.Errorf("image %q is not a document resource", box.Ref)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if !registered[box.Ref] {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img.Image); err != nil {
			return fmt.Errorf("encode %q: %w", box.Ref, err)
		}
		pdf.RegisterImageOptionsReader(box.Ref, opts, &buf)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("register %q: %w", box.Ref, err)
		}
		registered[box.Ref] = true
	}
	pdf.ImageOptions(box.Ref, box.X, box.Y, box.Width, box.Height, false, opts, 0, "")
	return nil
}
