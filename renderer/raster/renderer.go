// Package rasterrenderer draws a laid-out page to PNG with fogleman/gg, for
// thumbnails and quick previews.
package rasterrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/sunnystate/quotes/fonts"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/renderer"
)

// DefaultDPI gives a thumbnail about 800px wide for A4.
const DefaultDPI = 96.0

// Renderer rasterises single pages. Coordinates stay in mm in the layout and
// are converted to pixels here; only images use a context transform.
type Renderer struct {
	dpi  float64
	page int

	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	name string
	size float64
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer returns a renderer drawing page 1 at dpi (DefaultDPI when <= 0).
func NewRenderer(dpi float64) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{
		dpi:   dpi,
		page:  1,
		fonts: map[string]*opentype.Font{},
		faces: map[faceKey]font.Face{},
	}
}

// WithPage returns a copy that renders the given 1-based page.
func (r *Renderer) WithPage(n int) *Renderer {
	c := NewRenderer(r.dpi)
	c.page = n
	return c
}

// ContentType implements renderer.ContentTyper.
func (r *Renderer) ContentType() string { return renderer.ContentTypePNG }

func (r *Renderer) px(mm float64) float64 { return mm / 25.4 * r.dpi }

// Render encodes the selected page as PNG.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, errors.New("raster: document has no pages")
	}
	if r.page < 1 || r.page > len(doc.Pages) {
		return nil, fmt.Errorf("raster: page %d out of range 1..%d", r.page, len(doc.Pages))
	}
	page := doc.Pages[r.page-1]

	dc := gg.NewContext(int(math.Ceil(r.px(page.Width))), int(math.Ceil(r.px(page.Height))))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	for _, op := range page.Ops {
		var err error
		switch op.Kind {
		case layout.OpText:
			err = r.drawText(dc, *op.Text)
		case layout.OpLine:
			r.drawLine(dc, *op.Line)
		case layout.OpRect:
			r.drawRect(dc, *op.Rect)
		case layout.OpImage:
			err = r.drawImage(dc, *op.Image, doc.Resources)
		}
		if err != nil {
			return nil, fmt.Errorf("raster: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines implements layout.Typesetter. fontSize and width are in mm.
func (r *Renderer) LayoutLines(content string, width float64, fontName string, fontSize float64) ([]layout.TextLine, error) {
	face, err := r.face(fontName, r.px(fontSize))
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	measure := func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64 / r.dpi * 25.4
	}
	return renderer.Wrap(content, width, measure), nil
}

func (r *Renderer) face(name string, sizePx float64) (font.Face, error) {
	if name != layout.FontBold {
		name = layout.FontRegular
	}
	key := faceKey{name: name, size: math.Round(sizePx*4) / 4}

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	ft, ok := r.fonts[name]
	if !ok {
		data, err := fonts.Load(name)
		if err != nil {
			return nil, err
		}
		ft, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("raster: parse font %s: %w", name, err)
		}
		r.fonts[name] = ft
	}
	f, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("raster: face %s: %w", name, err)
	}
	r.faces[key] = f
	return f, nil
}

func (r *Renderer) drawText(dc *gg.Context, tb layout.TextBox) error {
	face, err := r.face(tb.Font, r.px(tb.FontSize))
	if err != nil {
		return err
	}
	// faces are shared with LayoutLines
	r.mu.Lock()
	defer r.mu.Unlock()
	dc.SetFontFace(face)
	dc.SetRGB255(tb.Color.R, tb.Color.G, tb.Color.B)

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content}}
	}
	ax, x := 0.0, tb.X
	switch tb.Align {
	case layout.AlignCenter:
		ax, x = 0.5, tb.X+tb.Width/2
	case layout.AlignRight:
		ax, x = 1, tb.X+tb.Width
	}
	for i, line := range lines {
		mid := tb.Y + float64(i)*tb.LineHeight + tb.LineHeight/2
		dc.DrawStringAnchored(line.Content, r.px(x), r.px(mid), ax, 0.35)
	}
	return nil
}

func (r *Renderer) drawLine(dc *gg.Context, ln layout.Line) {
	dc.SetRGB255(ln.Color.R, ln.Color.G, ln.Color.B)
	dc.SetLineWidth(math.Max(r.px(ln.Width), 1))
	dc.DrawLine(r.px(ln.X1), r.px(ln.Y1), r.px(ln.X2), r.px(ln.Y2))
	dc.Stroke()
}

func (r *Renderer) drawRect(dc *gg.Context, rc layout.Rect) {
	path := func() {
		if rc.Radius > 0 {
			dc.DrawRoundedRectangle(r.px(rc.X), r.px(rc.Y), r.px(rc.Width), r.px(rc.Height), r.px(rc.Radius))
			return
		}
		dc.DrawRectangle(r.px(rc.X), r.px(rc.Y), r.px(rc.Width), r.px(rc.Height))
	}
	if rc.FillColor != nil {
		path()
		dc.SetRGB255(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
		dc.Fill()
	}
	if rc.StrokeWidth > 0 {
		path()
		dc.SetRGB255(rc.StrokeColor.R, rc.StrokeColor.G, rc.StrokeColor.B)
		dc.SetLineWidth(math.Max(r.px(rc.StrokeWidth), 1))
		dc.Stroke()
	}
}

func (r *Renderer) drawImage(dc *gg.Context, box layout.ImageBox, res layout.Resources) error {
	img, ok := res.Images[box.Ref]
	if !ok || img.Image == nil {
		return fmt.Errorf("image %q is not a document resource", box.Ref)
	}
	b := img.Image.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	dc.Push()
	dc.Translate(r.px(box.X), r.px(box.Y))
	dc.Scale(r.px(box.Width)/float64(b.Dx()), r.px(box.Height)/float64(b.Dy()))
	dc.DrawImage(img.Image, 0, 0)
	dc.Pop()
	return nil
}
