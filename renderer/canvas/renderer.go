// Package canvasrenderer draws laid-out documents to PDF with tdewolff/canvas.
package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/sunnystate/quotes/fonts"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/renderer"
)

const hairline = 0.2

var transparent = color.RGBA{}

// Renderer draws documents via github.com/tdewolff/canvas. It cannot emit
// link annotations; page links are dropped.
type Renderer struct {
	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer creates a renderer using the built-in fonts.
func NewRenderer() *Renderer {
	return &Renderer{families: map[string]*canvas.FontFamily{}}
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("canvas: nil document")
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("canvas: document has no pages")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, doc.Pages[0].Width, doc.Pages[0].Height, nil)
	m := doc.Meta
	writer.SetInfo(m.Title, m.Subject, "", m.Author, m.Creator)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		// top-left origin, matching layout coordinates
		ctx.SetCoordSystem(canvas.CartesianIV)

		if err := r.drawPage(ctx, page, doc.Resources); err != nil {
			return nil, fmt.Errorf("canvas: page %d: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("canvas: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines implements layout.Typesetter. fontSize and width are in mm.
func (r *Renderer) LayoutLines(content string, width float64, font string, fontSize float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return nil, err
	}
	return renderer.Wrap(content, width, face.TextWidth), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, res layout.Resources) error {
	for _, op := range page.Ops {
		var err error
		switch op.Kind {
		case layout.OpText:
			err = r.drawText(ctx, *op.Text)
		case layout.OpLine:
			drawLine(ctx, *op.Line)
		case layout.OpRect:
			drawRect(ctx, *op.Rect)
		case layout.OpImage:
			err = drawImage(ctx, *op.Image, res)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawText(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.Font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}
	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content}}
	}

	var align canvas.TextAlign
	var anchorX float64
	switch tb.Align {
	case layout.AlignCenter:
		align, anchorX = canvas.Center, tb.X+tb.Width/2
	case layout.AlignRight:
		align, anchorX = canvas.Right, tb.X+tb.Width
	default:
		align, anchorX = canvas.Left, tb.X
	}

	metrics := face.Metrics()
	glyphH := metrics.Ascent + math.Abs(metrics.Descent)
	for i, line := range lines {
		top := tb.Y + float64(i)*tb.LineHeight
		baseline := top + (tb.LineHeight-glyphH)/2 + metrics.Ascent
		ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, align))
	}
	return nil
}

func drawLine(ctx *canvas.Context, ln layout.Line) {
	w := ln.Width
	if w <= 0 {
		w = hairline
	}
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	ctx.DrawPath(ln.X1, ln.Y1, p)
}

func drawRect(ctx *canvas.Context, rc layout.Rect) {
	if rc.FillColor != nil {
		ctx.SetFillColor(colorFromLayout(*rc.FillColor))
	} else {
		ctx.SetFillColor(transparent)
	}
	if rc.StrokeWidth > 0 {
		ctx.SetStrokeColor(colorFromLayout(rc.StrokeColor))
		ctx.SetStrokeWidth(rc.StrokeWidth)
	} else {
		ctx.SetStrokeColor(transparent)
	}
	shape := canvas.Rectangle(rc.Width, rc.Height)
	if rc.Radius > 0 {
		shape = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
	}
	ctx.DrawPath(rc.X, rc.Y, shape)
}

func drawImage(ctx *canvas.Context, box layout.ImageBox, res layout.Resources) error {
	img, ok := res.Images[box.Ref]
	if !ok || img.Image == nil {
		return fmt.Errorf("image %q is not a document resource", box.Ref)
	}
	if box.Width <= 0 {
		return nil
	}
	dpmm := float64(img.Image.Bounds().Dx()) / box.Width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(box.X, box.Y, img.Image, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) fontFace(font string, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) family(font string) (*canvas.FontFamily, canvas.FontStyle, error) {
	name := strings.ToLower(font)
	if name != layout.FontBold {
		name = layout.FontRegular
	}
	style := canvas.FontRegular
	if name == layout.FontBold {
		style = canvas.FontBold
	}

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.families[name]; ok {
		return f, style, nil
	}
	data, err := fonts.Load(name)
	if err != nil {
		return nil, style, err
	}
	f := canvas.NewFontFamily("quotes-" + name)
	if err := f.LoadFont(data, 0, style); err != nil {
		return nil, style, fmt.Errorf("canvas: load font %s: %w", name, err)
	}
	r.families[name] = f
	return f, style, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func toPt(mm float64) float64 { return mm * layout.MmToPt }
