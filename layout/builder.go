package layout

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/sunnystate/quotes/quote"
)

// Build lays out a quote snapshot into fixed-size pages. It is pure: every
// remote image must already be resolvable through opts.Images, and anything
// missing there is rendered with its fallback.
func Build(q quote.Quote, opts Options) (*Document, error) {
	if opts.Typesetter == nil {
		return nil, errors.New("layout: missing Typesetter")
	}
	geom := opts.Geometry
	if geom == (Geometry{}) {
		geom = A4
	}
	if err := geom.validate(); err != nil {
		return nil, err
	}
	style := opts.Style
	if style.Name == "" && style.TitleSuffix == "" {
		style = DefaultStyle()
	}
	images := opts.Images
	if images == nil {
		images = ImageMap(nil)
	}

	e := &engine{
		q:      q,
		mode:   opts.Mode,
		geom:   geom,
		style:  style,
		ts:     opts.Typesetter,
		images: images,
		pc:     newPageCollector(geom),
		res:    Resources{Images: map[string]ImageResource{}},
	}
	e.run()
	if e.err != nil {
		return nil, fmt.Errorf("layout: %w", e.err)
	}

	return &Document{
		Pages:     e.pc.all(),
		Resources: e.res,
		Meta:      e.meta(),
		Rows:      e.rows,
		Gallery:   e.gallery,
	}, nil
}

// engine carries the state of one layout pass. Typesetter failures are
// sticky: the first one is kept and later drawing becomes a no-op.
type engine struct {
	q      quote.Quote
	mode   Mode
	geom   Geometry
	style  Style
	ts     Typesetter
	images ImageSource
	pc     *pageCollector
	res    Resources

	header  headerBand
	rows    []RowPlacement
	gallery *GalleryInfo
	err     error
}

func (e *engine) run() {
	e.resolveHeader()

	e.pc.newPage(SectionMain)
	y := e.drawHeader()
	y = e.drawDetails(y)
	y = e.drawTable(y)
	e.drawTotals(y)
	e.drawFooter()

	if e.mode == ModeDownload && e.style.IncludeGallery {
		e.drawGallery()
	}
}

func (e *engine) meta() DocumentMeta {
	title := strings.TrimSpace(e.q.ProjectName() + " " + e.style.TitleSuffix)
	creator := e.style.Creator
	if creator == "" {
		creator = "quotes"
	}
	m := DocumentMeta{
		Title:   title,
		Author:  strings.TrimSpace(e.q.Company.Name),
		Creator: creator,
	}
	if n := strings.TrimSpace(e.q.Project.QuoteNumber); n != "" {
		m.Subject = "Quote #" + n
	}
	return m
}

// lookup resolves an image and registers it as a document resource.
func (e *engine) lookup(ref string) (image.Image, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	img, ok := e.images.Lookup(ref)
	if !ok {
		return nil, false
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, false
	}
	if _, seen := e.res.Images[ref]; !seen {
		e.res.Images[ref] = ImageResource{Ref: ref, PixelWidth: b.Dx(), PixelHeight: b.Dy(), Image: img}
	}
	return img, true
}

type textStyle struct {
	font       string
	size       float64 // pt
	lineHeight float64 // mm
	color      Color
	align      string
}

func (s textStyle) leading() float64 {
	if s.lineHeight > 0 {
		return s.lineHeight
	}
	return pt(s.size) * 1.2
}

// compose wraps content into a TextBox whose top-left corner is (x, y).
func (e *engine) compose(content string, x, y, width float64, s textStyle) TextBox {
	lh := s.leading()
	tb := TextBox{
		Content:    content,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: lh,
		Font:       s.font,
		FontSize:   pt(s.size),
		Color:      s.color,
		Align:      s.align,
	}
	if e.err != nil {
		return tb
	}
	if tb.Font == "" {
		tb.Font = FontRegular
	}
	lines, err := e.ts.LayoutLines(content, width, tb.Font, tb.FontSize)
	if err != nil {
		e.err = err
		return tb
	}
	if len(lines) == 0 {
		lines = []TextLine{{}}
	}
	for i := range lines {
		lines[i].Height = lh
	}
	tb.Lines = lines
	tb.Height = float64(len(lines)) * lh
	return tb
}

// put composes and draws a text run, returning its height.
func (e *engine) put(content string, x, y, width float64, s textStyle) float64 {
	tb := e.compose(content, x, y, width, s)
	e.pc.text(tb)
	return tb.Height
}

func (e *engine) hrule(y float64, c Color, w float64) {
	e.pc.line(Line{X1: e.geom.Margin, Y1: y, X2: e.geom.Right(), Y2: y, Color: c, Width: w})
}

// band draws a filled rounded rectangle with square bottom corners: the
// rounding is flattened by a plain fill over the lower radius strip.
func (e *engine) band(x, y, w, h float64, c Color) {
	fill := c
	e.pc.rect(Rect{X: x, Y: y, Width: w, Height: h, Radius: bandRadius, FillColor: &fill})
	e.pc.rect(Rect{X: x, Y: y + h - bandRadius, Width: bandRadius, Height: bandRadius, FillColor: &fill})
	e.pc.rect(Rect{X: x + w - bandRadius, Y: y + h - bandRadius, Width: bandRadius, Height: bandRadius, FillColor: &fill})
}
