package rasterrenderer

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/quote"
)

func buildDoc(t *testing.T, r *Renderer) *layout.Document {
	t.Helper()
	it := quote.NewLineItem()
	it.Description = "Frameless shower enclosure"
	it.SetQuantity(decimal.NewFromInt(1))
	it.SetUnitPrice(decimal.NewFromInt(2450))
	doc, err := layout.Build(quote.Quote{
		Company:   quote.Company{Name: "Sunny State Glass"},
		Project:   quote.Project{Name: "Smith Residence"},
		LineItems: []quote.LineItem{it},
	}, layout.Options{Typesetter: r, Mode: layout.ModePreview})
	require.NoError(t, err)
	return doc
}

func TestRenderFirstPagePNG(t *testing.T) {
	r := NewRenderer(0)
	out, err := r.Render(buildDoc(t, r))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 794, img.Bounds().Dx())
	assert.Equal(t, 1123, img.Bounds().Dy())

	cr, cg, cb, _ := img.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{cr, cg, cb}, "margin should stay white")
}

func TestRenderPageOutOfRange(t *testing.T) {
	r := NewRenderer(72)
	_, err := r.WithPage(3).Render(buildDoc(t, r))
	assert.Error(t, err)
}

func TestLayoutLinesMatchesMillimetres(t *testing.T) {
	r := NewRenderer(300)
	lines, err := r.LayoutLines("TOTAL AMOUNT", 0, layout.FontBold, 10*layout.PtToMm)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	// twelve bold glyphs at 10pt span a couple of centimetres, independent of dpi
	assert.InDelta(t, 25, lines[0].Width, 12)
}
