package layout

import (
	"fmt"
	"strings"
)

const (
	galleryColumns   = 2
	galleryGap       = 8.0
	galleryBoxWidth  = 86.0
	galleryBoxHeight = 70.0
	galleryCaption   = 6.0
	galleryRowGap    = 8.0
	galleryBanner    = 9.0
	galleryBannerGap = 6.0
	galleryFooterGap = 4.0
	galleryTitle     = "REFERENCE PHOTOS"
)

// GalleryFootprint is the vertical space one grid row consumes.
const GalleryFootprint = galleryCaption + galleryBoxHeight + galleryRowGap

// GalleryLimit is the lowest y a gallery row may reach on a page.
func GalleryLimit(g Geometry) float64 {
	return FooterTop(g) - galleryFooterGap
}

// GalleryRowsPerPage is how many grid rows fit between top and the gallery limit.
func GalleryRowsPerPage(g Geometry, top float64) int {
	return max(int((GalleryLimit(g)-top)/GalleryFootprint), 1)
}

type galleryImage struct {
	ref     string
	caption string
	w, h    float64
}

// galleryImages flattens the photo groups in item order. Images that did not
// resolve are dropped from their group before captions are numbered.
func (e *engine) galleryImages() []galleryImage {
	var out []galleryImage
	for _, it := range e.q.PrintableItems() {
		var group []galleryImage
		for _, ref := range it.ImageURLs {
			img, ok := e.lookup(ref)
			if !ok {
				continue
			}
			b := img.Bounds()
			group = append(group, galleryImage{ref: strings.TrimSpace(ref), w: float64(b.Dx()), h: float64(b.Dy())})
		}
		label := it.Label()
		for i := range group {
			group[i].caption = label
			if len(group) > 1 {
				group[i].caption = fmt.Sprintf("%s (%d/%d)", label, i+1, len(group))
			}
		}
		out = append(out, group...)
	}
	return out
}

// galleryPage opens a gallery page with header band and section banner,
// returning the grid top.
func (e *engine) galleryPage() float64 {
	g := e.geom
	pal := e.style.Palette
	e.pc.newPage(SectionGallery)
	y := e.drawHeader()
	e.band(g.Margin, y, g.ContentWidth(), galleryBanner, pal.Primary)
	ts := textStyle{font: FontBold, size: 11, color: pal.OnPrimary, align: AlignCenter}
	e.put(galleryTitle, g.Margin, y+(galleryBanner-ts.leading())/2, g.ContentWidth(), ts)
	return y + galleryBanner + galleryBannerGap
}

func (e *engine) drawGallery() {
	imgs := e.galleryImages()
	if len(imgs) == 0 {
		return
	}
	g := e.geom
	pal := e.style.Palette
	limit := GalleryLimit(g)
	cellW := (g.ContentWidth() - galleryGap*(galleryColumns-1)) / galleryColumns
	boxW := min(galleryBoxWidth, cellW)

	y := e.galleryPage()
	info := &GalleryInfo{
		ContentTop:  y,
		Limit:       limit,
		RowHeight:   GalleryFootprint,
		RowsPerPage: GalleryRowsPerPage(g, y),
		Images:      len(imgs),
		FirstPage:   e.pc.curr().Number,
	}

	col, rowsOnPage := 0, 0
	for _, im := range imgs {
		if col == 0 && rowsOnPage > 0 && y+GalleryFootprint > limit {
			e.drawFooter()
			y = e.galleryPage()
			rowsOnPage = 0
		}
		x := g.Margin + float64(col)*(cellW+galleryGap)

		tb := e.compose(im.caption, x, y, cellW, textStyle{font: FontBold, size: 8.5, color: pal.Text})
		if len(tb.Lines) > 1 {
			tb.Lines = []TextLine{{Content: strings.TrimSpace(tb.Lines[0].Content) + "…", Width: tb.Lines[0].Width, Height: tb.LineHeight}}
			tb.Height = tb.LineHeight
		}
		e.pc.text(tb)

		w, h := fitBox(im.w, im.h, boxW, galleryBoxHeight)
		e.pc.image(ImageBox{Ref: im.ref, X: x + (cellW-w)/2, Y: y + galleryCaption, Width: w, Height: h})

		col++
		if col == galleryColumns {
			col = 0
			y += GalleryFootprint
			info.Rows++
			rowsOnPage++
		}
	}
	if col != 0 {
		y += GalleryFootprint
		info.Rows++
	}
	e.drawFooter()

	info.Pages = e.pc.curr().Number - info.FirstPage + 1
	e.gallery = info
}
