package layout

// pageCollector accumulates pages in order; drawing always targets the
// most recently opened page.
type pageCollector struct {
	geom  Geometry
	pages []*Page
}

func newPageCollector(geom Geometry) *pageCollector {
	return &pageCollector{geom: geom}
}

func (pc *pageCollector) newPage(section Section) *Page {
	p := &Page{
		Number:  len(pc.pages) + 1,
		Section: section,
		Width:   pc.geom.Width,
		Height:  pc.geom.Height,
		Margin:  pc.geom.Margin,
	}
	pc.pages = append(pc.pages, p)
	return p
}

func (pc *pageCollector) curr() *Page {
	if len(pc.pages) == 0 {
		return pc.newPage(SectionMain)
	}
	return pc.pages[len(pc.pages)-1]
}

func (pc *pageCollector) text(tb TextBox) {
	p := pc.curr()
	p.Ops = append(p.Ops, Op{Kind: OpText, Text: &tb})
}

func (pc *pageCollector) line(ln Line) {
	p := pc.curr()
	p.Ops = append(p.Ops, Op{Kind: OpLine, Line: &ln})
}

func (pc *pageCollector) rect(rc Rect) {
	p := pc.curr()
	p.Ops = append(p.Ops, Op{Kind: OpRect, Rect: &rc})
}

func (pc *pageCollector) image(img ImageBox) {
	p := pc.curr()
	p.Ops = append(p.Ops, Op{Kind: OpImage, Image: &img})
}

func (pc *pageCollector) link(l Link) {
	p := pc.curr()
	p.Links = append(p.Links, l)
}

func (pc *pageCollector) all() []Page {
	out := make([]Page, len(pc.pages))
	for i, p := range pc.pages {
		out[i] = *p
	}
	return out
}
