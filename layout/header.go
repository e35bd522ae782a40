package layout

import (
	"net/url"
	"strings"

	"github.com/sunnystate/quotes/format"
)

const (
	headerLogoWidth      = 50.0
	headerFallbackHeight = 20.0
	headerMaxLogoHeight  = 35.0
	headerRuleGap        = 4.0
	headerContentGap     = 6.0
	headerTitleGap       = 6.0

	detailsGap = 6.0

	footerHeight         = 22.0
	footerBrandMaxHeight = 16.0
	footerBrandMaxWidth  = 45.0

	bandRadius = 2.0
)

// FallbackCompanyName is drawn in the logo slot when neither a logo nor a
// company name is available.
const FallbackCompanyName = "Your Company"

// headerBand is resolved once per Build so every page gets the same band.
type headerBand struct {
	logoRef string
	logoW   float64
	logoH   float64
	title   titleFit
}

func (e *engine) resolveHeader() {
	h := headerBand{logoW: headerLogoWidth, logoH: headerFallbackHeight}
	if img, ok := e.lookup(e.q.Company.LogoURL); ok {
		b := img.Bounds()
		h.logoRef = strings.TrimSpace(e.q.Company.LogoURL)
		h.logoH = headerLogoWidth * float64(b.Dy()) / float64(b.Dx())
		if h.logoH > headerMaxLogoHeight {
			h.logoW = headerMaxLogoHeight * float64(b.Dx()) / float64(b.Dy())
			h.logoH = headerMaxLogoHeight
		}
	}
	h.title = fitTitle(e.q.ProjectName(), e.style.TitleSuffix)
	e.header = h
}

// headerBottom is the y coordinate where page content starts below the
// header band for a logo of the given height.
func headerBottom(g Geometry, logoHeight float64) float64 {
	return g.Margin + logoHeight + headerRuleGap + headerContentGap
}

// drawHeader draws the logo, title and rule, returning the content top.
func (e *engine) drawHeader() float64 {
	g := e.geom
	h := e.header
	pal := e.style.Palette
	top := g.Margin

	if h.logoRef != "" {
		e.pc.image(ImageBox{Ref: h.logoRef, X: g.Margin, Y: top, Width: h.logoW, Height: h.logoH})
	} else {
		name := strings.TrimSpace(e.q.Company.Name)
		if name == "" {
			name = FallbackCompanyName
		}
		y := top + 2
		y += e.put(name, g.Margin, y, h.logoW, textStyle{font: FontBold, size: 16, color: pal.Primary})
		if tag := strings.TrimSpace(e.q.Company.Tagline); tag != "" {
			e.put(tag, g.Margin, y+0.5, h.logoW, textStyle{size: 8, color: pal.Muted})
		}
	}

	x := g.Margin + h.logoW + headerTitleGap
	width := g.Right() - x
	center := top + h.logoH/2
	ts := textStyle{font: FontBold, size: h.title.Size, color: pal.Primary, align: AlignRight}
	lh := ts.leading()
	for i, line := range h.title.Lines {
		e.put(line, x, center+h.title.Offsets[i]-lh/2, width, ts)
	}

	ruleY := top + h.logoH + headerRuleGap
	e.hrule(ruleY, pal.Primary, 0.6)
	return headerBottom(g, h.logoH)
}

// drawDetails draws the first-page client and quote reference band.
func (e *engine) drawDetails(y float64) float64 {
	g := e.geom
	pal := e.style.Palette
	half := g.ContentWidth() / 2

	left := y
	left += e.put("PREPARED FOR", g.Margin, left, half, textStyle{font: FontBold, size: 8, color: pal.Muted})
	left += 1
	c := e.q.Client
	if name := strings.TrimSpace(c.Name); name != "" {
		left += e.put(name, g.Margin, left, half, textStyle{font: FontBold, size: 11, color: pal.Text})
	}
	if phone := format.Phone(c.Phone); phone != "" {
		left += e.put(phone, g.Margin, left, half, textStyle{size: 9, color: pal.Text})
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		left += e.put(email, g.Margin, left, half, textStyle{size: 9, color: pal.Text})
	}

	right := y
	rx := g.Margin + half
	p := e.q.Project
	if n := strings.TrimSpace(p.QuoteNumber); n != "" {
		right += e.put("Quote # "+n, rx, right, half, textStyle{font: FontBold, size: 10, color: pal.Primary, align: AlignRight})
		right += 1
	}
	if date := displayDate(p.QuoteDate); date != "" {
		right += e.put("Date: "+date, rx, right, half, textStyle{size: 9, color: pal.Text, align: AlignRight})
	}
	if until := format.ValidUntil(p.QuoteDate, p.ValidUntil, p.UseCustomValidUntil); until != "" {
		right += e.put("Valid Until: "+until, rx, right, half, textStyle{size: 9, color: pal.Text, align: AlignRight})
	}

	return max(left, right) + detailsGap
}

func displayDate(s string) string {
	if t, err := format.ParseDate(s); err == nil {
		return format.Date(t)
	}
	return strings.TrimSpace(s)
}

// FooterTop is the y coordinate of the footer rule.
func FooterTop(g Geometry) float64 {
	return g.Height - g.Margin - footerHeight
}

// drawFooter draws the company band at the bottom of the current page.
func (e *engine) drawFooter() {
	g := e.geom
	pal := e.style.Palette
	co := e.q.Company
	top := FooterTop(g)
	e.hrule(top, pal.Rule, 0.3)

	width := g.ContentWidth() - footerBrandMaxWidth - 4
	y := top + 3
	if name := strings.TrimSpace(co.Name); name != "" {
		y += e.put(name, g.Margin, y, width, textStyle{font: FontBold, size: 10, lineHeight: 4.5, color: pal.Text})
	}
	small := textStyle{size: 8.5, lineHeight: 3.8, color: pal.Muted}
	if lic := strings.TrimSpace(co.License); lic != "" {
		y += e.put("License # "+lic, g.Margin, y, width, small)
	}
	if phone := format.Phone(co.Phone); phone != "" {
		y += e.put(phone, g.Margin, y, width, small)
	}
	if site := strings.TrimSpace(co.WebsiteURL); site != "" {
		ls := small
		ls.color = pal.Link
		tb := e.compose(displayURL(site), g.Margin, y, width, ls)
		e.pc.text(tb)
		w := width
		if len(tb.Lines) > 0 && tb.Lines[0].Width > 0 {
			w = tb.Lines[0].Width
		}
		e.pc.link(Link{X: g.Margin, Y: y, Width: w, Height: tb.Height, URL: linkURL(site)})
	}

	if img, ok := e.lookup(e.style.FooterBrandImage); ok {
		b := img.Bounds()
		w, h := fitBox(float64(b.Dx()), float64(b.Dy()), footerBrandMaxWidth, footerBrandMaxHeight)
		e.pc.image(ImageBox{
			Ref:    strings.TrimSpace(e.style.FooterBrandImage),
			X:      g.Right() - w,
			Y:      top + (footerHeight-h)/2,
			Width:  w,
			Height: h,
		})
	}
	e.pc.curr().Footer = true
}

func displayURL(site string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(site, "https://"), "http://")
	return strings.TrimSuffix(s, "/")
}

func linkURL(site string) string {
	if u, err := url.Parse(site); err == nil && u.Scheme != "" {
		return site
	}
	return "https://" + site
}

// fitBox scales w x h down (or up) to fit inside maxW x maxH, preserving aspect.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := min(maxW/w, maxH/h)
	return w * scale, h * scale
}
