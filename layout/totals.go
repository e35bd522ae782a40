package layout

import (
	"strings"

	"github.com/sunnystate/quotes/format"
)

const (
	totalsTopGap      = 6.0
	totalsLabelOffset = 70.0
	totalsRowHeight   = 7.0
	totalsFontSize    = 9.5
	totalBoxGap       = 2.0
	totalBoxWidth     = 80.0
	totalBoxHeight    = 11.0
	notesWidth        = 90.0
	notesFontSize     = 9.0
	notesLineHeight   = 4.2
	totalsFooterGap   = 4.0

	// totalsBlockHeight spans the gap above the subtotal row down to the
	// bottom of the total box.
	totalsBlockHeight = totalsTopGap + 2*totalsRowHeight + totalBoxGap + totalBoxHeight
	// notesOffset is where the notes column starts, level with the total box.
	notesOffset = totalsTopGap + 2*totalsRowHeight + totalBoxGap
)

var (
	notesHeadingStyle = textStyle{font: FontBold, size: notesFontSize}
	notesBodyStyle    = textStyle{size: notesFontSize, lineHeight: notesLineHeight}
)

func (e *engine) notesText() string {
	return strings.TrimSpace(e.q.NotesText(e.style.NotesTemplate))
}

// totalsHeight measures the block drawTotals will draw below the last row,
// the notes column included.
func (e *engine) totalsHeight() float64 {
	notes := e.notesText()
	if notes == "" {
		return totalsBlockHeight
	}
	h := notesOffset
	h += e.compose("NOTES", 0, 0, notesWidth, notesHeadingStyle).Height + 0.5
	h += e.compose(notes, 0, 0, notesWidth, notesBodyStyle).Height
	return max(totalsBlockHeight, h)
}

// TotalsLimit is the lowest y the last table row may reach so that a totals
// block of the given height still ends above the footer.
func TotalsLimit(g Geometry, blockHeight float64) float64 {
	return FooterTop(g) - totalsFooterGap - blockHeight
}

// drawTotals renders subtotal, labor, the total box and the notes column
// directly below the table. No page break is taken here: drawTable keeps the
// last row above TotalsLimit.
func (e *engine) drawTotals(y float64) float64 {
	g := e.geom
	pal := e.style.Palette
	y += totalsTopGap

	labelX := g.Right() - totalsLabelOffset
	row := func(label, value string) {
		inset := (totalsRowHeight - pt(totalsFontSize)*1.2) / 2
		e.put(label, labelX, y+inset, totalsLabelOffset, textStyle{size: totalsFontSize, color: pal.Muted})
		e.put(value, labelX, y+inset, totalsLabelOffset, textStyle{font: FontBold, size: totalsFontSize, color: pal.Text, align: AlignRight})
		y += totalsRowHeight
	}
	row("SUBTOTAL", format.Money(e.q.Subtotal()))
	row("LABOR & INSTALLATION", format.Money(e.q.LaborInstallation))

	boxY := y + totalBoxGap
	boxX := g.Right() - totalBoxWidth
	fill := pal.Primary
	e.pc.rect(Rect{X: boxX, Y: boxY, Width: totalBoxWidth, Height: totalBoxHeight, Radius: bandRadius, FillColor: &fill})

	label := textStyle{font: FontBold, size: 10, color: pal.OnPrimary}
	e.put("TOTAL AMOUNT", boxX+4, boxY+(totalBoxHeight-label.leading())/2, totalBoxWidth/2, label)
	value := textStyle{font: FontBold, size: 12, color: pal.OnPrimary, align: AlignRight}
	e.put(format.Money(e.q.TotalAmount()), boxX, boxY+(totalBoxHeight-value.leading())/2, totalBoxWidth-4, value)
	bottom := boxY + totalBoxHeight

	notes := e.notesText()
	if notes == "" {
		return bottom
	}
	heading, body := notesHeadingStyle, notesBodyStyle
	heading.color, body.color = pal.Primary, pal.Text
	ny := boxY
	ny += e.put("NOTES", g.Margin, ny, notesWidth, heading)
	ny += 0.5
	ny += e.put(notes, g.Margin, ny, notesWidth, body)
	return max(bottom, ny)
}
