package layout

import (
	"github.com/sunnystate/quotes/format"
	"github.com/sunnystate/quotes/quote"
)

const (
	tableHeaderHeight  = 9.0
	tableFontSize      = 9.0
	tableLineHeight    = 4.5
	tableCellPadding   = 2.0
	tableBottomReserve = 45.0
)

type column struct {
	key   string
	title string
	frac  float64
	align string
	font  string
}

// tableColumns returns the column set for the whole table. Proportions sum to 1.
func tableColumns(hasRoom bool) []column {
	cols := []column{
		{key: "description", title: "DESCRIPTION", frac: 0.58, align: AlignLeft, font: FontRegular},
		{key: "qty", title: "QTY", frac: 0.10, align: AlignCenter, font: FontRegular},
		{key: "price", title: "PRICE", frac: 0.16, align: AlignRight, font: FontRegular},
		{key: "total", title: "TOTAL", frac: 0.16, align: AlignRight, font: FontBold},
	}
	if !hasRoom {
		return cols
	}
	cols[0].frac = 0.40
	room := column{key: "room", title: "ROOM", frac: 0.18, align: AlignLeft, font: FontBold}
	return append([]column{room}, cols...)
}

func (c column) text(it quote.LineItem) string {
	switch c.key {
	case "room":
		return it.Room
	case "description":
		return it.Description
	case "qty":
		return format.Quantity(it.Quantity)
	case "price":
		return format.Money(it.UnitPrice)
	case "total":
		return format.Money(it.Total)
	}
	return ""
}

// TableLimit is the lowest y a table row may reach before the table continues
// on a new page.
func TableLimit(g Geometry) float64 {
	return g.Height - tableBottomReserve
}

func (e *engine) drawTableHeader(y float64, cols []column) float64 {
	g := e.geom
	pal := e.style.Palette
	e.band(g.Margin, y, g.ContentWidth(), tableHeaderHeight, pal.Primary)

	x := g.Margin
	top := y + (tableHeaderHeight-tableLineHeight)/2
	for _, c := range cols {
		w := c.frac * g.ContentWidth()
		e.put(c.title, x+tableCellPadding, top, w-2*tableCellPadding, textStyle{
			font: FontBold, size: tableFontSize, lineHeight: tableLineHeight, color: pal.OnPrimary, align: c.align,
		})
		x += w
	}
	return y + tableHeaderHeight
}

// drawTable prints one row per printable item, continuing on new pages with
// the header band and table header redrawn. It returns the y below the last row.
func (e *engine) drawTable(y float64) float64 {
	g := e.geom
	pal := e.style.Palette
	cols := tableColumns(e.q.HasRooms())
	limit := TableLimit(g)
	lastLimit := min(limit, TotalsLimit(g, e.totalsHeight()))

	y = e.drawTableHeader(y, cols)
	onPage := 0
	items := e.q.PrintableItems()
	for i, it := range items {
		cells := make([]TextBox, len(cols))
		rowH := 0.0
		x := g.Margin
		for j, c := range cols {
			w := c.frac * g.ContentWidth()
			cells[j] = e.compose(c.text(it), x+tableCellPadding, 0, w-2*tableCellPadding, textStyle{
				font: c.font, size: tableFontSize, lineHeight: tableLineHeight, color: pal.Text, align: c.align,
			})
			rowH = max(rowH, cells[j].Height)
			x += w
		}
		rowH += 2 * tableCellPadding

		// The last row also leaves room for the totals block. A row taller
		// than a whole page is placed anyway rather than looping.
		rowLimit := limit
		if i == len(items)-1 {
			rowLimit = lastLimit
		}
		if y+rowH > rowLimit && (onPage > 0 || e.pc.curr().Number == 1) {
			e.pc.newPage(SectionMain)
			y = e.drawHeader()
			y = e.drawTableHeader(y, cols)
			onPage = 0
		}

		if i%2 == 1 {
			fill := pal.Stripe
			e.pc.rect(Rect{X: g.Margin, Y: y, Width: g.ContentWidth(), Height: rowH, FillColor: &fill})
		}
		for _, tb := range cells {
			tb.Y = y + tableCellPadding
			e.pc.text(tb)
		}
		e.hrule(y+rowH, pal.Rule, 0.2)

		e.rows = append(e.rows, RowPlacement{ItemID: it.ID, Page: e.pc.curr().Number})
		y += rowH
		onPage++
	}
	return y
}
