package quote

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one priced row of the quote. Total is kept equal to
// Quantity*UnitPrice by every setter.
type LineItem struct {
	ID          string          `json:"id"`
	Room        string          `json:"room"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
	ImageURLs   []string        `json:"imageUrls"`
}

// NewLineItem returns a blank row with a fresh id and quantity 1.
func NewLineItem() LineItem {
	return LineItem{
		ID:        uuid.NewString(),
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
		Total:     decimal.Zero,
	}
}

// Printable reports whether the row appears in the printed table.
func (it LineItem) Printable() bool {
	return strings.TrimSpace(it.Description) != ""
}

// SetQuantity stores a non-negative quantity and recomputes the total.
func (it *LineItem) SetQuantity(q decimal.Decimal) {
	it.Quantity = clampZero(q)
	it.recompute()
}

// SetUnitPrice stores a non-negative unit price and recomputes the total.
func (it *LineItem) SetUnitPrice(p decimal.Decimal) {
	it.UnitPrice = clampZero(p)
	it.recompute()
}

// Label is the gallery caption prefix: "room - description" or just the description.
func (it LineItem) Label() string {
	desc := strings.TrimSpace(it.Description)
	if room := strings.TrimSpace(it.Room); room != "" {
		return room + " - " + desc
	}
	return desc
}

func (it *LineItem) recompute() {
	it.Total = it.Quantity.Mul(it.UnitPrice)
}

// Normalize recomputes totals of items decoded from external input, so a
// client-supplied total never disagrees with quantity and price.
func Normalize(q *Quote) {
	for i := range q.LineItems {
		it := &q.LineItems[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.Quantity = clampZero(it.Quantity)
		it.UnitPrice = clampZero(it.UnitPrice)
		it.recompute()
	}
	q.LaborInstallation = clampZero(q.LaborInstallation)
	if q.InstallationWeeks < 0 {
		q.InstallationWeeks = 0
	}
}

// ParseAmount converts form input into a non-negative decimal. Anything
// negative or non-numeric becomes zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return clampZero(d)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
