// Package quote holds the quote record assembled from form input and the
// arithmetic the printed document depends on.
package quote

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sunnystate/quotes/binding"
)

// MaxProjectNameLen is the number of runes the form accepts for a project name.
const MaxProjectNameLen = 25

// DefaultNotesTemplate is substituted when the notes field is blank.
const DefaultNotesTemplate = "Estimated installation time is ${weeks} weeks from approval. " +
	"Prices include materials, removal of existing glass and clean-up. " +
	"A 50% deposit is required to schedule the work."

// Quote is the root aggregate edited by the form and handed to the layout engine by value.
type Quote struct {
	Company           Company         `json:"company"`
	Project           Project         `json:"project"`
	Client            Client          `json:"client"`
	LineItems         []LineItem      `json:"lineItems"`
	LaborInstallation decimal.Decimal `json:"laborInstallation"`
	Notes             string          `json:"notes"`
	InstallationWeeks int             `json:"installationWeeks" validate:"min=0"`
}

// Company identifies the business issuing the quote.
type Company struct {
	Name       string `json:"name"`
	Tagline    string `json:"tagline"`
	Phone      string `json:"phone"`
	License    string `json:"license"`
	WebsiteURL string `json:"websiteUrl"`
	LogoURL    string `json:"logoUrl" validate:"omitempty,url"`
}

// Project carries the title and dating information of the quote.
type Project struct {
	Name                string `json:"name"`
	QuoteNumber         string `json:"quoteNumber"`
	QuoteDate           string `json:"quoteDate"`
	ValidUntil          string `json:"validUntil"`
	UseCustomValidUntil bool   `json:"useCustomValidUntil"`
}

// Client is the customer the quote is addressed to.
type Client struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Subtotal sums the totals of the rows that will be printed.
func (q Quote) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range q.LineItems {
		if it.Printable() {
			sum = sum.Add(it.Total)
		}
	}
	return sum
}

// TotalAmount is the subtotal plus labor and installation.
func (q Quote) TotalAmount() decimal.Decimal {
	return q.Subtotal().Add(q.LaborInstallation)
}

// PrintableItems returns the rows with a non-blank description, in insertion order.
func (q Quote) PrintableItems() []LineItem {
	out := make([]LineItem, 0, len(q.LineItems))
	for _, it := range q.LineItems {
		if it.Printable() {
			out = append(out, it)
		}
	}
	return out
}

// HasRooms reports whether any printable row names a room.
func (q Quote) HasRooms() bool {
	for _, it := range q.LineItems {
		if it.Printable() && strings.TrimSpace(it.Room) != "" {
			return true
		}
	}
	return false
}

// ProjectName returns the project name capped to MaxProjectNameLen runes.
func (q Quote) ProjectName() string {
	return CapRunes(strings.TrimSpace(q.Project.Name), MaxProjectNameLen)
}

// NotesPlaceholders are the names a notes template may reference.
var NotesPlaceholders = []string{"weeks"}

// NotesText returns the user notes, or the template with the installation weeks filled in.
func (q Quote) NotesText(template string) string {
	if strings.TrimSpace(q.Notes) != "" {
		return q.Notes
	}
	if template == "" {
		template = DefaultNotesTemplate
	}
	return binding.Interpolate(template, map[string]any{"weeks": q.InstallationWeeks})
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName builds the download name from the project name and quote number.
func (q Quote) FileName() string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(q.Project.Name), "_")
	if name == "" {
		name = "Quote"
	}
	if n := strings.TrimSpace(q.Project.QuoteNumber); n != "" {
		name += "_" + whitespaceRun.ReplaceAllString(n, "_")
	}
	return name + ".pdf"
}

// Clone returns a deep copy safe to hand to another goroutine.
func (q Quote) Clone() Quote {
	out := q
	out.LineItems = make([]LineItem, len(q.LineItems))
	for i, it := range q.LineItems {
		it.ImageURLs = append([]string(nil), it.ImageURLs...)
		out.LineItems[i] = it
	}
	return out
}

// CapRunes truncates s to at most n runes.
func CapRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
