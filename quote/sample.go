package quote

import (
	"math/rand/v2"
	"strconv"

	"github.com/shopspring/decimal"
)

// SampleData is a generated set of info fields and rows used to fill the form.
type SampleData struct {
	ProjectName       string          `json:"projectName"`
	QuoteNumber       string          `json:"quoteNumber"`
	ClientName        string          `json:"clientName"`
	ClientPhone       string          `json:"clientPhone"`
	ClientEmail       string          `json:"clientEmail"`
	LaborInstallation decimal.Decimal `json:"laborInstallation"`
	LineItems         []LineItem      `json:"lineItems"`
}

type sampleClient struct{ name, phone, email string }

type sampleProduct struct {
	description string
	price       int64
}

var (
	sampleProjects = []string{
		"Desert Ridge", "Scottsdale Heights", "Paradise Valley", "Chandler Commons",
		"Gilbert Crossing", "Mesa Verde", "Tempe Terrace", "Phoenix Plaza",
		"Glendale Gardens", "Peoria Pines", "Fountain Hills", "Cave Creek",
		"Carefree Estates", "Sun City West", "Anthem Ranch", "Queen Creek",
	}

	sampleClients = []sampleClient{
		{"John Martinez", "602-555-1234", "jmartinez@email.com"},
		{"Sarah Johnson", "480-555-2345", "sjohnson@gmail.com"},
		{"Michael Chen", "623-555-3456", "mchen@outlook.com"},
		{"Emily Rodriguez", "520-555-4567", "erodriguez@yahoo.com"},
		{"David Thompson", "928-555-5678", "dthompson@email.com"},
		{"Jennifer Williams", "602-555-6789", "jwilliams@gmail.com"},
		{"Robert Garcia", "480-555-7890", "rgarcia@outlook.com"},
		{"Lisa Anderson", "623-555-8901", "landerson@email.com"},
	}

	sampleRooms = []string{
		"Living Room", "Master Bedroom", "Kitchen", "Dining Room", "Family Room",
		"Guest Bedroom", "Office", "Bathroom", "Hallway", "Garage", "Patio",
		"Sunroom", "Basement", "Foyer", "Laundry Room", "Den",
	}

	sampleProducts = []sampleProduct{
		{`24" x 36" Single Pane Window`, 185},
		{`30" x 48" Single Pane Window`, 225},
		{`36" x 60" Single Pane Window`, 295},
		{`24" x 36" Double Pane Insulated Window`, 285},
		{`36" x 48" Double Pane Insulated Window`, 365},
		{`48" x 60" Double Pane Low-E Window`, 495},
		{`6' Sliding Glass Door Replacement`, 1250},
		{`8' Sliding Glass Door Replacement`, 1650},
		{`Frameless Shower Enclosure`, 1450},
		{`Semi-Frameless Shower Door`, 875},
		{`Custom Mirror 36" x 48"`, 245},
		{`Tempered Glass Table Top`, 325},
		{`Window Screen Replacement`, 45},
		{`Foggy Glass Unit Replacement`, 215},
	}

	sampleLaborRates = []int64{450, 650, 850, 1200, 1500, 1800, 2200, 2500, 2800, 3200, 3500, 4200, 5000}

	// SampleImages are the reference photos attached to generated rows.
	SampleImages = []string{
		"https://res.cloudinary.com/dqvolqe3u/image/upload/v1769114835/sunny-state-quotes/fepd3bqxgamye5afqogd.png",
		"https://res.cloudinary.com/dqvolqe3u/image/upload/v1769115841/sunny-state-quotes/uiw1ussvmoihcssykk6s.png",
		"https://res.cloudinary.com/dqvolqe3u/image/upload/v1769115844/sunny-state-quotes/ulxbwcygeednuwvmctgp.png",
	}
)

// Sample generates realistic form data with n rows. About 70% of rows get a
// distinct room; with three or more rows, three distinct rows get one photo each.
func Sample(rng *rand.Rand, n int) SampleData {
	if n < 0 {
		n = 0
	}
	client := sampleClients[rng.IntN(len(sampleClients))]
	usedRooms := map[string]bool{}
	usedProducts := map[int]bool{}

	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		room := ""
		if len(usedRooms) < len(sampleRooms) && rng.Float64() > 0.3 {
			for {
				room = sampleRooms[rng.IntN(len(sampleRooms))]
				if !usedRooms[room] {
					break
				}
			}
			usedRooms[room] = true
		}

		p := rng.IntN(len(sampleProducts))
		for usedProducts[p] && len(usedProducts) < len(sampleProducts) {
			p = rng.IntN(len(sampleProducts))
		}
		usedProducts[p] = true

		it := LineItem{
			Room:        room,
			Description: sampleProducts[p].description,
			Quantity:    decimal.NewFromInt(int64(1 + rng.IntN(4))),
			UnitPrice:   decimal.NewFromInt(sampleProducts[p].price),
		}
		it.recompute()
		items = append(items, it)
	}

	if n >= 3 {
		for i, idx := range rng.Perm(n)[:len(SampleImages)] {
			items[idx].ImageURLs = []string{SampleImages[i]}
		}
	}

	return SampleData{
		ProjectName:       sampleProjects[rng.IntN(len(sampleProjects))],
		QuoteNumber:       strconv.Itoa(100 + rng.IntN(900)),
		ClientName:        client.name,
		ClientPhone:       client.phone,
		ClientEmail:       client.email,
		LaborInstallation: decimal.NewFromInt(sampleLaborRates[rng.IntN(len(sampleLaborRates))]),
		LineItems:         items,
	}
}
