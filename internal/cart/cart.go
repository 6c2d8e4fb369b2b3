// Package cart implements the session cart and its pricing arithmetic.
// All amounts stay in the commerce backend's base currency; the display
// conversion layer never touches the values that flow to checkout.
package cart

import (
	"github.com/google/uuid"
)

// SelectedAddon is an addon service attached to a cart line.
type SelectedAddon struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// Traveler holds the per-applicant details collected before checkout. They
// are forwarded verbatim as custom attributes on the checkout session.
type Traveler struct {
	FullName       string `json:"fullName"`
	PassportNumber string `json:"passportNumber"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
}

// Line is one visa product in the cart, with an optional selected variant
// and any number of addons. Quantity is always at least one.
type Line struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	Handle       string          `json:"handle"`
	Title        string          `json:"title"`
	VariantID    string          `json:"variantId,omitempty"`
	VariantTitle string          `json:"variantTitle,omitempty"`
	UnitPrice    float64         `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	Addons       []SelectedAddon `json:"addons"`
	Travelers    []Traveler      `json:"travelers,omitempty"`
}

// Total is the line total: (unit price + sum of addon prices) x quantity.
func (l Line) Total() float64 {
	unit := l.UnitPrice
	for _, addon := range l.Addons {
		unit += addon.Price
	}
	return unit * float64(ClampQuantity(l.Quantity))
}

// Summary aggregates the cart for display and checkout handoff.
type Summary struct {
	Lines    int     `json:"lines"`
	Items    int     `json:"items"`
	Subtotal float64 `json:"subtotal"`
}

// Totals computes the grand total across all lines.
func Totals(lines []Line) Summary {
	summary := Summary{Lines: len(lines)}
	for _, line := range lines {
		summary.Items += ClampQuantity(line.Quantity)
		summary.Subtotal += line.Total()
	}
	return summary
}

// ClampQuantity keeps quantities at one or above; a decrement from one
// stays at one rather than dropping the line.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Add appends a new line with a fresh line ID and returns the updated slice.
func Add(lines []Line, line Line) []Line {
	line.ID = uuid.NewString()
	line.Quantity = ClampQuantity(line.Quantity)
	if line.Addons == nil {
		line.Addons = []SelectedAddon{}
	}
	return append(lines, line)
}

// UpdateQuantity sets the quantity of the identified line, clamped to >= 1.
// Unknown line IDs are a no-op; ok reports whether the line existed.
func UpdateQuantity(lines []Line, lineID string, quantity int) (updated []Line, ok bool) {
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = ClampQuantity(quantity)
			return lines, true
		}
	}
	return lines, false
}

// SetTravelers replaces the traveler details on the identified line.
func SetTravelers(lines []Line, lineID string, travelers []Traveler) (updated []Line, ok bool) {
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Travelers = travelers
			return lines, true
		}
	}
	return lines, false
}

// Remove drops the identified line entirely; there is no soft delete.
func Remove(lines []Line, lineID string) (updated []Line, ok bool) {
	for i := range lines {
		if lines[i].ID == lineID {
			return append(lines[:i], lines[i+1:]...), true
		}
	}
	return lines, false
}
