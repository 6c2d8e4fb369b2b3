// Package catalog holds the normalized visa catalog domain model and the
// derived filtering/sorting logic that powers the listing pages.
package catalog

// VisaProduct is the normalized catalog entry the rest of the service works
// with. It is constructed once per raw record fetch and never mutated in
// place; refetching replaces the whole collection.
type VisaProduct struct {
	ID             string        `json:"id"`
	Handle         string        `json:"handle"`
	Title          string        `json:"title"`
	Country        string        `json:"country"`
	Flag           string        `json:"flag"`
	Category       string        `json:"category"`
	Duration       string        `json:"duration"`
	EntryType      string        `json:"entryType"`
	ProcessingTime string        `json:"processingTime"`
	Price          float64       `json:"price"`
	ChildPrice     float64       `json:"childPrice,omitempty"`
	Description    string        `json:"description"`
	DescriptionHTML string       `json:"descriptionHtml,omitempty"`
	Images         []string      `json:"images"`
	Features       []string      `json:"features"`
	Requirements   []string      `json:"requirements"`
	ImportantNotes []string      `json:"importantNotes"`
	Variants       []VisaVariant `json:"variants"`
	Addons         []VisaAddon   `json:"addons"`
	Tags           []string      `json:"tags"`
	IsGCC          bool          `json:"isGCC"`
}

// VisaVariant is a purchasable variation of a visa product, typically
// "Adult" or "Child" pricing.
type VisaVariant struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
	SKU       string  `json:"sku,omitempty"`
}

// VisaAddon is an optional paid service attachable to a cart line,
// e.g. express processing or travel insurance.
type VisaAddon struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Available   bool    `json:"available"`
}

// DefaultVariant selects the variant a detail view should preselect: the
// first variant whose title contains "adult" (case-insensitive), otherwise
// the first variant in list order. Returns nil for a product with no
// variants.
func DefaultVariant(p *VisaProduct) *VisaVariant {
	if p == nil || len(p.Variants) == 0 {
		return nil
	}
	for i := range p.Variants {
		if containsFold(p.Variants[i].Title, "adult") {
			return &p.Variants[i]
		}
	}
	return &p.Variants[0]
}
