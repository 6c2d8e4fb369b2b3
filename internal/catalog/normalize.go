package catalog

// Normalization of raw backend catalog records into VisaProduct entities.

import (
	"errors"
	"strings"
)

// ErrNotFound reports that a raw record was absent (e.g. an unknown handle).
// It is distinct from a product that exists with empty fields; callers render
// a dedicated not-found state for it.
var ErrNotFound = errors.New("catalog: product not found")

// RawProduct is the backend catalog record shape the normalizer consumes.
// Fields may be missing or empty; the normalizer tolerates both.
type RawProduct struct {
	ID              string
	Title           string
	Handle          string
	ProductType     string
	Tags            []string
	Description     string
	DescriptionHTML string
	MinPrice        float64
	MaxPrice        float64
	Variants        []RawVariant
	Images          []RawImage
	Metafields      []RawMetafield
}

// RawVariant is a backend variant record. Price is the variant's own price,
// not the product-level range, so adult and child pricing can differ.
type RawVariant struct {
	ID        string
	Title     string
	Price     float64
	Available bool
	SKU       string
}

// RawImage is a backend image record.
type RawImage struct {
	URL     string
	AltText string
	Width   int
	Height  int
}

// Well-known metafield keys in the "visa" namespace.
const (
	metaCountry        = "country"
	metaFlag           = "flag"
	metaCategory       = "category"
	metaDuration       = "duration"
	metaEntryType      = "entry_type"
	metaProcessingTime = "processing_time"
	metaChildPrice     = "child_price"
	metaFeatures       = "features"
	metaRequirements   = "requirements"
	metaImportantNotes = "important_notes"
)

// gccCountries is the fixed set of Gulf states whose visas are payable
// directly online. Membership is an enumerated check, not pattern matching.
var gccCountries = map[string]struct{}{
	"uae":          {},
	"saudi arabia": {},
	"oman":         {},
	"bahrain":      {},
}

// Normalizer maps raw backend catalog records into VisaProduct entities.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts one raw record into a VisaProduct. addons is the
// already-normalized addon list from the separate addon-products fetch.
// A nil record returns ErrNotFound.
func (n *Normalizer) Normalize(raw *RawProduct, addons []VisaAddon) (*VisaProduct, error) {
	if raw == nil {
		return nil, ErrNotFound
	}

	meta := DecodeMetafields(raw.Metafields)
	country := meta.String(metaCountry)

	product := &VisaProduct{
		ID:              raw.ID,
		Handle:          raw.Handle,
		Title:           raw.Title,
		Country:         country,
		Flag:            meta.String(metaFlag),
		Category:        meta.String(metaCategory),
		Duration:        meta.String(metaDuration),
		EntryType:       meta.String(metaEntryType),
		ProcessingTime:  meta.String(metaProcessingTime),
		Description:     raw.Description,
		DescriptionHTML: raw.DescriptionHTML,
		Images:          imageURLs(raw.Images),
		Features:        meta.StringList(metaFeatures),
		Requirements:    meta.StringList(metaRequirements),
		ImportantNotes:  meta.StringList(metaImportantNotes),
		Variants:        normalizeVariants(raw.Variants),
		Addons:          addons,
		Tags:            raw.Tags,
		IsGCC:           IsGCCCountry(country),
	}

	if childPrice, ok := meta.Number(metaChildPrice); ok {
		product.ChildPrice = childPrice
	}
	product.Price = basePrice(product.Variants, raw.MinPrice)

	if product.Addons == nil {
		product.Addons = []VisaAddon{}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	return product, nil
}

// IsGCCCountry reports whether country names one of the fixed GCC states,
// ignoring case and surrounding whitespace.
func IsGCCCountry(country string) bool {
	_, ok := gccCountries[strings.ToLower(strings.TrimSpace(country))]
	return ok
}

func normalizeVariants(raw []RawVariant) []VisaVariant {
	variants := make([]VisaVariant, 0, len(raw))
	for _, v := range raw {
		variants = append(variants, VisaVariant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     v.Price,
			Available: v.Available,
			SKU:       v.SKU,
		})
	}
	return variants
}

// basePrice is the smallest available variant price, falling back to the
// product-level minimum when no variants exist.
func basePrice(variants []VisaVariant, fallback float64) float64 {
	price := 0.0
	found := false
	for _, v := range variants {
		if !found || v.Price < price {
			price = v.Price
			found = true
		}
	}
	if !found {
		return fallback
	}
	return price
}

func imageURLs(images []RawImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
