package catalog

import (
	"errors"
	"testing"
)

func rawDubaiVisa() *RawProduct {
	return &RawProduct{
		ID:          "gid://shop/Product/1",
		Title:       "Dubai Tourist Visa",
		Handle:      "dubai-tourist-visa",
		ProductType: "Tourist",
		Tags:        []string{"featured"},
		Description: "30 day single entry tourist visa",
		MinPrice:    250,
		MaxPrice:    350,
		Variants: []RawVariant{
			{ID: "v-child", Title: "Child", Price: 180, Available: true},
			{ID: "v-adult", Title: "Adult", Price: 250, Available: true, SKU: "DXB-30-A"},
		},
		Images: []RawImage{
			{URL: "https://cdn.example.com/dubai.jpg", AltText: "Dubai"},
			{URL: ""},
		},
		Metafields: []RawMetafield{
			{Namespace: "visa", Key: "country", Value: "UAE", Type: "single_line_text_field"},
			{Namespace: "visa", Key: "flag", Value: "🇦🇪", Type: "single_line_text_field"},
			{Namespace: "visa", Key: "category", Value: "Tourist", Type: "single_line_text_field"},
			{Namespace: "visa", Key: "duration", Value: "30 DAYS", Type: "single_line_text_field"},
			{Namespace: "visa", Key: "entry_type", Value: "Single Entry", Type: "single_line_text_field"},
			{Namespace: "visa", Key: "processing_time", Value: "3-5 working days", Type: "single_line_text_field"},
			{Namespace: "visa", Key: "child_price", Value: "180", Type: "number_decimal"},
			{Namespace: "visa", Key: "features", Value: `["eVisa","No embassy visit"]`, Type: "json"},
			{Namespace: "visa", Key: "requirements", Value: `["Passport scan","Photo"]`, Type: "json"},
		},
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	normalizer := NewNormalizer()
	addons := []VisaAddon{{ID: "a1", Title: "Express Processing", Price: 50, Available: true}}

	product, err := normalizer.Normalize(rawDubaiVisa(), addons)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.Country != "UAE" {
		t.Errorf("expected country UAE, got %q", product.Country)
	}
	if !product.IsGCC {
		t.Error("UAE visas must be classified GCC")
	}
	if product.Price != 180 {
		t.Errorf("base price must be the smallest variant price, got %v", product.Price)
	}
	if product.ChildPrice != 180 {
		t.Errorf("expected child price 180, got %v", product.ChildPrice)
	}
	if len(product.Images) != 1 {
		t.Errorf("empty image URLs must be dropped, got %v", product.Images)
	}
	if len(product.Features) != 2 || len(product.Requirements) != 2 {
		t.Errorf("unexpected list metafields: %v / %v", product.Features, product.Requirements)
	}
	if len(product.ImportantNotes) != 0 || product.ImportantNotes == nil {
		t.Errorf("absent list metafield must normalize to an empty list, got %v", product.ImportantNotes)
	}
	if len(product.Addons) != 1 || product.Addons[0].Title != "Express Processing" {
		t.Errorf("unexpected addons: %v", product.Addons)
	}
	if got := product.Variants[1].Price; got != 250 {
		t.Errorf("variant price must come from the variant itself, got %v", got)
	}
}

func TestNormalizer_NilRecordIsNotFound(t *testing.T) {
	_, err := NewNormalizer().Normalize(nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNormalizer_MissingMetafields(t *testing.T) {
	raw := &RawProduct{
		ID:       "gid://shop/Product/2",
		Title:    "Mystery Visa",
		Handle:   "mystery-visa",
		MinPrice: 99,
	}

	product, err := NewNormalizer().Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.Country != "" || product.Duration != "" || product.EntryType != "" {
		t.Errorf("missing metafields must yield empty strings, got %+v", product)
	}
	if product.IsGCC {
		t.Error("empty country must not classify as GCC")
	}
	if product.Price != 99 {
		t.Errorf("expected price range fallback 99, got %v", product.Price)
	}
}

func TestIsGCCCountry(t *testing.T) {
	tests := []struct {
		country string
		want    bool
	}{
		{"UAE", true},
		{"uae", true},
		{" Saudi Arabia ", true},
		{"Oman", true},
		{"Bahrain", true},
		{"Thailand", false},
		{"Qatar", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsGCCCountry(tt.country); got != tt.want {
			t.Errorf("IsGCCCountry(%q) = %v, want %v", tt.country, got, tt.want)
		}
	}
}

func TestDefaultVariant(t *testing.T) {
	product := &VisaProduct{
		Variants: []VisaVariant{
			{ID: "v1", Title: "Child"},
			{ID: "v2", Title: "Adult (18+)"},
		},
	}
	if got := DefaultVariant(product); got == nil || got.ID != "v2" {
		t.Errorf("expected adult variant, got %+v", got)
	}

	product.Variants = []VisaVariant{{ID: "v3", Title: "Standard"}}
	if got := DefaultVariant(product); got == nil || got.ID != "v3" {
		t.Errorf("expected first variant fallback, got %+v", got)
	}

	if got := DefaultVariant(&VisaProduct{}); got != nil {
		t.Errorf("expected nil for empty variant list, got %+v", got)
	}
}
