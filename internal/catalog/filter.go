package catalog

// Derived filtering and sorting over the normalized catalog.

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// All is the sentinel selector value meaning "no constraint". It is distinct
// from any real country, duration, or entry-type value.
const All = "ALL"

// FilterSpec is the sidebar filter state for a listing page.
type FilterSpec struct {
	Country   string
	Duration  string
	EntryType string
	MinPrice  float64
	MaxPrice  float64
	Query     string
}

// NewFilterSpec returns a spec with every selector set to All and the price
// range wide open, i.e. a no-op filter.
func NewFilterSpec() FilterSpec {
	return FilterSpec{
		Country:   All,
		Duration:  All,
		EntryType: All,
		MinPrice:  0,
		MaxPrice:  math.MaxFloat64,
	}
}

// Scope is the route-level constraint applied before the sidebar filters when
// rendering a country or category page. Empty fields are unconstrained.
type Scope struct {
	Country  string
	Category string
}

// SortKey selects the listing order.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortDuration  SortKey = "duration"
)

// ParseSortKey maps a query-string value to a SortKey, defaulting to popular.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortPriceAsc, SortPriceDesc, SortDuration:
		return SortKey(value)
	default:
		return SortPopular
	}
}

// Apply narrows and orders the catalog per the scope, spec, and sort key.
// It is pure: the input slice is never mutated and identical inputs yield
// identical output, so consumers may memoize the result. An empty result is
// an empty slice, never nil or an error.
func Apply(products []VisaProduct, scope Scope, spec FilterSpec, sort SortKey) []VisaProduct {
	result := make([]VisaProduct, 0, len(products))
	for _, p := range products {
		if !matchesScope(&p, scope) {
			continue
		}
		if !matchesSpec(&p, spec) {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, sort)
	return result
}

func matchesScope(p *VisaProduct, scope Scope) bool {
	if scope.Country != "" && NormalizeCountry(p.Country) != NormalizeCountry(scope.Country) {
		return false
	}
	if scope.Category != "" && !strings.EqualFold(p.Category, scope.Category) {
		return false
	}
	return true
}

func matchesSpec(p *VisaProduct, spec FilterSpec) bool {
	if spec.Country != All && spec.Country != "" && NormalizeCountry(p.Country) != NormalizeCountry(spec.Country) {
		return false
	}
	if spec.Duration != All && spec.Duration != "" && p.Duration != spec.Duration {
		return false
	}
	if spec.EntryType != All && spec.EntryType != "" && p.EntryType != spec.EntryType {
		return false
	}
	if !matchesQuery(p, spec.Query) {
		return false
	}
	if p.Price < spec.MinPrice {
		return false
	}
	// MaxPrice of zero means the caller never set an upper bound.
	if spec.MaxPrice > 0 && p.Price > spec.MaxPrice {
		return false
	}
	return true
}

// matchesQuery is a case-insensitive substring match over the union of the
// product's searchable fields; any single field containing the query matches.
func matchesQuery(p *VisaProduct, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Country, p.Category, p.Duration, p.EntryType} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// NormalizeCountry lowercases a country name and replaces spaces with
// hyphens, matching the slug form used in listing routes.
func NormalizeCountry(country string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(country)), " ", "-")
}

func sortProducts(products []VisaProduct, key SortKey) {
	switch key {
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b VisaProduct) int {
			return compareFloat(b.Price, a.Price)
		})
	case SortDuration:
		slices.SortStableFunc(products, func(a, b VisaProduct) int {
			return compareFloat(DurationDays(a.Duration), DurationDays(b.Duration))
		})
	default:
		// popular and price-asc both order by ascending price; the backend
		// exposes no popularity signal.
		slices.SortStableFunc(products, func(a, b VisaProduct) int {
			return compareFloat(a.Price, b.Price)
		})
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var durationPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*(HOURS?|DAYS?|YEARS?)`)

// DurationDays parses a free-text duration such as "30 DAYS", "48 HOURS" or
// "1 YEAR" into an approximate day count for sorting. Hours divide by 24 and
// years multiply by 365; months are not recognized, so month-scale durations
// (like anything else that fails to parse) yield 0 and sort first.
func DurationDays(duration string) float64 {
	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return 0
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToUpper(match[2])[0] {
	case 'H':
		return amount / 24
	case 'Y':
		return amount * 365
	default:
		return amount
	}
}
