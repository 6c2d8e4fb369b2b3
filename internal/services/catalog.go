// Package services contains the application services wiring the storefront
// backend, catalog domain, and persistence together.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/visaportapp/visaport/internal/cache"
	"github.com/visaportapp/visaport/internal/catalog"
	"github.com/visaportapp/visaport/internal/logging"
)

var ErrCatalogUnavailable = errors.New("catalog service unavailable")

// addonQueryFilter selects the hidden addon products in the backend
// catalog. Addons are modeled as ordinary products with a dedicated
// product type so their prices stay manageable upstream.
const addonQueryFilter = "product_type:Addon"

type productFetcher interface {
	ListProducts(ctx context.Context, queryFilter string) ([]*catalog.RawProduct, error)
	ProductByHandle(ctx context.Context, handle string) (*catalog.RawProduct, error)
}

// snapshot is the fully normalized catalog, fetched and derived in one go
// and cached as a unit.
type snapshot struct {
	Products  []catalog.VisaProduct `json:"products"`
	Addons    []catalog.VisaAddon   `json:"addons"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// FilterOptions are the distinct selector values derived from the current
// catalog, used to populate the filter sidebar.
type FilterOptions struct {
	Countries  []string `json:"countries"`
	Durations  []string `json:"durations"`
	EntryTypes []string `json:"entryTypes"`
}

// CatalogService fetches the backend catalog, normalizes it, and serves
// filtered views of the cached snapshot.
type CatalogService struct {
	fetcher    productFetcher
	cache      cache.Provider
	ttl        time.Duration
	normalizer *catalog.Normalizer
	logger     *slog.Logger

	mu sync.Mutex // serializes snapshot refreshes
}

func NewCatalogService(fetcher productFetcher, cacheProvider cache.Provider, ttl time.Duration, logger *slog.Logger) (*CatalogService, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog service fetcher is required")
	}

	return &CatalogService{
		fetcher:    fetcher,
		cache:      cacheProvider,
		ttl:        ttl,
		normalizer: catalog.NewNormalizer(),
		logger:     logger.With("component", "catalog"),
	}, nil
}

func (s *CatalogService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// List returns the catalog narrowed by scope and filters, in sort order.
func (s *CatalogService) List(ctx context.Context, scope catalog.Scope, spec catalog.FilterSpec, sortKey catalog.SortKey) ([]catalog.VisaProduct, error) {
	span := sentry.StartSpan(
		ctx,
		"service.catalog.list",
		sentry.WithOpName("service.catalog"),
		sentry.WithDescription("List"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()

	snap, err := s.snapshot(span.Context())
	if err != nil {
		return nil, err
	}

	return catalog.Apply(snap.Products, scope, spec, sortKey), nil
}

// GetByHandle returns one normalized product. Unknown handles return
// catalog.ErrNotFound.
func (s *CatalogService) GetByHandle(ctx context.Context, handle string) (*catalog.VisaProduct, error) {
	span := sentry.StartSpan(
		ctx,
		"service.catalog.get_by_handle",
		sentry.WithOpName("service.catalog"),
		sentry.WithDescription("GetByHandle"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, catalog.ErrNotFound
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Products {
		if snap.Products[i].Handle == handle {
			product := snap.Products[i]
			return &product, nil
		}
	}

	// Not in the snapshot; the product may be newer than the cache. Fetch
	// directly before concluding it does not exist.
	raw, err := s.fetcher.ProductByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %q: %w", handle, err)
	}
	return s.normalizer.Normalize(raw, snap.Addons)
}

// Options derives the distinct filter selector values from the catalog.
func (s *CatalogService) Options(ctx context.Context) (FilterOptions, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return FilterOptions{}, err
	}

	countries := map[string]struct{}{}
	durations := map[string]struct{}{}
	entryTypes := map[string]struct{}{}
	for _, p := range snap.Products {
		if p.Country != "" {
			countries[p.Country] = struct{}{}
		}
		if p.Duration != "" {
			durations[p.Duration] = struct{}{}
		}
		if p.EntryType != "" {
			entryTypes[p.EntryType] = struct{}{}
		}
	}

	options := FilterOptions{
		Countries:  sortedKeys(countries),
		EntryTypes: sortedKeys(entryTypes),
	}

	// Durations sort by their parsed day count so "48 HOURS" precedes
	// "30 DAYS" regardless of lexical order.
	options.Durations = sortedKeys(durations)
	sort.SliceStable(options.Durations, func(i, j int) bool {
		return catalog.DurationDays(options.Durations[i]) < catalog.DurationDays(options.Durations[j])
	})

	return options, nil
}

// Addons returns the normalized addon services available for attachment to
// cart lines.
func (s *CatalogService) Addons(ctx context.Context) ([]catalog.VisaAddon, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Addons, nil
}

// FindAddon resolves an addon by ID against the current snapshot. Cart
// mutations use this so client-supplied addon prices are never trusted.
func (s *CatalogService) FindAddon(ctx context.Context, id string) (*catalog.VisaAddon, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Addons {
		if snap.Addons[i].ID == id {
			addon := snap.Addons[i]
			return &addon, nil
		}
	}
	return nil, fmt.Errorf("addon %q not found", id)
}

// Refresh drops the cached snapshot so the next read refetches.
func (s *CatalogService) Refresh(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.CatalogKey()); err != nil {
			return fmt.Errorf("failed to invalidate catalog cache: %w", err)
		}
	}
	_, err := s.snapshot(ctx)
	return err
}

func (s *CatalogService) snapshot(ctx context.Context) (*snapshot, error) {
	if s == nil || s.fetcher == nil {
		return nil, ErrCatalogUnavailable
	}

	if snap := s.cachedSnapshot(ctx); snap != nil {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if snap := s.cachedSnapshot(ctx); snap != nil {
		return snap, nil
	}

	snap, err := s.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		encoded, err := json.Marshal(snap)
		if err == nil {
			if err := s.cache.Set(ctx, cache.CatalogKey(), string(encoded), s.ttl); err != nil {
				s.loggerFromContext(ctx).Warn("failed to cache catalog snapshot", "error", err)
			}
		}
	}

	return snap, nil
}

func (s *CatalogService) cachedSnapshot(ctx context.Context) *snapshot {
	if s.cache == nil {
		return nil
	}

	encoded, err := s.cache.Get(ctx, cache.CatalogKey())
	if err != nil {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(encoded), &snap); err != nil {
		s.loggerFromContext(ctx).Warn("discarding undecodable catalog snapshot", "error", err)
		return nil
	}
	return &snap
}

func (s *CatalogService) fetchSnapshot(ctx context.Context) (*snapshot, error) {
	addons, err := s.fetchAddons(ctx)
	if err != nil {
		return nil, err
	}

	raws, err := s.fetcher.ListProducts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]catalog.VisaProduct, 0, len(raws))
	for _, raw := range raws {
		if raw == nil || strings.EqualFold(raw.ProductType, "Addon") {
			continue
		}
		product, err := s.normalizer.Normalize(raw, addons)
		if err != nil {
			s.loggerFromContext(ctx).Warn("skipping unnormalizable product", "handle", raw.Handle, "error", err)
			continue
		}
		products = append(products, *product)
	}

	s.loggerFromContext(ctx).Info("catalog snapshot refreshed",
		"products", len(products),
		"addons", len(addons),
	)

	return &snapshot{
		Products:  products,
		Addons:    addons,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (s *CatalogService) fetchAddons(ctx context.Context) ([]catalog.VisaAddon, error) {
	raws, err := s.fetcher.ListProducts(ctx, addonQueryFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list addon products: %w", err)
	}

	addons := make([]catalog.VisaAddon, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		addon := catalog.VisaAddon{
			ID:          raw.ID,
			Title:       raw.Title,
			Description: raw.Description,
		}
		if len(raw.Variants) > 0 {
			addon.Price = raw.Variants[0].Price
			addon.Available = raw.Variants[0].Available
		} else {
			addon.Price = raw.MinPrice
		}
		addons = append(addons, addon)
	}
	return addons, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
