// Package currency provides display-only exchange rate conversion.
//
// Rates come from a periodically refreshed JSON feed and are cached so a
// feed outage degrades to slightly stale rates rather than broken pages.
// All charging happens upstream in the base currency; converted amounts
// are informational only.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/visaportapp/visaport/internal/cache"
	"github.com/visaportapp/visaport/internal/observability"
)

// ErrRateUnavailable is returned when no rate is known for a currency.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

const maxFeedBytes = 1 << 20

// Rates is a snapshot of exchange rates relative to the base currency.
type Rates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Service fetches and caches exchange rates and converts amounts for
// display. Conversions round to two decimal places.
type Service struct {
	feedURL    string
	base       string
	interval   time.Duration
	cache      cache.Provider
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.RWMutex
	current *Rates

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewService(feedURL, baseCurrency string, interval time.Duration, cacheProvider cache.Provider, logger *slog.Logger) *Service {
	return &Service{
		feedURL:    feedURL,
		base:       strings.ToUpper(baseCurrency),
		interval:   interval,
		cache:      cacheProvider,
		httpClient: observability.NewHTTPClient(15 * time.Second),
		logger:     logger.With("component", "currency"),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start primes the rate snapshot and launches the background refresher.
// A failed initial fetch is not fatal; cached rates may still be served.
func (s *Service) Start(ctx context.Context) {
	if err := s.refresh(ctx); err != nil {
		s.logger.Warn("initial exchange rate fetch failed", "error", err)
		s.loadFromCache(ctx)
	}

	go s.run()
}

// Stop terminates the background refresher and waits for it to exit.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *Service) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn("exchange rate refresh failed", "error", err)
			}
			cancel()
		}
	}
}

// Base returns the base currency code.
func (s *Service) Base() string {
	return s.base
}

// Convert converts an amount from the base currency to the target
// currency using the latest known rates.
func (s *Service) Convert(amount float64, target string) (float64, error) {
	target = strings.ToUpper(strings.TrimSpace(target))
	if target == "" || target == s.base {
		return roundCents(amount), nil
	}

	s.mu.RLock()
	rates := s.current
	s.mu.RUnlock()

	if rates == nil {
		return 0, ErrRateUnavailable
	}
	rate, ok := rates.Rates[target]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrRateUnavailable, target)
	}

	return roundCents(amount * rate), nil
}

// Currencies returns the codes conversion is currently available for,
// including the base currency.
func (s *Service) Currencies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := []string{s.base}
	if s.current != nil {
		for code := range s.current.Rates {
			if code != s.base {
				codes = append(codes, code)
			}
		}
	}
	return codes
}

func (s *Service) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("exchange rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return fmt.Errorf("failed to read rate feed: %w", err)
	}

	var feed struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return fmt.Errorf("failed to decode rate feed: %w", err)
	}
	if len(feed.Rates) == 0 {
		return errors.New("rate feed contained no rates")
	}
	if feed.Base != "" && !strings.EqualFold(feed.Base, s.base) {
		return fmt.Errorf("rate feed base %q does not match configured base %q", feed.Base, s.base)
	}

	rates := &Rates{
		Base:      s.base,
		Rates:     normalizeCodes(feed.Rates),
		FetchedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.current = rates
	s.mu.Unlock()

	if s.cache != nil {
		encoded, err := json.Marshal(rates)
		if err == nil {
			// Cache well past the refresh interval so restarts during a
			// feed outage still find usable rates.
			if err := s.cache.Set(ctx, cache.RatesKey(s.base), string(encoded), 24*time.Hour); err != nil {
				s.logger.Warn("failed to cache exchange rates", "error", err)
			}
		}
	}

	s.logger.Info("exchange rates refreshed", "currencies", len(rates.Rates))
	return nil
}

func (s *Service) loadFromCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	encoded, err := s.cache.Get(ctx, cache.RatesKey(s.base))
	if err != nil {
		return
	}

	var rates Rates
	if err := json.Unmarshal([]byte(encoded), &rates); err != nil {
		return
	}

	s.mu.Lock()
	s.current = &rates
	s.mu.Unlock()
	s.logger.Info("exchange rates loaded from cache", "fetched_at", rates.FetchedAt)
}

func normalizeCodes(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for code, rate := range in {
		out[strings.ToUpper(code)] = rate
	}
	return out
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
