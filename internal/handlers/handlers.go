// Package handlers provides the JSON API handlers for the storefront.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visaportapp/visaport/internal/config"
	"github.com/visaportapp/visaport/internal/currency"
	"github.com/visaportapp/visaport/internal/logging"
	"github.com/visaportapp/visaport/internal/pages"
	"github.com/visaportapp/visaport/internal/services"
	"github.com/visaportapp/visaport/internal/session"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// Handlers provides HTTP request handlers for the VisaPort storefront API.
type Handlers struct {
	config          *config.Config
	db              *pgxpool.Pool
	catalogService  *services.CatalogService
	accountService  *services.AccountService
	checkoutService *services.CheckoutService
	contactService  *services.ContactService
	currencyService *currency.Service
	pageStore       *pages.Store
	sessionManager  *session.Manager
	logger          *slog.Logger
}

type Dependencies struct {
	Config          *config.Config
	DB              *pgxpool.Pool
	CatalogService  *services.CatalogService
	AccountService  *services.AccountService
	CheckoutService *services.CheckoutService
	ContactService  *services.ContactService
	CurrencyService *currency.Service
	PageStore       *pages.Store
	SessionManager  *session.Manager
	Logger          *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("handlers dependencies: db is required")
	}
	if deps.CatalogService == nil {
		return nil, fmt.Errorf("handlers dependencies: catalogService is required")
	}
	if deps.AccountService == nil {
		return nil, fmt.Errorf("handlers dependencies: accountService is required")
	}
	if deps.CheckoutService == nil {
		return nil, fmt.Errorf("handlers dependencies: checkoutService is required")
	}
	if deps.ContactService == nil {
		return nil, fmt.Errorf("handlers dependencies: contactService is required")
	}
	if deps.PageStore == nil {
		return nil, fmt.Errorf("handlers dependencies: pageStore is required")
	}
	if deps.SessionManager == nil {
		return nil, fmt.Errorf("handlers dependencies: sessionManager is required")
	}

	return &Handlers{
		config:          deps.Config,
		db:              deps.DB,
		catalogService:  deps.CatalogService,
		accountService:  deps.AccountService,
		checkoutService: deps.CheckoutService,
		contactService:  deps.ContactService,
		currencyService: deps.CurrencyService,
		pageStore:       deps.PageStore,
		sessionManager:  deps.SessionManager,
		logger:          logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Ping(ctx); err != nil {
		h.loggerFromContext(ctx).Error("database health check failed", "error", err)
		h.respondError(w, r, http.StatusServiceUnavailable, "database unhealthy")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// SessionMiddleware adds session data to the request context
func (h *Handlers) SessionMiddleware(next http.Handler) http.Handler {
	return h.sessionManager.Middleware(next)
}

func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return h.sessionManager.RequireAuth()(next)
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func SecureCookiesFromConfig(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			return strings.EqualFold(parsed.Scheme, "https")
		}
	}

	return cfg.Port == "443" || cfg.Port == "8443"
}
