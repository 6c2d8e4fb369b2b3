package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visaportapp/visaport/internal/cache"
	"github.com/visaportapp/visaport/internal/config"
	"github.com/visaportapp/visaport/internal/crypto"
	"github.com/visaportapp/visaport/internal/currency"
	"github.com/visaportapp/visaport/internal/db"
	"github.com/visaportapp/visaport/internal/email"
	"github.com/visaportapp/visaport/internal/handlers"
	"github.com/visaportapp/visaport/internal/logging"
	"github.com/visaportapp/visaport/internal/observability"
	"github.com/visaportapp/visaport/internal/pages"
	"github.com/visaportapp/visaport/internal/services"
	"github.com/visaportapp/visaport/internal/session"
	"github.com/visaportapp/visaport/internal/storefront"
)

type App struct {
	Config          *config.Config
	Logger          *slog.Logger
	DB              *pgxpool.Pool
	CacheProvider   cache.Provider
	SessionManager  *session.Manager
	CurrencyService *currency.Service
	Handlers        *handlers.Handlers

	sentryEnabled bool
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		// Register outbound trace targets before any HTTP client is built.
		observability.RegisterTraceTarget(cfg.StorefrontAPIURL)
		if cfg.ExchangeRateURL != "" {
			observability.RegisterTraceTarget(cfg.ExchangeRateURL)
		}
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			EnableLogs:       true,
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
	}

	logger := logging.NewLogger(logging.Options{
		Format:        cfg.LogFormat,
		Level:         cfg.LogLevel,
		SentryEnabled: sentryEnabled,
	})

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	sessionStore, err := session.NewStore(startupCtx, session.Config{
		Provider:              cfg.SessionStoreProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessionManager := session.NewManager(sessionStore, handlers.SecureCookiesFromConfig(cfg))

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	pageStore, err := pages.Load(cfg.PagesFile)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}

	emailProvider, err := email.NewProvider(email.Config{
		Provider: cfg.EmailProvider,
		APIKey:   cfg.ResendAPIKey,
		From:     cfg.EmailFrom,
	}, logger)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}

	storefrontClient := storefront.NewClient(cfg.StorefrontAPIURL, cfg.StorefrontAPIToken, logger)

	catalogService, err := services.NewCatalogService(storefrontClient, cacheProvider, cfg.CatalogCacheTTL, logger)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize catalog service: %w", err)
	}
	accountService, err := services.NewAccountService(storefrontClient, encryptor, logger)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize account service: %w", err)
	}
	checkoutService, err := services.NewCheckoutService(storefrontClient, logger)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize checkout service: %w", err)
	}
	contactService, err := services.NewContactService(db.NewInquiryStore(database), emailProvider, cfg.ContactInbox, logger)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize contact service: %w", err)
	}

	var currencyService *currency.Service
	if cfg.ExchangeRateURL != "" {
		currencyService = currency.NewService(
			cfg.ExchangeRateURL,
			cfg.BaseCurrency,
			cfg.ExchangeRateInterval,
			cacheProvider,
			logger,
		)
		currencyService.Start(startupCtx)
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:          cfg,
		DB:              database,
		CatalogService:  catalogService,
		AccountService:  accountService,
		CheckoutService: checkoutService,
		ContactService:  contactService,
		CurrencyService: currencyService,
		PageStore:       pageStore,
		SessionManager:  sessionManager,
		Logger:          logger,
	})
	if err != nil {
		if currencyService != nil {
			currencyService.Stop()
		}
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:          cfg,
		Logger:          logger,
		DB:              database,
		CacheProvider:   cacheProvider,
		SessionManager:  sessionManager,
		CurrencyService: currencyService,
		Handlers:        h,
		sentryEnabled:   sentryEnabled,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CurrencyService != nil {
		a.CurrencyService.Stop()
	}
	if a.SessionManager != nil {
		closeSessionManager(a.Logger, a.SessionManager)
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

func closeSessionManager(logger *slog.Logger, manager *session.Manager) {
	if manager == nil {
		return
	}
	if err := manager.Close(); err != nil && logger != nil {
		logger.Warn("failed to close session manager", "error", err)
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
