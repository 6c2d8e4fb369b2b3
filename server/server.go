package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/visaportapp/visaport/internal/config"
	"github.com/visaportapp/visaport/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.SessionMiddleware)
	api.Use(h.RequireSameOrigin)

	// Catalog
	api.HandleFunc("/visas", h.ListVisas).Methods("GET").Name("visas.list")
	api.HandleFunc("/visas/options", h.FilterOptions).Methods("GET").Name("visas.options")
	api.HandleFunc("/visas/{handle}", h.GetVisa).Methods("GET").Name("visas.detail")
	api.HandleFunc("/countries/{country}/visas", h.ListVisas).Methods("GET").Name("countries.visas")

	// Cart
	api.HandleFunc("/cart", h.GetCart).Methods("GET").Name("cart.get")
	api.HandleFunc("/cart/items", h.AddCartItem).Methods("POST").Name("cart.items.add")
	api.HandleFunc("/cart/items/{lineID}", h.UpdateCartItem).Methods("PATCH").Name("cart.items.update")
	api.HandleFunc("/cart/items/{lineID}", h.RemoveCartItem).Methods("DELETE").Name("cart.items.remove")
	api.HandleFunc("/cart/items/{lineID}/travelers", h.SetTravelers).Methods("PUT").Name("cart.items.travelers")

	// Checkout handoff
	api.HandleFunc("/checkout", h.BeginCheckout).Methods("POST").Name("checkout.begin")

	// Accounts
	api.HandleFunc("/auth/register", h.Register).Methods("POST").Name("auth.register")
	api.HandleFunc("/auth/login", h.Login).Methods("POST").Name("auth.login")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST").Name("auth.logout")
	api.HandleFunc("/account", h.CurrentUser).Methods("GET").Name("account.me")
	api.HandleFunc("/account/orders", h.ListOrders).Methods("GET").Name("account.orders")

	// Contact and content
	api.HandleFunc("/contact", h.SubmitContact).Methods("POST").Name("contact.submit")
	api.HandleFunc("/pages", h.ListPages).Methods("GET").Name("pages.list")
	api.HandleFunc("/pages/{slug}", h.GetPage).Methods("GET").Name("pages.detail")

	// Display-only currency conversion
	api.HandleFunc("/currency", h.ListCurrencies).Methods("GET").Name("currency.list")
	api.HandleFunc("/currency/convert", h.ConvertCurrency).Methods("GET").Name("currency.convert")

	return r
}
