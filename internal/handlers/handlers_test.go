package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/visaportapp/visaport/internal/cache"
	"github.com/visaportapp/visaport/internal/catalog"
	"github.com/visaportapp/visaport/internal/config"
	"github.com/visaportapp/visaport/internal/pages"
	"github.com/visaportapp/visaport/internal/services"
	"github.com/visaportapp/visaport/internal/session"
)

type stubFetcher struct {
	products []*catalog.RawProduct
	addons   []*catalog.RawProduct
	byHandle map[string]*catalog.RawProduct
}

func (f *stubFetcher) ListProducts(_ context.Context, queryFilter string) ([]*catalog.RawProduct, error) {
	if queryFilter == "product_type:Addon" {
		return f.addons, nil
	}
	return f.products, nil
}

func (f *stubFetcher) ProductByHandle(_ context.Context, handle string) (*catalog.RawProduct, error) {
	return f.byHandle[handle], nil
}

func rawVisa(handle, country, duration string, price float64) *catalog.RawProduct {
	return &catalog.RawProduct{
		ID:     "gid://product/" + handle,
		Title:  country + " Tourist Visa",
		Handle: handle,
		Variants: []catalog.RawVariant{
			{ID: "gid://variant/" + handle, Title: "Adult", Price: price, Available: true},
		},
		Metafields: []catalog.RawMetafield{
			{Namespace: "visa", Key: "country", Value: country, Type: "single_line_text_field"},
			{Namespace: "visa", Key: "duration", Value: duration, Type: "single_line_text_field"},
		},
	}
}

func newTestHandlers(t *testing.T, fetcher *stubFetcher) (*Handlers, *session.Manager) {
	t.Helper()

	provider, err := cache.NewProvider(cache.Config{Provider: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = provider.Close() })

	logger := slog.New(slog.DiscardHandler)
	catalogService, err := services.NewCatalogService(fetcher, provider, time.Minute, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pageStore, err := pages.Parse([]byte("pages:\n  - slug: about-us\n    title: About Us\n    body: hello\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager := session.NewManager(session.NewMemoryStore(), false)

	return &Handlers{
		config:         &config.Config{},
		catalogService: catalogService,
		pageStore:      pageStore,
		sessionManager: manager,
		logger:         logger,
	}, manager
}

func testRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/visas", h.ListVisas).Methods(http.MethodGet)
	router.HandleFunc("/api/visas/options", h.FilterOptions).Methods(http.MethodGet)
	router.HandleFunc("/api/visas/{handle}", h.GetVisa).Methods(http.MethodGet)
	router.HandleFunc("/api/countries/{country}/visas", h.ListVisas).Methods(http.MethodGet)
	router.HandleFunc("/api/cart", h.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/api/cart/items", h.AddCartItem).Methods(http.MethodPost)
	router.HandleFunc("/api/cart/items/{lineID}", h.UpdateCartItem).Methods(http.MethodPatch)
	router.HandleFunc("/api/cart/items/{lineID}", h.RemoveCartItem).Methods(http.MethodDelete)
	router.HandleFunc("/api/cart/items/{lineID}/travelers", h.SetTravelers).Methods(http.MethodPut)
	router.HandleFunc("/api/pages/{slug}", h.GetPage).Methods(http.MethodGet)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestListVisas_FiltersAndSorts(t *testing.T) {
	fetcher := &stubFetcher{products: []*catalog.RawProduct{
		rawVisa("dubai-30d", "UAE", "30 DAYS", 250),
		rawVisa("dubai-48h", "UAE", "48 HOURS", 90),
		rawVisa("thailand-60d", "Thailand", "60 DAYS", 120),
	}}
	h, _ := newTestHandlers(t, fetcher)
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodGet, "/api/visas?country=UAE&sort=price-desc", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Products []catalog.VisaProduct `json:"products"`
		Count    int                   `json:"count"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Count != 2 {
		t.Fatalf("expected 2 UAE products, got %d", response.Count)
	}
	if response.Products[0].Handle != "dubai-30d" {
		t.Errorf("price-desc must order the dearer product first: %s", response.Products[0].Handle)
	}
}

func TestListVisas_CountryScopeFromRoute(t *testing.T) {
	fetcher := &stubFetcher{products: []*catalog.RawProduct{
		rawVisa("dubai-30d", "UAE", "30 DAYS", 250),
		rawVisa("thailand-60d", "Thailand", "60 DAYS", 120),
	}}
	h, _ := newTestHandlers(t, fetcher)
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodGet, "/api/countries/uae/visas", "", nil)
	var response struct {
		Products []catalog.VisaProduct `json:"products"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Products) != 1 || response.Products[0].Country != "UAE" {
		t.Errorf("unexpected scope result: %+v", response.Products)
	}
}

func TestListVisas_RejectsBadPrice(t *testing.T) {
	h, _ := newTestHandlers(t, &stubFetcher{})
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodGet, "/api/visas?min_price=abc", "", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestGetVisa_NotFound(t *testing.T) {
	h, _ := newTestHandlers(t, &stubFetcher{byHandle: map[string]*catalog.RawProduct{}})
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodGet, "/api/visas/unknown-visa", "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", recorder.Code)
	}
}

func TestCartFlow(t *testing.T) {
	fetcher := &stubFetcher{
		products: []*catalog.RawProduct{rawVisa("dubai-30d", "UAE", "30 DAYS", 250)},
		byHandle: map[string]*catalog.RawProduct{},
	}
	h, _ := newTestHandlers(t, fetcher)
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodPost, "/api/cart/items",
		`{"handle":"dubai-30d","quantity":2}`, nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var added cartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&added); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added.Summary.Subtotal != 500 {
		t.Errorf("subtotal = %v, want 500", added.Summary.Subtotal)
	}
	lineID := added.Lines[0].ID

	// Quantity clamps at one.
	recorder = doJSON(t, router, http.MethodPatch, "/api/cart/items/"+lineID,
		`{"quantity":0}`, cookies)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	var updated cartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Lines[0].Quantity != 1 {
		t.Errorf("quantity = %d, want clamp to 1", updated.Lines[0].Quantity)
	}

	recorder = doJSON(t, router, http.MethodDelete, "/api/cart/items/"+lineID, "", cookies)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	var emptied cartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&emptied); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emptied.Lines) != 0 {
		t.Errorf("cart should be empty, got %+v", emptied.Lines)
	}
}

func TestAddCartItem_UnknownHandle(t *testing.T) {
	h, _ := newTestHandlers(t, &stubFetcher{byHandle: map[string]*catalog.RawProduct{}})
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodPost, "/api/cart/items",
		`{"handle":"nope","quantity":1}`, nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", recorder.Code)
	}
}

func TestSetTravelers_RequiresCompleteDetails(t *testing.T) {
	fetcher := &stubFetcher{products: []*catalog.RawProduct{rawVisa("dubai-30d", "UAE", "30 DAYS", 250)}}
	h, _ := newTestHandlers(t, fetcher)
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodPost, "/api/cart/items",
		`{"handle":"dubai-30d","quantity":1}`, nil)
	cookies := recorder.Result().Cookies()
	var added cartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&added); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recorder = doJSON(t, router, http.MethodPut, "/api/cart/items/"+added.Lines[0].ID+"/travelers",
		`{"travelers":[{"fullName":"Ada"}]}`, cookies)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}

	recorder = doJSON(t, router, http.MethodPut, "/api/cart/items/"+added.Lines[0].ID+"/travelers",
		`{"travelers":[{"fullName":"Ada Lovelace","passportNumber":"P1","nationality":"GB"}]}`, cookies)
	if recorder.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
}

func TestGetPage(t *testing.T) {
	h, _ := newTestHandlers(t, &stubFetcher{})
	router := testRouter(h)

	recorder := doJSON(t, router, http.MethodGet, "/api/pages/about-us", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}

	recorder = doJSON(t, router, http.MethodGet, "/api/pages/missing", "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", recorder.Code)
	}
}
