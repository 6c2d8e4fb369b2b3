package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", nil)
}

func TestClient_ProductByHandle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Storefront-Access-Token"); got != "test-token" {
			t.Errorf("missing access token header, got %q", got)
		}

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if !strings.Contains(req.Query, "ProductByHandle") {
			t.Errorf("unexpected query: %s", req.Query)
		}

		_, _ = w.Write([]byte(`{
			"data": {
				"product": {
					"id": "gid://shop/Product/1",
					"title": "Dubai Tourist Visa",
					"handle": "dubai-tourist-visa",
					"priceRange": {
						"minVariantPrice": {"amount": "250.0", "currencyCode": "USD"}
					},
					"variants": {"edges": [
						{"node": {"id": "v1", "title": "Adult", "availableForSale": true, "price": {"amount": "250.0", "currencyCode": "USD"}}}
					]},
					"images": {"edges": []},
					"metafields": [
						{"namespace": "visa", "key": "country", "value": "UAE", "type": "single_line_text_field"},
						null
					]
				}
			}
		}`))
	})

	raw, err := client.ProductByHandle(context.Background(), "dubai-tourist-visa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw == nil {
		t.Fatal("expected a product record")
	}
	if raw.Title != "Dubai Tourist Visa" || raw.MinPrice != 250 {
		t.Errorf("unexpected record: %+v", raw)
	}
	if len(raw.Variants) != 1 || raw.Variants[0].Price != 250 {
		t.Errorf("unexpected variants: %+v", raw.Variants)
	}
	if len(raw.Metafields) != 1 {
		t.Errorf("null metafield entries must be skipped, got %+v", raw.Metafields)
	}
}

func TestClient_ProductByHandle_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"product": null}}`))
	})

	raw, err := client.ProductByHandle(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != nil {
		t.Errorf("unknown handle must yield a nil record, got %+v", raw)
	}
}

func TestClient_GraphQLErrorsCollapse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors": [{"message": "throttled"}, {"message": "try later"}]}`))
	})

	_, err := client.ProductByHandle(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "throttled; try later") {
		t.Errorf("expected joined error messages, got %v", err)
	}
}

func TestClient_HTTPErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.ProductByHandle(context.Background(), "x"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestClient_AccessTokenCreate_UserErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {
				"customerAccessTokenCreate": {
					"customerAccessToken": null,
					"customerUserErrors": [{"field": ["email"], "message": "Unidentified customer"}]
				}
			}
		}`))
	})

	_, err := client.AccessTokenCreate(context.Background(), "a@b.test", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Unidentified customer") {
		t.Errorf("expected user error message, got %v", err)
	}
}

func TestClient_CheckoutCreate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		input, _ := req.Variables["input"].(map[string]any)
		if _, ok := input["lineItems"]; !ok {
			t.Error("expected lineItems in checkout input")
		}

		_, _ = w.Write([]byte(`{
			"data": {
				"checkoutCreate": {
					"checkout": {"id": "chk_1", "webUrl": "https://checkout.example.com/c/chk_1"},
					"checkoutUserErrors": []
				}
			}
		}`))
	})

	url, err := client.CheckoutCreate(context.Background(), CheckoutInput{
		Email: "a@b.test",
		Lines: []CheckoutLine{{
			VariantID: "v1",
			Quantity:  2,
			Attributes: []CheckoutAttribute{
				{Key: "Traveler 1", Value: "Amal Haddad / N1234567"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://checkout.example.com/c/chk_1" {
		t.Errorf("unexpected checkout URL: %s", url)
	}
}

func TestClient_ListProducts_Pagination(t *testing.T) {
	page := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		page++
		if page == 1 {
			_, _ = w.Write([]byte(`{"data": {"products": {
				"pageInfo": {"hasNextPage": true, "endCursor": "c1"},
				"edges": [{"node": {"id": "p1", "title": "First", "handle": "first"}}]
			}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data": {"products": {
			"pageInfo": {"hasNextPage": false, "endCursor": ""},
			"edges": [{"node": {"id": "p2", "title": "Second", "handle": "second"}}]
		}}}`))
	})

	records, err := client.ListProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0].Handle != "first" || records[1].Handle != "second" {
		t.Errorf("unexpected records: %+v", records)
	}
}
