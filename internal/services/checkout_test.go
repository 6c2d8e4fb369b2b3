package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/visaportapp/visaport/internal/cart"
	"github.com/visaportapp/visaport/internal/session"
	"github.com/visaportapp/visaport/internal/storefront"
)

type fakeCheckoutAPI struct {
	input storefront.CheckoutInput
	url   string
	err   error
}

func (f *fakeCheckoutAPI) CheckoutCreate(_ context.Context, input storefront.CheckoutInput) (string, error) {
	f.input = input
	return f.url, f.err
}

func newTestCheckoutService(t *testing.T, api checkoutAPI) *CheckoutService {
	t.Helper()
	service, err := NewCheckoutService(api, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return service
}

func travelerLine(quantity int) cart.Line {
	line := cart.Line{
		ProductID: "gid://product/dubai-30d",
		Handle:    "dubai-30d",
		Title:     "UAE Visa",
		VariantID: "gid://variant/adult",
		UnitPrice: 250,
		Quantity:  quantity,
	}
	for i := 0; i < quantity; i++ {
		line.Travelers = append(line.Travelers, cart.Traveler{
			FullName:       "Traveler Name",
			PassportNumber: "P1234567",
			Nationality:    "IN",
		})
	}
	return line
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	service := newTestCheckoutService(t, &fakeCheckoutAPI{})

	if _, err := service.Begin(context.Background(), &session.Data{}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutService_TravelerCountMustMatchQuantity(t *testing.T) {
	service := newTestCheckoutService(t, &fakeCheckoutAPI{url: "https://checkout.test/x"})

	line := travelerLine(2)
	line.Travelers = line.Travelers[:1]
	sess := &session.Data{Cart: []cart.Line{line}}

	if _, err := service.Begin(context.Background(), sess); !errors.Is(err, ErrMissingTravelers) {
		t.Errorf("expected ErrMissingTravelers, got %v", err)
	}
}

func TestCheckoutService_ForwardsTravelersAndAddons(t *testing.T) {
	api := &fakeCheckoutAPI{url: "https://checkout.test/x"}
	service := newTestCheckoutService(t, api)

	line := travelerLine(1)
	line.Addons = []cart.SelectedAddon{{ID: "gid://product/express", Title: "Express Processing", Price: 50}}
	sess := &session.Data{
		CustomerEmail: "a@b.test",
		Cart:          []cart.Line{line},
	}

	url, err := service.Begin(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://checkout.test/x" {
		t.Errorf("unexpected checkout URL: %q", url)
	}
	if api.input.Email != "a@b.test" {
		t.Errorf("customer email not forwarded: %q", api.input.Email)
	}
	if len(api.input.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(api.input.Lines))
	}

	attrs := map[string]string{}
	for _, attr := range api.input.Lines[0].Attributes {
		attrs[attr.Key] = attr.Value
	}
	if attrs["traveler_1_passport"] != "P1234567" {
		t.Errorf("traveler passport not forwarded: %v", attrs)
	}
	if attrs["addon_gid://product/express"] != "Express Processing" {
		t.Errorf("addon not forwarded: %v", attrs)
	}
}

func TestCheckoutService_RejectsLineWithoutVariant(t *testing.T) {
	service := newTestCheckoutService(t, &fakeCheckoutAPI{})

	line := travelerLine(1)
	line.VariantID = ""
	sess := &session.Data{Cart: []cart.Line{line}}

	if _, err := service.Begin(context.Background(), sess); !errors.Is(err, ErrCheckoutNoVariants) {
		t.Errorf("expected ErrCheckoutNoVariants, got %v", err)
	}
}
