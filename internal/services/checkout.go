package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/getsentry/sentry-go"

	"github.com/visaportapp/visaport/internal/cart"
	"github.com/visaportapp/visaport/internal/logging"
	"github.com/visaportapp/visaport/internal/session"
	"github.com/visaportapp/visaport/internal/storefront"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingTravelers   = errors.New("traveler details are required for every applicant")
	ErrCheckoutNoVariants = errors.New("cart line has no purchasable variant")
)

type checkoutAPI interface {
	CheckoutCreate(ctx context.Context, input storefront.CheckoutInput) (string, error)
}

// CheckoutService turns the session cart into a hosted checkout on the
// commerce backend and hands back the redirect URL. Payment never touches
// this service; the backend derives the charge from the line items.
type CheckoutService struct {
	api    checkoutAPI
	logger *slog.Logger
}

func NewCheckoutService(api checkoutAPI, logger *slog.Logger) (*CheckoutService, error) {
	if api == nil {
		return nil, fmt.Errorf("checkout service storefront client is required")
	}

	return &CheckoutService{
		api:    api,
		logger: logger.With("component", "checkout"),
	}, nil
}

func (s *CheckoutService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// Begin creates the hosted checkout for the session's cart and returns its
// URL. Every line must carry a variant and one traveler per unit of
// quantity.
func (s *CheckoutService) Begin(ctx context.Context, sess *session.Data) (string, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.begin",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("Begin"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if sess == nil || len(sess.Cart) == 0 {
		return "", ErrEmptyCart
	}

	input := storefront.CheckoutInput{
		Email: sess.CustomerEmail,
	}
	for _, line := range sess.Cart {
		checkoutLine, err := checkoutLineFromCart(line)
		if err != nil {
			return "", err
		}
		input.Lines = append(input.Lines, checkoutLine)
	}

	summary := cart.Totals(sess.Cart)
	input.Note = fmt.Sprintf("visa application order: %d applicant(s)", summary.Items)

	url, err := s.api.CheckoutCreate(ctx, input)
	if err != nil {
		return "", err
	}

	s.loggerFromContext(ctx).Info("checkout created",
		"lines", summary.Lines,
		"items", summary.Items,
	)
	return url, nil
}

// checkoutLineFromCart flattens a cart line into the backend's checkout
// line shape. Traveler details and selected addons travel as custom
// attributes so they land on the order for the processing team.
func checkoutLineFromCart(line cart.Line) (storefront.CheckoutLine, error) {
	if line.VariantID == "" {
		return storefront.CheckoutLine{}, fmt.Errorf("%w: %s", ErrCheckoutNoVariants, line.Title)
	}

	quantity := cart.ClampQuantity(line.Quantity)
	if len(line.Travelers) != quantity {
		return storefront.CheckoutLine{}, fmt.Errorf("%w: %s needs %d, has %d",
			ErrMissingTravelers, line.Title, quantity, len(line.Travelers))
	}

	checkoutLine := storefront.CheckoutLine{
		VariantID: line.VariantID,
		Quantity:  quantity,
	}

	for i, traveler := range line.Travelers {
		prefix := "traveler_" + strconv.Itoa(i+1)
		checkoutLine.Attributes = append(checkoutLine.Attributes,
			storefront.CheckoutAttribute{Key: prefix + "_name", Value: traveler.FullName},
			storefront.CheckoutAttribute{Key: prefix + "_passport", Value: traveler.PassportNumber},
			storefront.CheckoutAttribute{Key: prefix + "_nationality", Value: traveler.Nationality},
		)
		if traveler.DateOfBirth != "" {
			checkoutLine.Attributes = append(checkoutLine.Attributes,
				storefront.CheckoutAttribute{Key: prefix + "_dob", Value: traveler.DateOfBirth})
		}
	}

	for _, addon := range line.Addons {
		checkoutLine.Attributes = append(checkoutLine.Attributes,
			storefront.CheckoutAttribute{Key: "addon_" + addon.ID, Value: addon.Title})
	}

	return checkoutLine, nil
}
