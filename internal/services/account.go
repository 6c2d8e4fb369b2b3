package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"

	"github.com/visaportapp/visaport/internal/crypto"
	"github.com/visaportapp/visaport/internal/logging"
	"github.com/visaportapp/visaport/internal/session"
	"github.com/visaportapp/visaport/internal/storefront"
)

var (
	ErrAccountUnavailable = errors.New("account service unavailable")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidInput       = errors.New("invalid input")
)

type customerAPI interface {
	CustomerCreate(ctx context.Context, email, password, firstName, lastName string) (*storefront.Customer, error)
	AccessTokenCreate(ctx context.Context, email, password string) (*storefront.AccessToken, error)
	AccessTokenDelete(ctx context.Context, token string) error
	CustomerByToken(ctx context.Context, token string) (*storefront.Customer, error)
	CustomerOrders(ctx context.Context, token string, first int) ([]storefront.Order, error)
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountService proxies customer accounts to the commerce backend. The
// backend owns credentials and issues opaque access tokens; this service
// only stores those tokens, encrypted, in the session.
type AccountService struct {
	api       customerAPI
	encryptor crypto.Encryptor
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewAccountService(api customerAPI, encryptor crypto.Encryptor, logger *slog.Logger) (*AccountService, error) {
	if api == nil {
		return nil, fmt.Errorf("account service storefront client is required")
	}
	if encryptor == nil {
		return nil, fmt.Errorf("account service encryptor is required")
	}

	return &AccountService{
		api:       api,
		encryptor: encryptor,
		validate:  validator.New(),
		logger:    logger.With("component", "account"),
	}, nil
}

func (s *AccountService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// Register creates the customer upstream and logs them straight in,
// writing the encrypted token into the session.
func (s *AccountService) Register(ctx context.Context, sess *session.Data, input RegisterInput) (*storefront.Customer, error) {
	span := sentry.StartSpan(
		ctx,
		"service.account.register",
		sentry.WithOpName("service.account"),
		sentry.WithDescription("Register"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	customer, err := s.api.CustomerCreate(ctx, input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	if err := s.login(ctx, sess, input.Email, input.Password); err != nil {
		// The account exists; surface the login failure rather than
		// pretending registration failed.
		s.loggerFromContext(ctx).Warn("post-registration login failed", "error", err)
		return customer, err
	}

	s.loggerFromContext(ctx).Info("customer registered", "customer_id", customer.ID)
	return customer, nil
}

// Login exchanges credentials for an access token and stores it encrypted
// in the session.
func (s *AccountService) Login(ctx context.Context, sess *session.Data, input LoginInput) error {
	span := sentry.StartSpan(
		ctx,
		"service.account.login",
		sentry.WithOpName("service.account"),
		sentry.WithDescription("Login"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.login(ctx, sess, input.Email, input.Password)
}

func (s *AccountService) login(ctx context.Context, sess *session.Data, email, password string) error {
	if sess == nil {
		return fmt.Errorf("session is required")
	}

	token, err := s.api.AccessTokenCreate(ctx, email, password)
	if err != nil {
		return err
	}

	encrypted, err := s.encryptor.Encrypt(token.Token)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	sess.CustomerToken = encrypted
	sess.TokenExpiresAt = token.ExpiresAt
	sess.CustomerEmail = email
	return nil
}

// Logout invalidates the token upstream and clears it from the session.
// An upstream failure still clears the session; the token expires on its
// own server side.
func (s *AccountService) Logout(ctx context.Context, sess *session.Data) {
	if sess == nil || !sess.LoggedIn() {
		return
	}

	if token, err := s.sessionToken(sess); err == nil {
		if err := s.api.AccessTokenDelete(ctx, token); err != nil {
			s.loggerFromContext(ctx).Warn("failed to invalidate access token", "error", err)
		}
	}

	sess.CustomerToken = ""
	sess.TokenExpiresAt = ""
	sess.CustomerEmail = ""
}

// CurrentUser returns the profile for the session's customer. A stale or
// revoked token returns ErrNotLoggedIn.
func (s *AccountService) CurrentUser(ctx context.Context, sess *session.Data) (*storefront.Customer, error) {
	token, err := s.sessionToken(sess)
	if err != nil {
		return nil, err
	}

	customer, err := s.api.CustomerByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotLoggedIn
	}
	return customer, nil
}

// Orders returns the customer's recent orders, newest first per the
// backend's ordering.
func (s *AccountService) Orders(ctx context.Context, sess *session.Data, limit int) ([]storefront.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.account.orders",
		sentry.WithOpName("service.account"),
		sentry.WithDescription("Orders"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	token, err := s.sessionToken(sess)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	return s.api.CustomerOrders(ctx, token, limit)
}

func (s *AccountService) sessionToken(sess *session.Data) (string, error) {
	if !sess.LoggedIn() {
		return "", ErrNotLoggedIn
	}

	token, err := s.encryptor.Decrypt(sess.CustomerToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return token, nil
}
