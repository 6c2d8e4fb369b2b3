package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/visaportapp/visaport/internal/crypto"
	"github.com/visaportapp/visaport/internal/session"
	"github.com/visaportapp/visaport/internal/storefront"
)

type fakeCustomerAPI struct {
	created       *storefront.Customer
	token         *storefront.AccessToken
	tokenErr      error
	customer      *storefront.Customer
	deletedTokens []string
	orders        []storefront.Order
}

func (f *fakeCustomerAPI) CustomerCreate(_ context.Context, email, _, firstName, lastName string) (*storefront.Customer, error) {
	f.created = &storefront.Customer{ID: "gid://customer/1", Email: email, FirstName: firstName, LastName: lastName}
	return f.created, nil
}

func (f *fakeCustomerAPI) AccessTokenCreate(_ context.Context, _, _ string) (*storefront.AccessToken, error) {
	return f.token, f.tokenErr
}

func (f *fakeCustomerAPI) AccessTokenDelete(_ context.Context, token string) error {
	f.deletedTokens = append(f.deletedTokens, token)
	return nil
}

func (f *fakeCustomerAPI) CustomerByToken(_ context.Context, _ string) (*storefront.Customer, error) {
	return f.customer, nil
}

func (f *fakeCustomerAPI) CustomerOrders(_ context.Context, _ string, _ int) ([]storefront.Order, error) {
	return f.orders, nil
}

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func newTestAccountService(t *testing.T, api customerAPI) *AccountService {
	t.Helper()
	encryptor, err := crypto.NewEncryptor(testEncryptionKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	service, err := NewAccountService(api, encryptor, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return service
}

func TestAccountService_LoginStoresEncryptedToken(t *testing.T) {
	api := &fakeCustomerAPI{token: &storefront.AccessToken{Token: "opaque-token", ExpiresAt: "2026-09-01T00:00:00Z"}}
	service := newTestAccountService(t, api)

	sess := &session.Data{}
	err := service.Login(context.Background(), sess, LoginInput{Email: "a@b.test", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sess.LoggedIn() {
		t.Fatal("session must report logged in")
	}
	if sess.CustomerToken == "opaque-token" {
		t.Error("token must not be stored in plaintext")
	}
	if sess.CustomerEmail != "a@b.test" {
		t.Errorf("unexpected email: %q", sess.CustomerEmail)
	}
}

func TestAccountService_LoginValidatesInput(t *testing.T) {
	service := newTestAccountService(t, &fakeCustomerAPI{})

	err := service.Login(context.Background(), &session.Data{}, LoginInput{Email: "not-an-email", Password: "x"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_LogoutInvalidatesUpstreamToken(t *testing.T) {
	api := &fakeCustomerAPI{token: &storefront.AccessToken{Token: "opaque-token"}}
	service := newTestAccountService(t, api)

	sess := &session.Data{}
	if err := service.Login(context.Background(), sess, LoginInput{Email: "a@b.test", Password: "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	service.Logout(context.Background(), sess)

	if sess.LoggedIn() {
		t.Error("session must be cleared after logout")
	}
	if len(api.deletedTokens) != 1 || api.deletedTokens[0] != "opaque-token" {
		t.Errorf("upstream token not invalidated: %v", api.deletedTokens)
	}
}

func TestAccountService_CurrentUserRequiresLogin(t *testing.T) {
	service := newTestAccountService(t, &fakeCustomerAPI{})

	if _, err := service.CurrentUser(context.Background(), &session.Data{}); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestAccountService_CurrentUserStaleToken(t *testing.T) {
	api := &fakeCustomerAPI{token: &storefront.AccessToken{Token: "opaque-token"}, customer: nil}
	service := newTestAccountService(t, api)

	sess := &session.Data{}
	if err := service.Login(context.Background(), sess, LoginInput{Email: "a@b.test", Password: "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Backend returns no customer for a revoked token.
	if _, err := service.CurrentUser(context.Background(), sess); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestAccountService_RegisterLogsIn(t *testing.T) {
	api := &fakeCustomerAPI{token: &storefront.AccessToken{Token: "opaque-token"}}
	service := newTestAccountService(t, api)

	sess := &session.Data{}
	customer, err := service.Register(context.Background(), sess, RegisterInput{
		Email:     "new@b.test",
		Password:  "longenough",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Email != "new@b.test" {
		t.Errorf("unexpected customer: %+v", customer)
	}
	if !sess.LoggedIn() {
		t.Error("registration must log the customer in")
	}
}
