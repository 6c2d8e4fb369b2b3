package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"

	"github.com/visaportapp/visaport/internal/db"
	"github.com/visaportapp/visaport/internal/email"
	"github.com/visaportapp/visaport/internal/logging"
)

var ErrContactUnavailable = errors.New("contact service unavailable")

type inquiryStore interface {
	Create(ctx context.Context, name, emailAddr, subject, message string) (*db.Inquiry, error)
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactService records contact-form inquiries and notifies the support
// inbox. The inquiry is persisted first; a notification failure is logged
// but never loses the submission.
type ContactService struct {
	store  inquiryStore
	sender email.Provider
	inbox  string
	logger *slog.Logger

	validate *validator.Validate
}

func NewContactService(store inquiryStore, sender email.Provider, inbox string, logger *slog.Logger) (*ContactService, error) {
	if store == nil {
		return nil, fmt.Errorf("contact service inquiry store is required")
	}

	return &ContactService{
		store:    store,
		sender:   sender,
		inbox:    inbox,
		logger:   logger.With("component", "contact"),
		validate: validator.New(),
	}, nil
}

func (s *ContactService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// Submit validates, stores, and forwards one inquiry.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*db.Inquiry, error) {
	span := sentry.StartSpan(
		ctx,
		"service.contact.submit",
		sentry.WithOpName("service.contact"),
		sentry.WithDescription("Submit"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	inquiry, err := s.store.Create(ctx, input.Name, input.Email, input.Subject, input.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to store inquiry: %w", err)
	}

	if s.sender != nil && s.inbox != "" {
		notification := &email.Email{
			To:      s.inbox,
			Subject: fmt.Sprintf("New inquiry: %s", input.Subject),
			Text: fmt.Sprintf("From: %s <%s>\nInquiry ID: %s\n\n%s",
				input.Name, input.Email, inquiry.ID, input.Message),
		}
		if err := s.sender.SendEmail(ctx, notification); err != nil {
			s.loggerFromContext(ctx).Error("failed to send inquiry notification",
				"inquiry_id", inquiry.ID,
				"error", err,
			)
		}
	}

	s.loggerFromContext(ctx).Info("inquiry received", "inquiry_id", inquiry.ID)
	return inquiry, nil
}
