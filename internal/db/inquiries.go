package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InquiryStore persists contact-form submissions in Postgres.
type InquiryStore struct {
	pool *pgxpool.Pool
}

func NewInquiryStore(pool *pgxpool.Pool) *InquiryStore {
	return &InquiryStore{pool: pool}
}

func (s *InquiryStore) Create(ctx context.Context, name, email, subject, message string) (*Inquiry, error) {
	inquiry := &Inquiry{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	const query = `
		INSERT INTO inquiries (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		inquiry.ID, inquiry.Name, inquiry.Email, inquiry.Subject, inquiry.Message, inquiry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert inquiry: %w", err)
	}

	return inquiry, nil
}

// ListRecent returns the most recent inquiries, newest first.
func (s *InquiryStore) ListRecent(ctx context.Context, limit int) ([]Inquiry, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, name, email, subject, message, created_at
		FROM inquiries
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []Inquiry
	for rows.Next() {
		var inquiry Inquiry
		if err := rows.Scan(&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.Subject, &inquiry.Message, &inquiry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inquiries: %w", err)
	}

	return inquiries, nil
}
