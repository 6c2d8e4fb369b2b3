// Package storefront is the client for the external commerce backend's
// GraphQL APIs: product catalog, customer identity, order history, and
// hosted checkout creation. Every operation is a single request/response
// exchange against one fixed endpoint; there are no retries here — failures
// surface to the caller and the UI.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/visaportapp/visaport/internal/logging"
	"github.com/visaportapp/visaport/internal/observability"
)

const requestTimeout = 15 * time.Second

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(endpoint, token string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: observability.NewHTTPClient(requestTimeout),
		logger:     logger,
	}
}

func (c *Client) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, c.logger)
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// do executes one GraphQL operation and decodes the data payload into out.
// A non-2xx status or a populated errors array both collapse into a single
// wrapped error message.
func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Storefront-Access-Token", c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	c.loggerFromContext(ctx).Debug("storefront request completed",
		"operation", operation,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s request returned status %d", operation, resp.StatusCode)
	}

	var decoded graphqlResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	if len(decoded.Errors) > 0 {
		return fmt.Errorf("%s failed: %s", operation, joinErrorMessages(decoded.Errors))
	}

	if out != nil {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", operation, err)
		}
	}
	return nil
}

func joinErrorMessages(errs []graphqlError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if strings.TrimSpace(e.Message) != "" {
			messages = append(messages, e.Message)
		}
	}
	if len(messages) == 0 {
		return "unknown error"
	}
	return strings.Join(messages, "; ")
}

// UserError is a field-level error reported by backend mutations.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func userErrorMessage(errs []UserError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if strings.TrimSpace(e.Message) != "" {
			messages = append(messages, e.Message)
		}
	}
	return strings.Join(messages, "; ")
}
