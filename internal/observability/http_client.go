// Package observability wires sentry tracing and metrics into outbound HTTP
// and request handling.
package observability

import (
	"net/http"
	"net/url"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

// tracePropagationTargets lists the external collaborators whose requests
// carry trace headers: the commerce backend and the exchange-rate feed.
var tracePropagationTargets []string

// RegisterTraceTarget adds a host (parsed from rawURL) to the trace
// propagation list. Called once per collaborator during startup, before any
// client is built.
func RegisterTraceTarget(rawURL string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return
	}
	tracePropagationTargets = append(tracePropagationTargets, parsed.Hostname())
}

func WrapRoundTripper(base http.RoundTripper) http.RoundTripper {
	return sentryhttpclient.NewSentryRoundTripper(
		base,
		sentryhttpclient.WithTracePropagationTargets(tracePropagationTargets),
	)
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{
		Transport: WrapRoundTripper(http.DefaultTransport),
	}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}
