package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// defaultTimeout bounds a single lookup round-trip.
const defaultTimeout = 10 * time.Second

// HTTPClient fetches GSTIN details from a GST API provider exposing
// GET {base}/gstin/{id} with a JSON body in the Details shape.
type HTTPClient struct {
	base   string
	apiKey string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPClient builds a client for the given provider base URL. The API key
// is sent as a bearer token when non-empty.
func NewHTTPClient(base, apiKey string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		base:   base,
		apiKey: apiKey,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// Fetch retrieves party details for the GSTIN. A 404 maps to ErrNotFound;
// other non-2xx statuses surface as errors with the provider's status code.
func (c *HTTPClient) Fetch(ctx context.Context, id string) (*Details, error) {
	norm := normalize(id)
	endpoint := fmt.Sprintf("%s/gstin/%s", c.base, url.PathEscape(norm))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", norm, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound(norm)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn("gstin lookup failed", "gstin", norm, "status", resp.StatusCode)
		return nil, fmt.Errorf("lookup %s: provider returned %d", norm, resp.StatusCode)
	}

	var d Details
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if d.GSTIN == "" {
		d.GSTIN = norm
	}
	c.logger.Debug("gstin lookup ok", "gstin", norm, "legal_name", d.LegalName)
	return &d, nil
}
