/**
 * @description
 * This package provides a client for the lexoffice contacts API. It
 * encapsulates bearer-token authentication and the single endpoint the
 * reconciliation engine needs: fetching one contact by its ID.
 *
 * @dependencies
 * - context, fmt, io, net/http, strings, time: Standard Go libraries.
 * - github.com/hupebln/autolex/internal/domain: For the Company projection.
 * - github.com/hupebln/autolex/pkg/errors: Typed API errors.
 *
 * @notes
 * - Responses are mapped through domain.ParseCompany, so GetContact returns
 *   ErrNotCompany for person contacts. Callers decide whether that is a
 *   skip or a failure.
 * - The client carries a default timeout to prevent requests from hanging
 *   indefinitely.
 */
package lexofficeclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupebln/autolex/internal/domain"
	"github.com/hupebln/autolex/pkg/errors"
)

// Client is a client for the lexoffice API.
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// NewClient creates a new lexoffice API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetContact retrieves a contact by ID and maps it to a Company.
func (c *Client) GetContact(ctx context.Context, id string) (*domain.Company, error) {
	endpoint := fmt.Sprintf("/contacts/%s", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to lexoffice: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexoffice response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError("lexoffice", resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}

	return domain.ParseCompany(body)
}

// setHeaders adds the necessary authentication and accept headers to the request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
}
