/**
 * @description
 * This package provides a client for the Autotask REST API. It encapsulates
 * the authentication headers, the query filter encoding, and the company,
 * contact and country endpoints the reconciliation engine works with.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, net/http, net/url, strings, time: Standard Go libraries.
 * - github.com/hupebln/autolex/internal/domain: For the Autotask entity structs.
 * - github.com/hupebln/autolex/pkg/errors: Typed API errors.
 *
 * @notes
 * - Autotask query endpoints take a JSON filter expression in the `search`
 *   query parameter, URL-encoded.
 * - PATCH endpoints carry the entity id in the body; only the contact
 *   endpoints carry the parent company id in the path.
 * - Country lookups scan the result set for an exact countryCode match
 *   because the query endpoint may return broader matches.
 */
package autotaskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupebln/autolex/internal/domain"
	"github.com/hupebln/autolex/pkg/errors"
)

// Client is a client for the Autotask REST API.
type Client struct {
	BaseURL         string
	Username        string
	Secret          string
	IntegrationCode string
	httpClient      *http.Client
}

// NewClient creates a new Autotask API client.
func NewClient(baseURL, username, secret, integrationCode string) *Client {
	return &Client{
		BaseURL:         strings.TrimSuffix(baseURL, "/"),
		Username:        username,
		Secret:          secret,
		IntegrationCode: integrationCode,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// queryFilter is the filter grammar of Autotask query endpoints.
type queryFilter struct {
	Filter []filterClause `json:"filter"`
}

type filterClause struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// searchParam encodes an equality filter for the search query parameter.
func searchParam(field, value string) string {
	raw, _ := json.Marshal(queryFilter{Filter: []filterClause{{Field: field, Op: "eq", Value: value}}})
	return url.QueryEscape(string(raw))
}

// QueryCompaniesByNumber returns all companies whose companyNumber equals number.
func (c *Client) QueryCompaniesByNumber(ctx context.Context, number string) ([]domain.AutotaskCompanyRecord, error) {
	var result struct {
		Items []domain.AutotaskCompanyRecord `json:"items"`
	}
	path := "/Companies/query?search=" + searchParam("companyNumber", number)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// CreateCompany creates a company and returns the id Autotask assigned to it.
func (c *Client) CreateCompany(ctx context.Context, company *domain.AutotaskCompany) (int64, error) {
	var result struct {
		ItemID int64 `json:"itemId"`
	}
	if err := c.do(ctx, http.MethodPost, "/Companies", company, &result); err != nil {
		return 0, err
	}
	return result.ItemID, nil
}

// UpdateCompany patches an existing company. The company id travels in the body.
func (c *Client) UpdateCompany(ctx context.Context, company *domain.AutotaskCompany) error {
	return c.do(ctx, http.MethodPatch, "/Companies", company, nil)
}

// ListContacts returns the current contacts of a company.
func (c *Client) ListContacts(ctx context.Context, companyID int64) ([]domain.AutotaskContactRecord, error) {
	var result struct {
		Items []domain.AutotaskContactRecord `json:"items"`
	}
	path := fmt.Sprintf("/Companies/%d/Contacts", companyID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// CreateContact creates a contact under a company and returns its new id.
func (c *Client) CreateContact(ctx context.Context, companyID int64, contact *domain.AutotaskContact) (int64, error) {
	var result struct {
		ItemID int64 `json:"itemId"`
	}
	path := fmt.Sprintf("/Companies/%d/Contacts", companyID)
	if err := c.do(ctx, http.MethodPost, path, contact, &result); err != nil {
		return 0, err
	}
	return result.ItemID, nil
}

// UpdateContact patches an existing contact. The contact id travels in the body.
func (c *Client) UpdateContact(ctx context.Context, companyID int64, contact *domain.AutotaskContact) error {
	path := fmt.Sprintf("/Companies/%d/Contacts", companyID)
	return c.do(ctx, http.MethodPatch, path, contact, nil)
}

// DeleteContact removes a contact from a company.
func (c *Client) DeleteContact(ctx context.Context, companyID, contactID int64) error {
	path := fmt.Sprintf("/Companies/%d/Contacts/%d", companyID, contactID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// LookupCountryID resolves an ISO country code to Autotask's internal
// country id. The boolean result reports whether the code was found.
func (c *Client) LookupCountryID(ctx context.Context, countryCode string) (int64, bool, error) {
	var result struct {
		Items []domain.Country `json:"items"`
	}
	path := "/Countries/query?search=" + searchParam("countryCode", countryCode)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, false, err
	}
	for _, country := range result.Items {
		if country.CountryCode == countryCode {
			return country.ID, true, nil
		}
	}
	return 0, false, nil
}

// do executes one API call. A non-nil payload is sent as JSON; a non-nil out
// receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Autotask: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.handleErrorResponse(resp, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode Autotask response: %w", err)
		}
	}
	return nil
}

// setHeaders adds the Autotask authentication headers to the request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ApiIntegrationCode", c.IntegrationCode)
	req.Header.Set("UserName", c.Username)
	req.Header.Set("Secret", c.Secret)
}

// handleErrorResponse reads the body of a failed API call and returns a typed error.
func (c *Client) handleErrorResponse(resp *http.Response, path string) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewAPIError("autotask", resp.StatusCode, path, "failed to read response body")
	}
	return errors.NewAPIError("autotask", resp.StatusCode, path, strings.TrimSpace(string(bodyBytes)))
}
