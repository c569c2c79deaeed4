package lexofficeclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/hupebln/autolex/pkg/errors"
)

const contactResponse = `{
	"id": "e9066f04-8cc7-4616-93f8-ac24ecd52c85",
	"organizationId": "aa93e8a8-2aa3-470b-b914-caad8a255dd8",
	"version": 1,
	"roles": {"customer": {"number": 10307}},
	"company": {
		"name": "Bike & Ride GmbH & Co. KG",
		"taxNumber": "111/11111/1111",
		"contactPersons": [
			{"firstName": "Max", "lastName": "Mustermann", "primary": true, "emailAddress": "max@example.org"}
		]
	},
	"archived": false
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-api-key")
}

func TestGetContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/contacts/e9066f04-8cc7-4616-93f8-ac24ecd52c85" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-api-key" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected Accept header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(contactResponse))
	})

	company, err := client.GetContact(context.Background(), "e9066f04-8cc7-4616-93f8-ac24ecd52c85")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if company.Name != "Bike & Ride GmbH & Co. KG" {
		t.Errorf("unexpected company name: %q", company.Name)
	}
	if got := company.CustomerNumber(); got != "10307" {
		t.Errorf("expected customer number %q, got %q", "10307", got)
	}
	if len(company.ContactPersons) != 1 {
		t.Errorf("expected 1 contact person, got %d", len(company.ContactPersons))
	}
}

func TestGetContactPerson(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "abc", "person": {"firstName": "Erika", "lastName": "Musterfrau"}}`))
	})

	_, err := client.GetContact(context.Background(), "abc")
	if !apperrors.IsNotCompany(err) {
		t.Errorf("expected ErrNotCompany, got %v", err)
	}
}

func TestGetContactAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "contact not found"}`))
	})

	_, err := client.GetContact(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}

	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Service != "lexoffice" {
		t.Errorf("expected service lexoffice, got %q", apiErr.Service)
	}
}

func TestGetContactServerErrorIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetContact(context.Background(), "abc")
	if !apperrors.IsUnavailable(err) {
		t.Errorf("expected a 503 to be reported as unavailable, got %v", err)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contacts/abc" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(contactResponse))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL+"/", "test-api-key")
	if _, err := client.GetContact(context.Background(), "abc"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
