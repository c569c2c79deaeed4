/**
 * @description
 * This file defines the Go structs that model webhook events and contact
 * payloads from the lexoffice API. These structures are essential for safely
 * unmarshaling the JSON data received at the webhook endpoint and fetched
 * from `GET /contacts/{id}`.
 *
 * @notes
 * - lexoffice groups addresses, email addresses and phone numbers by kind;
 *   the Company projection flattens them into the slices the reconciliation
 *   engine works with.
 * - Parsing is deliberately lenient: missing optional fields decode to zero
 *   values so that a sparse payload never aborts a run. Only a payload that
 *   is not valid JSON, or one without a company sub-object, is rejected.
 */
package domain

import (
	"bytes"
	"encoding/json"

	"github.com/hupebln/autolex/pkg/errors"
)

// Webhook event types emitted by lexoffice that trigger a reconciliation run.
const (
	EventContactCreated = "contact.created"
	EventContactChanged = "contact.changed"
)

// RoleCustomer is the contact role that carries the customer account number.
const RoleCustomer = "customer"

// WebhookEvent represents the top-level structure of a webhook payload from lexoffice.
type WebhookEvent struct {
	OrganizationID string `json:"organizationId"`
	EventType      string `json:"eventType"` // e.g., "contact.changed"
	ResourceID     string `json:"resourceId"`
	EventDate      string `json:"eventDate"`
}

// ParseWebhookEvent decodes a webhook body.
func ParseWebhookEvent(raw []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, errors.NewMalformedPayloadError("lexoffice", err)
	}
	return &event, nil
}

// Number is a customer account number. lexoffice transmits it as a JSON
// number in current payloads and as a string in older ones, so decoding
// accepts both and normalizes to the string form.
type Number string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*n = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return err
	}
	*n = Number(num.String())
	return nil
}

// Role carries the role-specific attributes of a lexoffice contact.
type Role struct {
	Number Number `json:"number"`
}

// ContactPerson is one entry of a company's contactPersons list.
type ContactPerson struct {
	Salutation   string `json:"salutation"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Primary      bool   `json:"primary"`
	EmailAddress string `json:"emailAddress"`
	PhoneNumber  string `json:"phoneNumber"`
}

// Address is one postal address of a company.
type Address struct {
	Street      string `json:"street"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// XRechnung carries the German e-invoicing attributes of a company.
type XRechnung struct {
	BuyerReference         string `json:"buyerReference"`
	VendorNumberAtCustomer string `json:"vendorNumberAtCustomer"`
}

// Company is the flattened projection of a lexoffice contact that carries a
// company record. It is immutable once parsed; one value lives for exactly
// one reconciliation run.
type Company struct {
	ID                   string
	OrganizationID       string
	Version              int
	Roles                map[string]Role
	Name                 string
	TaxNumber            string
	VatID                string
	AllowTaxFreeInvoices bool
	ContactPersons       []ContactPerson
	EmailAddresses       []string
	BusinessPhones       []string
	FaxNumbers           []string
	BillingAddresses     []Address
	ShippingAddresses    []Address
	XRechnung            *XRechnung
	Note                 string
	Archived             bool
}

// CustomerNumber returns the customer account number from the "customer"
// role, or the empty string if the contact has no customer role.
func (c *Company) CustomerNumber() string {
	return string(c.Roles[RoleCustomer].Number)
}

// contactPayload mirrors the wire layout of a lexoffice contact.
type contactPayload struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	Version        int             `json:"version"`
	Roles          map[string]Role `json:"roles"`
	Company        *companyDetails `json:"company"`
	Addresses      addressGroups   `json:"addresses"`
	EmailAddresses emailGroups     `json:"emailAddresses"`
	PhoneNumbers   phoneGroups     `json:"phoneNumbers"`
	XRechnung      *XRechnung      `json:"xRechnung"`
	Note           string          `json:"note"`
	Archived       bool            `json:"archived"`
}

type companyDetails struct {
	Name                 string          `json:"name"`
	TaxNumber            string          `json:"taxNumber"`
	VatRegistrationID    string          `json:"vatRegistrationId"`
	AllowTaxFreeInvoices bool            `json:"allowTaxFreeInvoices"`
	ContactPersons       []ContactPerson `json:"contactPersons"`
}

type addressGroups struct {
	Billing  []Address `json:"billing"`
	Shipping []Address `json:"shipping"`
}

type emailGroups struct {
	Business []string `json:"business"`
	Office   []string `json:"office"`
	Private  []string `json:"private"`
	Other    []string `json:"other"`
}

func (g emailGroups) flatten() []string {
	out := make([]string, 0, len(g.Business)+len(g.Office)+len(g.Private)+len(g.Other))
	out = append(out, g.Business...)
	out = append(out, g.Office...)
	out = append(out, g.Private...)
	out = append(out, g.Other...)
	return out
}

type phoneGroups struct {
	Business []string `json:"business"`
	Fax      []string `json:"fax"`
}

// ParseCompany decodes a lexoffice contact payload into a Company.
// It returns ErrNotCompany when the contact carries no company sub-object,
// which is the case for person contacts.
func ParseCompany(raw []byte) (*Company, error) {
	var payload contactPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.NewMalformedPayloadError("lexoffice", err)
	}
	if payload.Company == nil {
		return nil, errors.ErrNotCompany
	}

	return &Company{
		ID:                   payload.ID,
		OrganizationID:       payload.OrganizationID,
		Version:              payload.Version,
		Roles:                payload.Roles,
		Name:                 payload.Company.Name,
		TaxNumber:            payload.Company.TaxNumber,
		VatID:                payload.Company.VatRegistrationID,
		AllowTaxFreeInvoices: payload.Company.AllowTaxFreeInvoices,
		ContactPersons:       payload.Company.ContactPersons,
		EmailAddresses:       payload.EmailAddresses.flatten(),
		BusinessPhones:       payload.PhoneNumbers.Business,
		FaxNumbers:           payload.PhoneNumbers.Fax,
		BillingAddresses:     payload.Addresses.Billing,
		ShippingAddresses:    payload.Addresses.Shipping,
		XRechnung:            payload.XRechnung,
		Note:                 payload.Note,
		Archived:             payload.Archived,
	}, nil
}
