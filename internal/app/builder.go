/**
 * @description
 * This file builds Autotask-shaped company and contact payloads from a
 * lexoffice company record. The builder owns the field mapping rules: which
 * lexoffice attribute lands in which Autotask field, which defaults apply,
 * and how ISO country codes are resolved to Autotask country ids.
 *
 * @dependencies
 * - context, fmt: Standard Go libraries.
 * - github.com/hupebln/autolex/internal/domain: Source and target entity structs.
 *
 * @notes
 * - Only attributes with a non-empty source value are set, so unset fields
 *   are omitted from the wire payload instead of overwriting Autotask data.
 * - Both addresses use only the first array element: the shipping address
 *   feeds the company's primary address fields, the billing address feeds
 *   the bill-to fields, each with its own country lookup.
 * - A failed country lookup is returned as a non-fatal error and leaves the
 *   country-id field unset; an unknown country code is not an error at all.
 */
package app

import (
	"context"
	"fmt"

	"github.com/hupebln/autolex/internal/domain"
)

// CountryLookup resolves ISO country codes to Autotask country ids.
type CountryLookup interface {
	LookupCountryID(ctx context.Context, countryCode string) (int64, bool, error)
}

// CompanyBuilder derives Autotask write payloads from a lexoffice company.
type CompanyBuilder struct {
	countries       CountryLookup
	ownerResourceID int64
	defaultPhone    string
}

// NewCompanyBuilder creates a new CompanyBuilder. ownerResourceID is the
// Autotask resource every synced company is assigned to; defaultPhone fills
// the company phone field when lexoffice carries no business phone.
func NewCompanyBuilder(countries CountryLookup, ownerResourceID int64, defaultPhone string) *CompanyBuilder {
	return &CompanyBuilder{
		countries:       countries,
		ownerResourceID: ownerResourceID,
		defaultPhone:    defaultPhone,
	}
}

// BuildCompany maps src to an Autotask company payload. The returned errors
// are non-fatal field-level problems (failed country lookups); the payload
// stays usable with the affected fields left unset.
func (b *CompanyBuilder) BuildCompany(ctx context.Context, src *domain.Company) (*domain.AutotaskCompany, []error) {
	company := &domain.AutotaskCompany{
		CompanyType: domain.CompanyTypeCustomer,
	}

	if src.Name != "" {
		company.CompanyName = ptrString(src.Name)
	}
	if number := src.CustomerNumber(); number != "" {
		company.CompanyNumber = ptrString(number)
	}
	if b.ownerResourceID != 0 {
		company.OwnerResourceID = ptrInt64(b.ownerResourceID)
	}
	if src.TaxNumber != "" {
		company.TaxID = ptrString(src.TaxNumber)
	}

	switch {
	case len(src.BusinessPhones) > 0:
		company.Phone = ptrString(src.BusinessPhones[0])
	case b.defaultPhone != "":
		company.Phone = ptrString(b.defaultPhone)
	}
	if len(src.FaxNumbers) > 0 {
		company.Fax = ptrString(src.FaxNumbers[0])
	}

	var errs []error

	if len(src.ShippingAddresses) > 0 {
		addr := src.ShippingAddresses[0]
		if addr.Street != "" {
			company.Address1 = ptrString(addr.Street)
		}
		if addr.City != "" {
			company.City = ptrString(addr.City)
		}
		if addr.Zip != "" {
			company.PostalCode = ptrString(addr.Zip)
		}
		countryID, err := b.lookupCountry(ctx, addr.CountryCode)
		if err != nil {
			errs = append(errs, err)
		} else {
			company.CountryID = countryID
		}
	}

	if len(src.BillingAddresses) > 0 {
		addr := src.BillingAddresses[0]
		if addr.Street != "" {
			company.BillingAddress1 = ptrString(addr.Street)
		}
		if addr.City != "" {
			company.BillToCity = ptrString(addr.City)
		}
		if addr.Zip != "" {
			company.BillToZipCode = ptrString(addr.Zip)
		}
		countryID, err := b.lookupCountry(ctx, addr.CountryCode)
		if err != nil {
			errs = append(errs, err)
		} else {
			company.BillToCountryID = countryID
		}
	}

	return company, errs
}

// BuildContact maps one lexoffice contact person to an Autotask contact
// payload. Every built contact is active. isPrimary follows the caller's
// source-order decision, not the person's own primary flag.
func (b *CompanyBuilder) BuildContact(person domain.ContactPerson, isPrimary bool) *domain.AutotaskContact {
	contact := &domain.AutotaskContact{
		IsActive:       ptrInt(1),
		PrimaryContact: ptrBool(isPrimary),
	}

	if person.FirstName != "" {
		contact.FirstName = ptrString(person.FirstName)
	}
	if person.LastName != "" {
		contact.LastName = ptrString(person.LastName)
	}
	if person.EmailAddress != "" {
		contact.EmailAddress = ptrString(person.EmailAddress)
	}
	if person.PhoneNumber != "" {
		contact.Phone = ptrString(person.PhoneNumber)
	}

	return contact
}

// lookupCountry resolves a country code, returning nil when the code is
// empty or unknown to Autotask.
func (b *CompanyBuilder) lookupCountry(ctx context.Context, code string) (*int64, error) {
	if code == "" {
		return nil, nil
	}
	id, found, err := b.countries.LookupCountryID(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("country lookup for %q failed: %w", code, err)
	}
	if !found {
		return nil, nil
	}
	return &id, nil
}

func ptrString(s string) *string { return &s }
func ptrInt(i int) *int          { return &i }
func ptrInt64(i int64) *int64    { return &i }
func ptrBool(b bool) *bool       { return &b }
