/**
 * @description
 * This file defines the Go structs that model Autotask company and contact
 * entities. Write payloads use pointer fields so that only attributes with a
 * defined value are transmitted; query results use plain fields because
 * Autotask returns complete records.
 *
 * @notes
 * - An unset pointer field is omitted from the JSON entirely. This matters
 *   for PATCH requests: transmitting a null would overwrite data in Autotask
 *   that the lexoffice side knows nothing about.
 * - CompanyType is always transmitted. Every company managed by this service
 *   is a customer (type 1).
 */
package domain

// CompanyTypeCustomer is the Autotask company type for customers.
const CompanyTypeCustomer = 1

// AutotaskCompany is a company write payload for POST/PATCH /Companies.
type AutotaskCompany struct {
	ID              *int64  `json:"id,omitempty"`
	CompanyName     *string `json:"companyName,omitempty"`
	CompanyNumber   *string `json:"companyNumber,omitempty"`
	CompanyType     int     `json:"companyType"`
	OwnerResourceID *int64  `json:"ownerResourceID,omitempty"`
	TaxID           *string `json:"taxID,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Fax             *string `json:"fax,omitempty"`
	Address1        *string `json:"address1,omitempty"`
	City            *string `json:"city,omitempty"`
	PostalCode      *string `json:"postalCode,omitempty"`
	CountryID       *int64  `json:"countryID,omitempty"`
	BillingAddress1 *string `json:"billingAddress1,omitempty"`
	BillToCity      *string `json:"billToCity,omitempty"`
	BillToZipCode   *string `json:"billToZipCode,omitempty"`
	BillToCountryID *int64  `json:"billToCountryID,omitempty"`
}

// AutotaskContact is a contact write payload for POST/PATCH
// /Companies/{id}/Contacts. IsActive and PrimaryContact are always set by
// the builder: Autotask keeps the previous value for omitted fields, and a
// formerly primary contact must be demoted explicitly.
type AutotaskContact struct {
	ID             *int64  `json:"id,omitempty"`
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	EmailAddress   *string `json:"emailAddress,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	IsActive       *int    `json:"isActive,omitempty"`
	PrimaryContact *bool   `json:"primaryContact,omitempty"`
}

// AutotaskCompanyRecord is a company as returned by Autotask queries.
type AutotaskCompanyRecord struct {
	ID            int64  `json:"id"`
	CompanyName   string `json:"companyName"`
	CompanyNumber string `json:"companyNumber"`
	CompanyType   int    `json:"companyType"`
}

// AutotaskContactRecord is a contact as returned by Autotask queries.
type AutotaskContactRecord struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	EmailAddress   string `json:"emailAddress"`
	Phone          string `json:"phone"`
	IsActive       int    `json:"isActive"`
	PrimaryContact bool   `json:"primaryContact"`
}

// Country is an entry of Autotask's country table.
type Country struct {
	ID          int64  `json:"id"`
	CountryCode string `json:"countryCode"`
	DisplayName string `json:"displayName"`
}
