/**
 * @description
 * This file contains the reconciliation engine: the decision logic that keeps
 * one Autotask company and its contact list in step with a lexoffice company
 * record. It is the only part of the service that makes write decisions.
 *
 * @dependencies
 * - context, fmt: Standard Go libraries.
 * - github.com/hupebln/autolex/internal/domain: Source and target entity structs.
 * - github.com/hupebln/autolex/pkg/errors: Typed reconciliation errors.
 * - github.com/hupebln/autolex/pkg/logging: Run-scoped structured logging.
 *
 * @notes
 * - Matching is keyed on the lexoffice customer number stored in Autotask's
 *   companyNumber field. Zero matches create, one match updates, several
 *   matches abort with no write at all: ambiguity is never resolved by guessing.
 * - Contact convergence is keyed on email address only. Deletions run first,
 *   then updates and creates in source order, so a reused address never
 *   collides with a contact that is about to disappear. A contact whose
 *   email changed is deleted and recreated, not updated.
 * - A failure on a single contact is recorded in the Result and does not
 *   stop the remaining contacts. Nothing is transactional across calls;
 *   a re-delivered webhook converges the remainder.
 */
package app

import (
	"context"
	"fmt"

	"github.com/hupebln/autolex/internal/domain"
	"github.com/hupebln/autolex/pkg/errors"
	"github.com/hupebln/autolex/pkg/logging"
)

// AutotaskAPI is the surface of the Autotask client the engine depends on.
type AutotaskAPI interface {
	QueryCompaniesByNumber(ctx context.Context, number string) ([]domain.AutotaskCompanyRecord, error)
	CreateCompany(ctx context.Context, company *domain.AutotaskCompany) (int64, error)
	UpdateCompany(ctx context.Context, company *domain.AutotaskCompany) error
	ListContacts(ctx context.Context, companyID int64) ([]domain.AutotaskContactRecord, error)
	CreateContact(ctx context.Context, companyID int64, contact *domain.AutotaskContact) (int64, error)
	UpdateContact(ctx context.Context, companyID int64, contact *domain.AutotaskContact) error
	DeleteContact(ctx context.Context, companyID, contactID int64) error
	LookupCountryID(ctx context.Context, countryCode string) (int64, bool, error)
}

// Action describes what a reconciliation run did to the company record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Result summarizes one reconciliation run.
type Result struct {
	CustomerNumber  string
	CompanyID       int64
	Action          Action
	ContactsCreated int
	ContactsUpdated int
	ContactsDeleted int

	// Errors collects the non-fatal failures of the run: field lookups and
	// single-contact operations that failed while the run carried on.
	Errors []error
}

// Failed reports whether any non-fatal error was recorded during the run.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Reconciler drives company and contact reconciliation against Autotask.
// One run is synchronous and sequential; concurrent runs for different
// customer numbers are independent, overlapping runs for the same number
// are not coordinated and must be serialized by the caller if required.
type Reconciler struct {
	autotask AutotaskAPI
	builder  *CompanyBuilder
}

// NewReconciler creates a new Reconciler.
func NewReconciler(autotask AutotaskAPI, builder *CompanyBuilder) *Reconciler {
	return &Reconciler{
		autotask: autotask,
		builder:  builder,
	}
}

// AssureCompany ensures that Autotask carries exactly one company for the
// customer number of src, with company fields and contacts matching the
// lexoffice record. A non-nil error means the company-level operation did
// not complete: missing customer number, ambiguous match, or a failed
// company query or write. Failures on individual contacts are collected in
// the Result instead, so one bad contact never blocks the rest.
func (r *Reconciler) AssureCompany(ctx context.Context, src *domain.Company) (*Result, error) {
	log := logging.FromContext(ctx)

	number := src.CustomerNumber()
	if number == "" {
		return nil, errors.NewMissingJoinKeyError(src.ID)
	}

	matches, err := r.autotask.QueryCompaniesByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies for customer number %s: %w", number, err)
	}

	switch len(matches) {
	case 0:
		log.Debug().Str("customer_number", number).Msg("no Autotask company found, creating")
		return r.createCompany(ctx, src, number)
	case 1:
		log.Debug().Str("customer_number", number).Int64("company_id", matches[0].ID).Msg("Autotask company found, updating")
		return r.updateCompany(ctx, src, number, matches[0].ID)
	default:
		ids := make([]int64, 0, len(matches))
		for _, match := range matches {
			ids = append(ids, match.ID)
		}
		return nil, errors.NewAmbiguousMatchError(number, ids)
	}
}

// createCompany creates the company and all its contacts in source order.
func (r *Reconciler) createCompany(ctx context.Context, src *domain.Company, number string) (*Result, error) {
	log := logging.FromContext(ctx)
	result := &Result{CustomerNumber: number, Action: ActionCreated}

	company := r.buildCompany(ctx, src, result)

	companyID, err := r.autotask.CreateCompany(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("failed to create company for customer number %s: %w", number, err)
	}
	result.CompanyID = companyID
	log.Info().Int64("company_id", companyID).Str("customer_number", number).Msg("company created")

	for i, person := range src.ContactPersons {
		contact := r.builder.BuildContact(person, i == 0)
		if _, err := r.autotask.CreateContact(ctx, companyID, contact); err != nil {
			log.Warn().Err(err).Str("email", person.EmailAddress).Msg("failed to create contact")
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ContactsCreated++
	}

	return result, nil
}

// updateCompany patches the company and converges its contact list.
func (r *Reconciler) updateCompany(ctx context.Context, src *domain.Company, number string, companyID int64) (*Result, error) {
	log := logging.FromContext(ctx)
	result := &Result{CustomerNumber: number, CompanyID: companyID, Action: ActionUpdated}

	company := r.buildCompany(ctx, src, result)
	company.ID = &companyID

	if err := r.autotask.UpdateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company %d: %w", companyID, err)
	}
	log.Info().Int64("company_id", companyID).Str("customer_number", number).Msg("company updated")

	if err := r.syncContacts(ctx, src, companyID, result); err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("contact sync aborted")
		result.Errors = append(result.Errors, err)
	}

	return result, nil
}

// buildCompany runs the builder and records its non-fatal field errors.
func (r *Reconciler) buildCompany(ctx context.Context, src *domain.Company, result *Result) *domain.AutotaskCompany {
	log := logging.FromContext(ctx)

	company, buildErrs := r.builder.BuildCompany(ctx, src)
	for _, err := range buildErrs {
		log.Warn().Err(err).Msg("company field left unset")
	}
	result.Errors = append(result.Errors, buildErrs...)

	return company
}

// syncContacts converges the Autotask contact list on the lexoffice contact
// persons: delete stale contacts, then update or create in source order with
// the first source contact as the only primary.
func (r *Reconciler) syncContacts(ctx context.Context, src *domain.Company, companyID int64, result *Result) error {
	log := logging.FromContext(ctx)

	existing, err := r.autotask.ListContacts(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to list contacts of company %d: %w", companyID, err)
	}

	byEmail := make(map[string]int64, len(existing))
	for _, contact := range existing {
		byEmail[contact.EmailAddress] = contact.ID
	}

	wanted := make(map[string]bool, len(src.ContactPersons))
	for _, person := range src.ContactPersons {
		wanted[person.EmailAddress] = true
	}

	for _, contact := range existing {
		if wanted[contact.EmailAddress] {
			continue
		}
		if err := r.autotask.DeleteContact(ctx, companyID, contact.ID); err != nil {
			log.Warn().Err(err).Str("email", contact.EmailAddress).Msg("failed to delete contact")
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ContactsDeleted++
	}

	for i, person := range src.ContactPersons {
		contact := r.builder.BuildContact(person, i == 0)

		if contactID, ok := byEmail[person.EmailAddress]; ok {
			contact.ID = &contactID
			if err := r.autotask.UpdateContact(ctx, companyID, contact); err != nil {
				log.Warn().Err(err).Str("email", person.EmailAddress).Msg("failed to update contact")
				result.Errors = append(result.Errors, err)
				continue
			}
			result.ContactsUpdated++
			continue
		}

		if _, err := r.autotask.CreateContact(ctx, companyID, contact); err != nil {
			log.Warn().Err(err).Str("email", person.EmailAddress).Msg("failed to create contact")
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ContactsCreated++
	}

	return nil
}
