/**
 * @description
 * This file contains the HTTP handler for processing incoming contact webhooks
 * from lexoffice. It acts as the entry point for all real-time contact change
 * notifications from the billing platform.
 *
 * Key features:
 * - Security: Validates the RSA signature of incoming webhooks to ensure authenticity.
 * - Parsing: Decodes the event envelope into strongly-typed Go structs.
 * - Routing: Inspects the event type to decide whether a contact sync is due.
 * - Reconciliation: Fetches the full contact from lexoffice and reconciles it
 *   into Autotask through the app layer.
 *
 * @dependencies
 * - github.com/google/uuid: Run IDs that correlate all log lines of one webhook.
 * - The service's internal packages for domain models, signature checks and the
 *   reconciliation engine.
 *
 * @notes
 * - Once the signature and payload check out, the handler always answers 200.
 *   lexoffice retries failed deliveries, but a retry cannot fix a sync failure;
 *   those are logged and resolved via the sync CLI instead.
 */
package api

import (
	"context"
	"crypto/rsa"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hupebln/autolex/internal/app"
	"github.com/hupebln/autolex/internal/domain"
	"github.com/hupebln/autolex/internal/signature"
	"github.com/hupebln/autolex/pkg/errors"
	"github.com/hupebln/autolex/pkg/logging"
)

// ContactFetcher loads a full contact from lexoffice.
type ContactFetcher interface {
	GetContact(ctx context.Context, contactID string) (*domain.Company, error)
}

// CompanySyncer reconciles one lexoffice company into Autotask.
type CompanySyncer interface {
	AssureCompany(ctx context.Context, src *domain.Company) (*app.Result, error)
}

// WebhookHandler processes incoming contact webhooks from lexoffice.
type WebhookHandler struct {
	publicKey *rsa.PublicKey
	lexoffice ContactFetcher
	syncer    CompanySyncer
}

// NewWebhookHandler creates a new handler for the webhook endpoint.
func NewWebhookHandler(publicKey *rsa.PublicKey, lexoffice ContactFetcher, syncer CompanySyncer) *WebhookHandler {
	return &WebhookHandler{
		publicKey: publicKey,
		lexoffice: lexoffice,
		syncer:    syncer,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return
	}

	if !signature.Verify(h.publicKey, r.Header.Get(signature.Header), body) {
		logging.Warn().Str("remote_addr", r.RemoteAddr).Msg("rejected webhook with invalid signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := domain.ParseWebhookEvent(body)
	if err != nil {
		logging.Warn().Err(err).Msg("rejected webhook with malformed payload")
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	runLogger := logging.With().
		Str("run_id", uuid.New().String()).
		Str("event_type", event.EventType).
		Str("contact_id", event.ResourceID).
		Logger()
	ctx := logging.WithLogger(r.Context(), &runLogger)

	switch event.EventType {
	case domain.EventContactCreated, domain.EventContactChanged:
		runLogger.Info().Msg("webhook received")
		h.syncContact(ctx, event.ResourceID)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Webhook received!"))
	default:
		runLogger.Warn().Msg("unhandled webhook event type")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Webhook received, but not processed!"))
	}
}

// syncContact drives one reconciliation run. Failures are logged but never
// surface to the webhook response; a lexoffice redelivery cannot fix them.
func (h *WebhookHandler) syncContact(ctx context.Context, contactID string) {
	logger := logging.FromContext(ctx)

	company, err := h.lexoffice.GetContact(ctx, contactID)
	if err != nil {
		if errors.IsNotCompany(err) {
			logger.Info().Msg("contact is a person, nothing to synchronize")
			return
		}
		logger.Error().Err(err).Msg("failed to fetch contact from lexoffice")
		return
	}

	result, err := h.syncer.AssureCompany(ctx, company)
	if err != nil {
		logger.Error().Err(err).Msg("failed to synchronize company")
		return
	}

	logEvent := logger.Info().
		Str("customer_number", result.CustomerNumber).
		Int64("company_id", result.CompanyID).
		Str("action", string(result.Action)).
		Int("contacts_created", result.ContactsCreated).
		Int("contacts_updated", result.ContactsUpdated).
		Int("contacts_deleted", result.ContactsDeleted)
	if result.Failed() {
		logEvent = logEvent.Int("errors", len(result.Errors))
	}
	logEvent.Msg("company synchronized")
}
