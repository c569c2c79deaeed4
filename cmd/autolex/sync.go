/**
 * @description
 * The sync command runs a single reconciliation from the command line. It is
 * the recovery path for webhooks whose processing failed: the operator fixes
 * the cause and replays the contact by ID.
 */
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupebln/autolex/pkg/errors"
	"github.com/hupebln/autolex/pkg/logging"
)

var syncContactID string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize a single lexoffice contact into Autotask",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncContactID, "contact-id", "", "the ID of the contact to synchronize")
	_ = syncCmd.MarkFlagRequired("contact-id")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lexoffice, reconciler := buildClients(cfg)
	ctx := cmd.Context()

	company, err := lexoffice.GetContact(ctx, syncContactID)
	if err != nil {
		if errors.IsNotCompany(err) {
			logging.Info().Str("contact_id", syncContactID).Msg("contact is a person, nothing to synchronize")
			return nil
		}
		return fmt.Errorf("failed to fetch contact %s: %w", syncContactID, err)
	}

	result, err := reconciler.AssureCompany(ctx, company)
	if err != nil {
		return fmt.Errorf("failed to synchronize contact %s: %w", syncContactID, err)
	}

	logging.Info().
		Str("contact_id", syncContactID).
		Str("customer_number", result.CustomerNumber).
		Int64("company_id", result.CompanyID).
		Str("action", string(result.Action)).
		Int("contacts_created", result.ContactsCreated).
		Int("contacts_updated", result.ContactsUpdated).
		Int("contacts_deleted", result.ContactsDeleted).
		Msg("company synchronized")

	if result.Failed() {
		return fmt.Errorf("synchronization finished with %d isolated failures", len(result.Errors))
	}
	return nil
}
