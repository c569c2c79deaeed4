/**
 * @description
 * This is the main entry point for autolex. It wires the cobra CLI, loads the
 * optional .env file before any command reads its configuration, and provides
 * the client wiring shared by the serve and sync commands.
 */
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupebln/autolex/internal/app"
	"github.com/hupebln/autolex/internal/config"
	"github.com/hupebln/autolex/pkg/autotaskclient"
	"github.com/hupebln/autolex/pkg/lexofficeclient"
)

var rootCmd = &cobra.Command{
	Use:   "autolex",
	Short: "Synchronize lexoffice contacts into Autotask",
	Long: `autolex mirrors lexoffice company contacts into Autotask.

It listens for lexoffice contact webhooks and reconciles the affected
company and its contact persons into Autotask, or runs a single
reconciliation from the command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
}

// loadConfig loads and validates the configuration for a command run.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildClients creates the lexoffice client and the reconciliation engine
// both commands run on.
func buildClients(cfg config.Config) (*lexofficeclient.Client, *app.Reconciler) {
	lexoffice := lexofficeclient.NewClient(cfg.LexofficeBaseURL, cfg.LexofficeAPIKey)
	autotask := autotaskclient.NewClient(cfg.AutotaskBaseURL, cfg.AutotaskUsername, cfg.AutotaskSecret, cfg.AutotaskIntegrationCode)
	builder := app.NewCompanyBuilder(autotask, cfg.AutotaskOwnerResourceID, cfg.AutotaskDefaultPhone)
	return lexoffice, app.NewReconciler(autotask, builder)
}

func main() {
	// Load the optional .env file before any command reads its configuration.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
