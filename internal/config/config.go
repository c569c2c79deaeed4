/**
 * @description
 * This package handles the configuration management for autolex. It uses the
 * Viper library to read an optional .env file and environment variables,
 * providing a centralized way to manage the lexoffice API access, the webhook
 * signature key and the Autotask REST credentials.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 *
 * @notes
 * - PORT overrides SERVER_PORT for platforms that inject their own port.
 * - Validate reports the first missing required setting so a misconfigured
 *   deployment fails at startup instead of on the first webhook.
 */

package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/hupebln/autolex/pkg/errors"
	"github.com/hupebln/autolex/pkg/logging"
)

// Config holds all the configuration variables for autolex.
// These values are loaded from environment variables.
type Config struct {
	ServerPort              string `mapstructure:"SERVER_PORT"`
	LexofficeBaseURL        string `mapstructure:"LEXOFFICE_BASE_URL"`
	LexofficeAPIKey         string `mapstructure:"LEXOFFICE_API_KEY"`
	LexofficePubkeyPath     string `mapstructure:"LEXOFFICE_PUBKEY_PATH"`
	AutotaskBaseURL         string `mapstructure:"AUTOTASK_BASE_URL"`
	AutotaskUsername        string `mapstructure:"AUTOTASK_API_USERNAME"`
	AutotaskSecret          string `mapstructure:"AUTOTASK_API_SECRET"`
	AutotaskIntegrationCode string `mapstructure:"AUTOTASK_API_INTEGRATION_CODE"`
	AutotaskOwnerResourceID int64  `mapstructure:"AUTOTASK_OWNER_RESOURCE_ID"`
	AutotaskDefaultPhone    string `mapstructure:"AUTOTASK_DEFAULT_PHONE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("LEXOFFICE_BASE_URL", "https://api.lexoffice.io/v1")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("LEXOFFICE_BASE_URL")
	_ = viper.BindEnv("LEXOFFICE_API_KEY")
	_ = viper.BindEnv("LEXOFFICE_PUBKEY_PATH")
	_ = viper.BindEnv("AUTOTASK_BASE_URL")
	_ = viper.BindEnv("AUTOTASK_API_USERNAME")
	_ = viper.BindEnv("AUTOTASK_API_SECRET")
	_ = viper.BindEnv("AUTOTASK_API_INTEGRATION_CODE")
	_ = viper.BindEnv("AUTOTASK_OWNER_RESOURCE_ID")
	_ = viper.BindEnv("AUTOTASK_DEFAULT_PHONE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logging.Warn().Err(err).Msg("failed to read config file; using environment values")
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.LexofficeBaseURL = strings.TrimSpace(config.LexofficeBaseURL)
	config.AutotaskBaseURL = strings.TrimSpace(config.AutotaskBaseURL)

	return config, nil
}

// Validate checks that every setting the service cannot run without is present.
func (c Config) Validate() error {
	if c.LexofficeBaseURL == "" {
		return errors.NewConfigError("LEXOFFICE_BASE_URL", "must be set")
	}
	if c.LexofficeAPIKey == "" {
		return errors.NewConfigError("LEXOFFICE_API_KEY", "must be set")
	}
	if c.LexofficePubkeyPath == "" {
		return errors.NewConfigError("LEXOFFICE_PUBKEY_PATH", "must point to the lexoffice webhook public key")
	}
	if c.AutotaskBaseURL == "" {
		return errors.NewConfigError("AUTOTASK_BASE_URL", "must be set")
	}
	if c.AutotaskUsername == "" {
		return errors.NewConfigError("AUTOTASK_API_USERNAME", "must be set")
	}
	if c.AutotaskSecret == "" {
		return errors.NewConfigError("AUTOTASK_API_SECRET", "must be set")
	}
	if c.AutotaskIntegrationCode == "" {
		return errors.NewConfigError("AUTOTASK_API_INTEGRATION_CODE", "must be set")
	}
	if c.AutotaskOwnerResourceID == 0 {
		return errors.NewConfigError("AUTOTASK_OWNER_RESOURCE_ID", "must be a non-zero Autotask resource id")
	}
	return nil
}
