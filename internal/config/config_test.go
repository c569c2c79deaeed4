package config

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/viper"

	apperrors "github.com/hupebln/autolex/pkg/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "PORT")
	unsetEnvWithCleanup(t, "LEXOFFICE_BASE_URL")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8000" {
		t.Fatalf("expected default ServerPort 8000, got %q", cfg.ServerPort)
	}
	if cfg.LexofficeBaseURL != "https://api.lexoffice.io/v1" {
		t.Fatalf("expected the public lexoffice API as default base URL, got %q", cfg.LexofficeBaseURL)
	}
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "LEXOFFICE_API_KEY", "lx-key")
	setEnvWithCleanup(t, "AUTOTASK_API_USERNAME", "api-user@example.org")
	setEnvWithCleanup(t, "AUTOTASK_OWNER_RESOURCE_ID", "29683481")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.LexofficeAPIKey != "lx-key" {
		t.Fatalf("expected LexofficeAPIKey from env, got %q", cfg.LexofficeAPIKey)
	}
	if cfg.AutotaskUsername != "api-user@example.org" {
		t.Fatalf("expected AutotaskUsername from env, got %q", cfg.AutotaskUsername)
	}
	if cfg.AutotaskOwnerResourceID != 29683481 {
		t.Fatalf("expected AutotaskOwnerResourceID 29683481, got %d", cfg.AutotaskOwnerResourceID)
	}
}

func TestLoadConfig_PortOverridesServerPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SERVER_PORT", "8000")
	setEnvWithCleanup(t, "PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected PORT to override ServerPort, got %q", cfg.ServerPort)
	}
}

func TestValidate_ReportsMissingSetting(t *testing.T) {
	cfg := validConfig()
	cfg.AutotaskSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error for the missing secret")
	}
	var configErr *apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected a ConfigError, got %T", err)
	}
	if configErr.Field != "AUTOTASK_API_SECRET" {
		t.Fatalf("expected AUTOTASK_API_SECRET to be reported, got %q", configErr.Field)
	}
}

func TestValidate_RequiresOwnerResourceID(t *testing.T) {
	cfg := validConfig()
	cfg.AutotaskOwnerResourceID = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected a validation error for the zero owner resource id")
	}
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected a complete config to validate, got %v", err)
	}
}

func validConfig() Config {
	return Config{
		ServerPort:              "8000",
		LexofficeBaseURL:        "https://api.lexoffice.io/v1",
		LexofficeAPIKey:         "lx-key",
		LexofficePubkeyPath:     "public_key.pem",
		AutotaskBaseURL:         "https://webservices2.autotask.net/ATServicesRest/V1.0",
		AutotaskUsername:        "api-user@example.org",
		AutotaskSecret:          "secret",
		AutotaskIntegrationCode: "INTEGRATION",
		AutotaskOwnerResourceID: 29683481,
		AutotaskDefaultPhone:    "030 000000",
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
