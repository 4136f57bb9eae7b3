package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv populates every required secret; individual tests
// blank out the one under test.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_SECRET_KEY", "env-secret")
	t.Setenv("BOT_EMAIL", "bot@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
}

func TestLoadConfigFromEnvOnly(t *testing.T) {
	// no config file in this directory: everything comes from env
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.AppSecretKey)
	assert.Equal(t, "bot@example.com", cfg.BotEmail)
	assert.Equal(t, "app-password", cfg.EmailPassword)

	// defaulted keys are filled in
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadConfigMissingSecrets(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{name: "Missing session secret", missing: "APP_SECRET_KEY"},
		{name: "Missing bot email", missing: "BOT_EMAIL"},
		{name: "Missing email password", missing: "EMAIL_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.missing, "")

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoadConfigEnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "blog_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "blog_test", cfg.DBName)
}
