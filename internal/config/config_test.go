package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, NotifyFormSubmit, cfg.NotifyProvider)
	assert.Equal(t, "vitornegraorocha@gmail.com", cfg.NotifyMailbox)
	assert.Equal(t, "https://formsubmit.co/ajax", cfg.FormSubmitURL)
	assert.Equal(t, 30*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 12*time.Hour, cfg.AdminSessionTTL)
	assert.Equal(t, 5, cfg.FormRateBurst)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NOTIFY_PROVIDER", " SES ")
	t.Setenv("SES_FROM_EMAIL", "leads@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ADMIN_SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, NotifySES, cfg.NotifyProvider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.AdminSessionTTL)
}

func TestValidateRejectsIncompleteProviders(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown provider", cfg: Config{NotifyProvider: "pigeon", FormRateBurst: 1}},
		{name: "sendgrid without key", cfg: Config{NotifyProvider: NotifySendGrid, FormRateBurst: 1}},
		{name: "ses without sender", cfg: Config{NotifyProvider: NotifySES, FormRateBurst: 1}},
		{name: "formsubmit without mailbox", cfg: Config{NotifyProvider: NotifyFormSubmit, FormRateBurst: 1}},
		{name: "zero burst", cfg: Config{NotifyProvider: NotifyStub}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "Production"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
}
