package mainconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appconfig "github.com/vitornegrao/minha-landing-page/internal/config"
	"github.com/vitornegrao/minha-landing-page/internal/notify"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

func TestBuildLeadNotifierFormSubmit(t *testing.T) {
	cfg := &appconfig.Config{
		NotifyProvider: appconfig.NotifyFormSubmit,
		FormSubmitURL:  "https://formsubmit.co/ajax/",
		NotifyMailbox:  "ops@example.com",
	}

	n, err := BuildLeadNotifier(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)

	fs, ok := n.(*notify.FormSubmitNotifier)
	require.True(t, ok, "expected FormSubmitNotifier, got %T", n)
	assert.Equal(t, "https://formsubmit.co/ajax/ops@example.com", fs.Endpoint())
}

func TestBuildLeadNotifierEmailProviders(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	for _, provider := range []string{appconfig.NotifySendGrid, appconfig.NotifySES, appconfig.NotifyStub} {
		t.Run(provider, func(t *testing.T) {
			cfg := &appconfig.Config{
				NotifyProvider:     provider,
				NotifyMailbox:      "ops@example.com",
				SendGridAPIKey:     "SG.test",
				SendGridFromEmail:  "noreply@example.com",
				SESFromEmail:       "noreply@example.com",
				AWSRegion:          "us-east-1",
				AWSAccessKeyID:     "test",
				AWSSecretAccessKey: "test",
			}

			n, err := BuildLeadNotifier(context.Background(), cfg, logging.New("error"))
			require.NoError(t, err)
			assert.IsType(t, &notify.EmailLeadNotifier{}, n)
		})
	}
}

func TestBuildLeadNotifierUnknownProvider(t *testing.T) {
	_, err := BuildLeadNotifier(context.Background(), &appconfig.Config{NotifyProvider: "pigeon"}, logging.New("error"))
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	assert.Nil(t, NewRedisClient(&appconfig.Config{}))

	client := NewRedisClient(&appconfig.Config{RedisAddr: "localhost:6379", RedisTLS: true})
	require.NotNil(t, client)
	defer client.Close()
	assert.NotNil(t, client.Options().TLSConfig)
}
