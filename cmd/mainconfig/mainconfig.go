package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"
	appconfig "github.com/vitornegrao/minha-landing-page/internal/config"
	"github.com/vitornegrao/minha-landing-page/internal/notify"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so every binary shares
// the same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

// NewSESClient builds an SES v2 client, honoring AWS_ENDPOINT_OVERRIDE.
func NewSESClient(ctx context.Context, cfg *appconfig.Config) (*sesv2.Client, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewRedisClient returns nil when REDIS_ADDR is unset.
func NewRedisClient(cfg *appconfig.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

// BuildLeadNotifier selects the notification channel named by NOTIFY_PROVIDER.
func BuildLeadNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.LeadNotifier, error) {
	switch cfg.NotifyProvider {
	case appconfig.NotifyFormSubmit:
		n := notify.NewFormSubmitNotifier(notify.FormSubmitConfig{
			BaseURL: cfg.FormSubmitURL,
			Mailbox: cfg.NotifyMailbox,
			Timeout: cfg.NotifyTimeout,
		}, logger)
		logger.Info("lead notifications via formsubmit", "endpoint", n.Endpoint())
		return n, nil
	case appconfig.NotifySendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		logger.Info("lead notifications via sendgrid", "to", cfg.NotifyMailbox)
		return notify.NewEmailLeadNotifier(sender, cfg.NotifyMailbox, logger), nil
	case appconfig.NotifySES:
		client, err := NewSESClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sender := notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		logger.Info("lead notifications via ses", "to", cfg.NotifyMailbox, "region", cfg.AWSRegion)
		return notify.NewEmailLeadNotifier(sender, cfg.NotifyMailbox, logger), nil
	case appconfig.NotifyStub:
		logger.Warn("lead notifications use the stub sender; nothing leaves this process")
		return notify.NewEmailLeadNotifier(notify.NewStubEmailSender(logger), cfg.NotifyMailbox, logger), nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.NotifyProvider)
	}
}
