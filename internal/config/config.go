package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Notification providers accepted by NOTIFY_PROVIDER.
const (
	NotifyFormSubmit = "formsubmit"
	NotifySendGrid   = "sendgrid"
	NotifySES        = "ses"
	NotifyStub       = "stub"
)

// Config holds application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisTLS      bool   `env:"REDIS_TLS" envDefault:"false"`

	// Lead notification
	NotifyProvider string        `env:"NOTIFY_PROVIDER" envDefault:"formsubmit"`
	FormSubmitURL  string        `env:"FORMSUBMIT_URL" envDefault:"https://formsubmit.co/ajax"`
	NotifyMailbox  string        `env:"NOTIFY_MAILBOX" envDefault:"vitornegraorocha@gmail.com"`
	NotifyTimeout  time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"30s"`

	// SendGrid Email Configuration
	SendGridAPIKey    string `env:"SENDGRID_API_KEY"`
	SendGridFromEmail string `env:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `env:"SENDGRID_FROM_NAME" envDefault:"Gestor de Tráfego"`

	// AWS SES Configuration
	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpointOverride string `env:"AWS_ENDPOINT_OVERRIDE"`
	SESFromEmail        string `env:"SES_FROM_EMAIL"`

	// Admin panel
	AdminJWTSecret  string        `env:"ADMIN_JWT_SECRET"`
	AdminSessionTTL time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"12h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	FormRateLimit      float64  `env:"FORM_RATE_LIMIT" envDefault:"0.2"`
	FormRateBurst      int      `env:"FORM_RATE_BURST" envDefault:"5"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.NotifyProvider = strings.ToLower(strings.TrimSpace(cfg.NotifyProvider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.NotifyProvider {
	case NotifyFormSubmit:
		if strings.TrimSpace(c.NotifyMailbox) == "" {
			return fmt.Errorf("config: NOTIFY_MAILBOX is required for %s", NotifyFormSubmit)
		}
	case NotifySendGrid:
		if c.SendGridAPIKey == "" || c.SendGridFromEmail == "" {
			return fmt.Errorf("config: SENDGRID_API_KEY and SENDGRID_FROM_EMAIL are required for %s", NotifySendGrid)
		}
	case NotifySES:
		if c.SESFromEmail == "" {
			return fmt.Errorf("config: SES_FROM_EMAIL is required for %s", NotifySES)
		}
	case NotifyStub:
	default:
		return fmt.Errorf("config: unknown NOTIFY_PROVIDER %q", c.NotifyProvider)
	}
	if c.FormRateBurst < 1 {
		return fmt.Errorf("config: FORM_RATE_BURST must be at least 1")
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}
