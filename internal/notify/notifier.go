package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

// LeadNotifier tells a human operator that a lead arrived.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, payload NotificationPayload) error
}

// FormSubmitNotifier posts the payload to a FormSubmit AJAX endpoint, which
// relays it to a fixed mailbox.
type FormSubmitNotifier struct {
	client   *resty.Client
	endpoint string
	logger   *logging.Logger
}

// FormSubmitConfig holds configuration for FormSubmit.
type FormSubmitConfig struct {
	BaseURL string
	Mailbox string
	Timeout time.Duration
}

// NewFormSubmitNotifier creates a notifier for cfg.Mailbox.
func NewFormSubmitNotifier(cfg FormSubmitConfig, logger *logging.Logger) *FormSubmitNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &FormSubmitNotifier{
		client:   client,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Mailbox,
		logger:   logger,
	}
}

// Endpoint returns the address the notifier posts to.
func (n *FormSubmitNotifier) Endpoint() string { return n.endpoint }

// NotifyLead sends the payload. Any non-2xx status is a failure; the
// response body is ignored.
func (n *FormSubmitNotifier) NotifyLead(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(n.endpoint)
	if err != nil {
		n.logger.Error("formsubmit request failed", "error", err)
		return fmt.Errorf("notify: formsubmit request failed: %w", err)
	}
	if !resp.IsSuccess() {
		n.logger.Error("formsubmit returned error status", "status", resp.StatusCode())
		return fmt.Errorf("notify: formsubmit returned status %d", resp.StatusCode())
	}

	n.logger.Info("lead notification sent via formsubmit", "subject", payload.Subject(), "status", resp.StatusCode())
	return nil
}

// EmailLeadNotifier renders the payload as an email and hands it to an
// EmailSender (SendGrid, SES or the stub).
type EmailLeadNotifier struct {
	sender EmailSender
	to     string
	toName string
	logger *logging.Logger
}

// NewEmailLeadNotifier creates a notifier delivering to the operator mailbox.
func NewEmailLeadNotifier(sender EmailSender, to string, logger *logging.Logger) *EmailLeadNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailLeadNotifier{
		sender: sender,
		to:     to,
		toName: "Gestor de Tráfego",
		logger: logger,
	}
}

// NotifyLead renders and sends the notice. Replies go to the lead.
func (n *EmailLeadNotifier) NotifyLead(ctx context.Context, payload NotificationPayload) error {
	if n.sender == nil {
		return fmt.Errorf("notify: email sender not configured")
	}
	msg := EmailMessage{
		To:      n.to,
		ToName:  n.toName,
		ReplyTo: payload.Fields().Email,
		Subject: payload.Subject(),
		Body:    RenderText(payload),
		HTML:    RenderHTML(payload),
	}
	return n.sender.Send(ctx, msg)
}

var (
	_ LeadNotifier = (*FormSubmitNotifier)(nil)
	_ LeadNotifier = (*EmailLeadNotifier)(nil)
)
