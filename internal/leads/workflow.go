package leads

import (
	"context"
	"errors"

	"github.com/vitornegrao/minha-landing-page/internal/notify"
	"github.com/vitornegrao/minha-landing-page/internal/observability/metrics"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var leadsTracer = otel.Tracer("landing.internal.leads")

// ChannelResult is the result of one delivery attempt. Err is nil on success.
type ChannelResult struct {
	Err error
}

// OK reports whether the attempt succeeded.
func (r ChannelResult) OK() bool { return r.Err == nil }

// Outcome describes a submission that passed validation.
type Outcome struct {
	Record       Record
	Lead         *Lead // stored lead; nil when persistence failed
	Persistence  ChannelResult
	Notification ChannelResult
}

// Delivered reports whether at least one channel got the lead through.
func (o *Outcome) Delivered() bool {
	return o.Persistence.OK() || o.Notification.OK()
}

// Submitter runs the lead submission workflow: validate, store, notify.
type Submitter struct {
	repo     Repository
	notifier notify.LeadNotifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewSubmitter wires the workflow. metrics may be nil.
func NewSubmitter(repo Repository, notifier notify.LeadNotifier, m *metrics.LeadMetrics, logger *logging.Logger) *Submitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Submit validates sub and, if it is valid, stores it and notifies the
// operator. Both channels are always attempted; a failure in one is
// recorded in the Outcome and does not stop the other.
//
// Errors: *ValidationError when the input is invalid (no network call is
// made); ErrDeliveryFailed, with the Outcome, when both channels failed.
// Nothing is retried or deduplicated.
func (s *Submitter) Submit(ctx context.Context, sub Submission, attr Attribution) (*Outcome, error) {
	validated, fieldErrs := Validate(sub)
	if len(fieldErrs) > 0 {
		s.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		return nil, &ValidationError{Fields: fieldErrs}
	}

	ctx, span := leadsTracer.Start(ctx, "leads.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("landing.lead.channel", validated.Channel),
		attribute.Bool("landing.lead.attributed", !attr.IsEmpty()),
	)

	outcome := &Outcome{Record: ResolveAttribution(validated, attr)}
	outcome.Lead, outcome.Persistence = s.persist(ctx, &outcome.Record)
	outcome.Notification = s.notify(ctx, validated, attr, outcome.Persistence)

	if !outcome.Delivered() {
		s.logger.Error("lead submission failed on every channel",
			"email", validated.Email,
			"persistence_error", outcome.Persistence.Err,
			"notification_error", outcome.Notification.Err,
		)
		span.SetStatus(codes.Error, "delivery failed")
		s.metrics.ObserveSubmission(metrics.OutcomeDeliveryFailed)
		return outcome, ErrDeliveryFailed
	}

	s.logger.Info("lead submitted",
		"email", validated.Email,
		"utm_source", outcome.Record.UTMSource,
		"persisted", outcome.Persistence.OK(),
		"notified", outcome.Notification.OK(),
	)
	s.metrics.ObserveSubmission(metrics.OutcomeDelivered)
	return outcome, nil
}

func (s *Submitter) persist(ctx context.Context, rec *Record) (*Lead, ChannelResult) {
	ctx, span := leadsTracer.Start(ctx, "leads.persist", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var (
		lead *Lead
		err  error
	)
	if s.repo == nil {
		err = ErrRepositoryUnavailable
	} else {
		lead, err = s.repo.Insert(ctx, rec)
	}
	s.metrics.ObserveChannel(metrics.ChannelPersistence, err == nil)
	if err != nil {
		s.logger.Error("lead insert failed", "error", err, "email", rec.Email)
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, ChannelResult{Err: &PersistenceError{Err: err}}
	}
	span.SetAttributes(attribute.String("landing.lead.id", lead.ID))
	return lead, ChannelResult{}
}

func (s *Submitter) notify(ctx context.Context, v Validated, attr Attribution, persisted ChannelResult) ChannelResult {
	ctx, span := leadsTracer.Start(ctx, "leads.notify", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	fields := notificationFields(v, attr)
	payload := notify.NewLeadPayload(fields)
	if !persisted.OK() {
		payload = notify.NewUnsavedLeadPayload(fields, persistenceReason(persisted.Err))
	}
	span.SetAttributes(attribute.String("landing.notify.subject", payload.Subject()))

	var err error
	if s.notifier == nil {
		err = ErrNotifierUnavailable
	} else {
		err = s.notifier.NotifyLead(ctx, payload)
	}
	s.metrics.ObserveChannel(metrics.ChannelNotification, err == nil)
	if err != nil {
		s.logger.Error("lead notification failed", "error", err, "email", v.Email)
		span.RecordError(err)
		span.SetStatus(codes.Error, "notification failed")
		return ChannelResult{Err: &NotificationError{Err: err}}
	}
	return ChannelResult{}
}

// persistenceReason is the storage error text quoted to the operator.
func persistenceReason(err error) string {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
