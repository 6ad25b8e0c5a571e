package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes recorded by LeadMetrics.
const (
	OutcomeInvalid        = "validation_failed"
	OutcomeDelivered      = "delivered"
	OutcomeDeliveryFailed = "delivery_failed"
)

// Delivery channels recorded by LeadMetrics.
const (
	ChannelPersistence  = "persistence"
	ChannelNotification = "notification"
)

// LeadMetrics exposes counters for the lead submission workflow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	channelTotal     *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead form submissions by final outcome",
		}, []string{"outcome"}),
		channelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Subsystem: "leads",
			Name:      "channel_total",
			Help:      "Lead delivery attempts per channel",
		}, []string{"channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.channelTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveChannel(channel string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.channelTotal.WithLabelValues(channel, status).Inc()
}
