package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLeadMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission(OutcomeDelivered)
	m.ObserveSubmission(OutcomeDelivered)
	m.ObserveChannel(ChannelPersistence, false)
	m.ObserveChannel(ChannelNotification, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeDelivered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.channelTotal.WithLabelValues(ChannelPersistence, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.channelTotal.WithLabelValues(ChannelNotification, "ok")))
}

func TestNilLeadMetricsIsSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission(OutcomeInvalid)
	m.ObserveChannel(ChannelPersistence, true)
}
