package kafka

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherMetricNames(t *testing.T) map[string]string {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	help := make(map[string]string, len(families))
	for _, fam := range families {
		help[fam.GetName()] = fam.GetHelp()
	}
	return help
}

func TestMetrics_RegisteredWithHelp(t *testing.T) {
	ConsumerMessagesReceived.WithLabelValues("t", "g")
	ConsumerMessagesProcessed.WithLabelValues("t", "g")
	ConsumerMessagesFailed.WithLabelValues("t", "g")
	ConsumerProcessingDuration.WithLabelValues("t", "g")
	ProducerMessagesPublished.WithLabelValues("t")
	ProducerPublishErrors.WithLabelValues("t")
	ProducerPublishDuration.WithLabelValues("t")

	help := gatherMetricNames(t)
	for _, name := range []string{
		"kafka_consumer_messages_received_total",
		"kafka_consumer_messages_processed_total",
		"kafka_consumer_messages_failed_total",
		"kafka_consumer_processing_duration_seconds",
		"kafka_producer_messages_published_total",
		"kafka_producer_publish_errors_total",
		"kafka_producer_publish_duration_seconds",
	} {
		h, ok := help[name]
		assert.True(t, ok, "metric %q not registered", name)
		assert.NotEmpty(t, h, "metric %q has no help", name)
	}
}

// getCounterValue reads a counter by topic and, when group is non-empty, consumer group.
func getCounterValue(t *testing.T, metricName, topic, group string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if fam.GetName() != metricName {
			continue
		}
		for _, m := range fam.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["topic"] == topic && (group == "" || labels["consumer_group"] == group) && m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
