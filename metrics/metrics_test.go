package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("amqpex_test", reg)

	c.RecordsBuilt.WithLabelValues("dataEx").Inc()
	c.RecordsBuilt.WithLabelValues("dataEx").Inc()
	c.BytesEncoded.Add(39)
	c.MatchAttempts.WithLabelValues("dataEx").Inc()
	c.MatchFailures.WithLabelValues("dataEx").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RecordsBuilt.WithLabelValues("dataEx")))
	assert.Equal(t, 39.0, testutil.ToFloat64(c.BytesEncoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MatchFailures.WithLabelValues("dataEx")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestServerDefaults(t *testing.T) {
	s := NewServer(0)
	assert.Equal(t, 9419, s.Port())
}
