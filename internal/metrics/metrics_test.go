package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.RemoteRequest("GetSeasons", 200)
	m.RemoteRequest("GetSeasons", 200)
	m.CacheRead("seasons", true)
	m.Imported("clubs")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.remoteRequests.WithLabelValues("GetSeasons", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheReads.WithLabelValues("seasons", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imported.WithLabelValues("clubs")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RemoteRequest("GetClubs", 500)
		m.CacheRead("clubs", false)
		m.Imported("clubs")
		m.MigrationApplied()
	})
}
