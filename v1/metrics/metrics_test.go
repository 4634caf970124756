package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	m.IncCompiled("hybrid")
	m.IncCompiled("hybrid")
	m.IncRejected("Named vectors")
	m.AddBatchObjects(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.compiled.WithLabelValues("hybrid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("Named vectors")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.batchObjects))
}

func TestTransportHistogram(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})
	m.ObserveTransport("Search", time.Now(), nil)
	m.ObserveTransport("Search", time.Now(), errors.New("unavailable"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.transportDuration))
}

func TestServiceLabelAndNamespace(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "search", Namespace: "acme"})
	m.IncRejected("Rerank")

	expected := `
# HELP acme_rejected_requests_total Requests rejected before any network call because the server lacks a feature.
# TYPE acme_rejected_requests_total counter
acme_rejected_requests_total{feature="Rerank",service="search"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "acme_rejected_requests_total"))
}

func TestServerOnlyWithAddress(t *testing.T) {
	assert.Nil(t, NewMetrics(Config{}).Server)
	m := NewMetrics(Config{Address: ":0"})
	require.NotNil(t, m.Server)
	assert.Equal(t, ":0", m.Server.Addr)
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.IncCompiled("fetch")
	r.ObserveTransport("Search", time.Now(), nil)
}
