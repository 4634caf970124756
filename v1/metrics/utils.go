package metrics

import "time"

// IncCompiled counts a compiled request.
func (m *Metrics) IncCompiled(modality string) {
	m.compiled.WithLabelValues(modality).Inc()
}

// IncRejected counts a request rejected for a missing feature.
func (m *Metrics) IncRejected(feature string) {
	m.rejected.WithLabelValues(feature).Inc()
}

// ObserveTransport records the duration since start, labelled ok or error.
func (m *Metrics) ObserveTransport(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.transportDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}

// AddBatchObjects counts n objects sent in a batch.
func (m *Metrics) AddBatchObjects(n int) {
	m.batchObjects.Add(float64(n))
}
