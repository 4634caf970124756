package metrics

import "time"

// Recorder is what the client reports to. *Metrics implements it; Nop
// discards everything.
type Recorder interface {
	// IncCompiled counts a request that compiled for modality.
	IncCompiled(modality string)
	// IncRejected counts a request rejected because feature is missing.
	IncRejected(feature string)
	// ObserveTransport records how long a transport call for method took.
	ObserveTransport(method string, start time.Time, err error)
	// AddBatchObjects counts objects sent in a batch.
	AddBatchObjects(n int)
}

// Nop is a Recorder that does nothing.
type Nop struct{}

func (Nop) IncCompiled(string) {}
func (Nop) IncRejected(string) {}
func (Nop) ObserveTransport(string, time.Time, error) {}
func (Nop) AddBatchObjects(int) {}
