package metrics

import (
	"io"
	"time"
)

// EMFSink records studio operations as EMF documents.
type EMFSink struct {
	Out io.Writer
}

// RecordOperation emits latency and an outcome count for one plan or
// preview call. Outcome is "success" or a failure kind name.
func (s EMFSink) RecordOperation(operation, outcome string, elapsed time.Duration) {
	New(Namespace, s.Out).
		Dimension("Operation", operation).
		Dimension("Outcome", outcome).
		Metric("LatencyMs", float64(elapsed.Milliseconds()), UnitMilliseconds).
		Count("Calls").
		Flush()
}
