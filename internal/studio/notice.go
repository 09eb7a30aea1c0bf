package studio

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Notice is a transient, non-blocking report of a failed preview.
type Notice struct {
	ShotID  string    `json:"shotId"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives preview failure notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type logNotifier struct{}

func (logNotifier) Notify(n Notice) {
	log.Warn().
		Str("shot_id", n.ShotID).
		Str("kind", n.Kind).
		Msg(n.Message)
}

// MetricsSink records per-operation latency and outcome.
type MetricsSink interface {
	RecordOperation(operation, outcome string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordOperation(string, string, time.Duration) {}
