package api

import "github.com/mujeralerta/diagnostico/internal/logger"

// CallEvent records metadata about a single backend request.
type CallEvent struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about backend calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through the structured logger.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates an Observer that logs events to l.
func NewLogObserver(l *logger.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	kv := []interface{}{
		"method", event.Method,
		"path", event.Path,
		"request_id", event.RequestID,
		"status", event.Status,
		"latency_ms", event.LatencyMs,
		"attempts", event.Attempts,
	}
	if event.Success {
		o.log.Info("api_call", kv...)
		return
	}
	o.log.Warn("api_call failed", append(kv, "error_code", event.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
