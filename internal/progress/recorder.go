package progress

import (
	"go.uber.org/zap"
)

// Recorder accepts scan events. Implementations must be safe for concurrent
// use; the runner emits from every handle worker. Recording is fire and
// forget: a sink failure never affects the scan.
type Recorder interface {
	Record(evt Event)
}

// Nop discards every event.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(Event) {}

// Fanout forwards each event to every wrapped recorder in order.
type Fanout []Recorder

// Record implements Recorder.
func (f Fanout) Record(evt Event) {
	for _, r := range f {
		if r != nil {
			r.Record(evt)
		}
	}
}

// LogSink writes events to a zap logger. Invalid events are dropped with a
// debug line rather than surfaced, matching the fire-and-forget contract.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds a LogSink; a nil logger disables output.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Record implements Recorder.
func (s *LogSink) Record(evt Event) {
	if err := evt.Validate(); err != nil {
		s.logger.Debug("discarding invalid progress event", zap.Error(err))
		return
	}
	fields := []zap.Field{
		zap.String("scan_id", evt.ScanID.String()),
		zap.String("stage", string(evt.Stage)),
	}
	if evt.Handle != "" {
		fields = append(fields, zap.String("handle", evt.Handle))
	}
	if evt.Site != "" {
		fields = append(fields, zap.String("site", evt.Site))
	}
	if evt.Outcome != "" {
		fields = append(fields, zap.String("outcome", evt.Outcome))
	}
	if evt.Stage == StageHandleDone {
		fields = append(fields, zap.Float64("score", evt.Score))
	}
	if evt.Dur > 0 {
		fields = append(fields, zap.Duration("dur", evt.Dur))
	}
	s.logger.Info("scan progress", fields...)
}
