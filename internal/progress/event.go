// Package progress defines the scan lifecycle events emitted by the batch
// runner and the sinks that consume them.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageScanStart  Stage = "SCAN_START"
	StageProbeDone  Stage = "PROBE_DONE"
	StageHandleDone Stage = "HANDLE_DONE"
	StageScanDone   Stage = "SCAN_DONE"
)

// Event captures a single milestone of a scan.
type Event struct {
	// ScanID uniquely identifies one batch run.
	ScanID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which milestone occurred.
	Stage Stage
	// Handle scopes probe and handle events to one input handle.
	Handle string
	// Site scopes probe events to one target site.
	Site string
	// Outcome carries the probe outcome label for probe events.
	Outcome string
	// Score carries the presence score for handle completions.
	Score float64
	// Dur captures execution latency for probes and whole scans.
	Dur time.Duration
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.ScanID == uuid.Nil {
		return errors.New("scan id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageScanStart, StageScanDone:
	case StageProbeDone:
		if e.Handle == "" || e.Site == "" {
			return errors.New("probe done requires handle and site")
		}
		if e.Outcome == "" {
			return errors.New("probe done requires outcome")
		}
	case StageHandleDone:
		if e.Handle == "" {
			return errors.New("handle done requires handle")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
