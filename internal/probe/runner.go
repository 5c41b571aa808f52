package probe

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osintkit/handlescan/internal/metrics"
	"github.com/osintkit/handlescan/internal/progress"
)

// Prober resolves one (handle, site) pair. *Executor is the production
// implementation.
type Prober interface {
	Probe(ctx context.Context, handle string, site Site) Result
}

// MinDelay is the floor for inter-request pacing. Probing faster than this
// invites per-IP rate limiting on target services.
const MinDelay = time.Second

// RunnerConfig controls batch behavior.
type RunnerConfig struct {
	// Delay is the minimum pause between consecutive site checks for one
	// handle and the per-host pacing interval. Values below MinDelay are
	// raised to MinDelay.
	Delay time.Duration
	// HandleConcurrency bounds concurrent handle workers; <=1 runs handles
	// sequentially. Sites within one handle are always sequential.
	HandleConcurrency int
}

// Runner sequences probes across sites and handles, paces requests, and
// aggregates one Report per handle.
type Runner struct {
	prober   Prober
	pacer    *Pacer
	pause    pauseController
	recorder progress.Recorder
	clock    Clock
	logger   *zap.Logger
	cfg      RunnerConfig
}

// NewRunner constructs a Runner. recorder may be nil.
func NewRunner(prober Prober, recorder progress.Recorder, cfg RunnerConfig, logger *zap.Logger) (*Runner, error) {
	if prober == nil {
		return nil, fmt.Errorf("prober is required")
	}
	if cfg.Delay < MinDelay {
		cfg.Delay = MinDelay
	}
	if recorder == nil {
		recorder = progress.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		prober:   prober,
		pacer:    NewPacer(cfg.Delay),
		pause:    timerPauseController{},
		recorder: recorder,
		clock:    SystemClock{},
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// Run checks every handle against every site and returns one Report per
// handle in input order. A failing probe degrades its single Result to an
// error outcome; siblings always complete. On cancellation the remaining
// pairs resolve to error outcomes so every report stays fully populated,
// and the context error is returned alongside the reports.
func (r *Runner) Run(ctx context.Context, handles []string, sites []Site) ([]Report, error) {
	for i, handle := range handles {
		if strings.TrimSpace(handle) == "" {
			return nil, fmt.Errorf("handle at index %d is empty", i)
		}
	}

	scanID := uuid.New()
	start := r.clock.Now()
	metrics.ObserveScanStart()
	r.recorder.Record(progress.Event{ScanID: scanID, TS: start.UTC(), Stage: progress.StageScanStart})
	r.logger.Info("scan started",
		zap.String("scan_id", scanID.String()),
		zap.Int("handles", len(handles)),
		zap.Int("sites", len(sites)),
	)

	reports := make([]Report, len(handles))
	if r.cfg.HandleConcurrency > 1 && len(handles) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, r.cfg.HandleConcurrency)
		for i, handle := range handles {
			wg.Add(1)
			go func(i int, handle string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				reports[i] = r.checkHandle(ctx, scanID, handle, sites)
			}(i, handle)
		}
		wg.Wait()
	} else {
		for i, handle := range handles {
			reports[i] = r.checkHandle(ctx, scanID, handle, sites)
		}
	}

	r.recorder.Record(progress.Event{
		ScanID: scanID,
		TS:     r.clock.Now().UTC(),
		Stage:  progress.StageScanDone,
		Dur:    r.clock.Now().Sub(start),
	})
	if err := ctx.Err(); err != nil {
		return reports, fmt.Errorf("scan aborted: %w", err)
	}
	return reports, nil
}

func (r *Runner) checkHandle(ctx context.Context, scanID uuid.UUID, handle string, sites []Site) Report {
	results := make([]Result, 0, len(sites))
	for i, site := range sites {
		results = append(results, r.checkSite(ctx, scanID, handle, site))
		if i < len(sites)-1 && ctx.Err() == nil {
			r.pause.Pause(ctx, r.cfg.Delay)
		}
	}

	report := Report{
		Handle:        handle,
		Results:       results,
		PresenceScore: Score(countFound(results), len(results)),
	}
	r.recorder.Record(progress.Event{
		ScanID: scanID,
		TS:     r.clock.Now().UTC(),
		Stage:  progress.StageHandleDone,
		Handle: handle,
		Score:  report.PresenceScore,
	})
	return report
}

func (r *Runner) checkSite(ctx context.Context, scanID uuid.UUID, handle string, site Site) Result {
	if ctx.Err() != nil {
		return Result{Site: site.Name, Outcome: OutcomeError, Locator: locatorError}
	}
	if err := r.pacer.Wait(ctx, site.ResolveURL(handle)); err != nil {
		r.logger.Warn("pacing interrupted", zap.String("site", site.Name), zap.Error(err))
		return Result{Site: site.Name, Outcome: OutcomeError, Locator: locatorError}
	}

	start := r.clock.Now()
	result := r.prober.Probe(ctx, handle, site)
	r.recorder.Record(progress.Event{
		ScanID:  scanID,
		TS:      r.clock.Now().UTC(),
		Stage:   progress.StageProbeDone,
		Handle:  handle,
		Site:    site.Name,
		Outcome: string(result.Outcome),
		Dur:     r.clock.Now().Sub(start),
	})
	return result
}

func countFound(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Outcome == OutcomeFound {
			n++
		}
	}
	return n
}

// Score computes the presence percentage 100*found/total, rounded to two
// decimal places. It is 0 when no sites were checked.
func Score(found, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(found)/float64(total)*10000) / 100
}
