package probe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/osintkit/handlescan/internal/metrics"
)

// Executor checks one handle against one site: it resolves the target URL,
// dispatches to the site's fetch strategy, and converts the matcher verdict
// into a Result. A transport or render failure is terminal for the pair
// within one run; there are no retries.
type Executor struct {
	lightweight Fetcher
	rendered    Fetcher
	detector    *RenderHintDetector
	logger      *zap.Logger
}

// NewExecutor builds an Executor. The rendered fetcher may be a noop when
// headless support is disabled; detector may be nil.
func NewExecutor(lightweight, rendered Fetcher, detector *RenderHintDetector, logger *zap.Logger) (*Executor, error) {
	if lightweight == nil {
		return nil, fmt.Errorf("lightweight fetcher is required")
	}
	if rendered == nil {
		return nil, fmt.Errorf("rendered fetcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		lightweight: lightweight,
		rendered:    rendered,
		detector:    detector,
		logger:      logger,
	}, nil
}

// Probe resolves one (handle, site) pair to a Result. Fetch failures degrade
// to an error outcome and never propagate.
func (e *Executor) Probe(ctx context.Context, handle string, site Site) Result {
	target := site.ResolveURL(handle)

	fetcher := e.lightweight
	if site.Method == MethodRendered {
		fetcher = e.rendered
	}

	obs, err := fetcher.Fetch(ctx, target)
	if err != nil {
		e.logger.Warn("probe fetch failed",
			zap.String("site", site.Name),
			zap.String("url", target),
			zap.Error(err),
		)
		metrics.ObserveProbe(site.Name, string(site.Method), string(OutcomeError), obs.Duration)
		return Result{Site: site.Name, Outcome: OutcomeError, Locator: locatorError}
	}

	result := e.toResult(site, Match(obs, site, handle))
	e.hintIfGated(site, obs, result)
	metrics.ObserveProbe(site.Name, string(site.Method), string(result.Outcome), obs.Duration)
	return result
}

func (e *Executor) toResult(site Site, verdict Verdict) Result {
	switch verdict.Kind {
	case VerdictFound:
		return Result{Site: site.Name, Outcome: OutcomeFound, Locator: verdict.Locator}
	case VerdictNotFound:
		return Result{Site: site.Name, Outcome: OutcomeNotFound, Locator: locatorNotFound}
	default:
		return Result{Site: site.Name, Outcome: OutcomeError, Locator: locatorError}
	}
}

func (e *Executor) hintIfGated(site Site, obs Observation, result Result) {
	if e.detector == nil || result.Outcome == OutcomeFound {
		return
	}
	if !e.detector.NeedsRender(obs) {
		return
	}
	e.logger.Info("page appears JS-gated; the rendered strategy may see more",
		zap.String("site", site.Name),
		zap.String("final_url", obs.FinalURL),
	)
	metrics.ObserveRenderHint(site.Name)
}
