package probe

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedProber returns a fixed outcome per site name and records call order.
type scriptedProber struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
	calls    []string
}

func (p *scriptedProber) Probe(_ context.Context, handle string, site Site) Result {
	p.mu.Lock()
	p.calls = append(p.calls, handle+"/"+site.Name)
	p.mu.Unlock()

	outcome, ok := p.outcomes[site.Name]
	if !ok {
		outcome = OutcomeNotFound
	}
	res := Result{Site: site.Name, Outcome: outcome, Locator: locatorNotFound}
	if outcome == OutcomeFound {
		res.Locator = site.ResolveURL(handle)
	}
	if outcome == OutcomeError {
		res.Locator = locatorError
	}
	return res
}

type noPause struct{}

func (noPause) Pause(context.Context, time.Duration) {}

// newFastRunner disables pacing so batch tests finish instantly.
func newFastRunner(t *testing.T, prober Prober, cfg RunnerConfig) *Runner {
	t.Helper()
	runner, err := NewRunner(prober, nil, cfg, nil)
	require.NoError(t, err)
	runner.pacer = NewPacer(0)
	runner.pause = noPause{}
	return runner
}

func threeSites() []Site {
	return []Site{
		{Name: "A", URLTemplate: "https://a.test/{}"},
		{Name: "B", URLTemplate: "https://b.test/{}"},
		{Name: "C", URLTemplate: "https://c.test/{}"},
	}
}

func TestRunnerRequiresProber(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(nil, nil, RunnerConfig{}, nil)
	require.Error(t, err)
}

func TestRunnerRaisesDelayToFloor(t *testing.T) {
	t.Parallel()

	runner, err := NewRunner(&scriptedProber{}, nil, RunnerConfig{Delay: 50 * time.Millisecond}, nil)
	require.NoError(t, err)
	require.Equal(t, MinDelay, runner.cfg.Delay)
}

func TestRunnerRejectsBlankHandle(t *testing.T) {
	t.Parallel()

	runner := newFastRunner(t, &scriptedProber{}, RunnerConfig{})
	_, err := runner.Run(context.Background(), []string{"alice", "  "}, threeSites())
	require.Error(t, err)
	require.Contains(t, err.Error(), "index 1")
}

func TestRunnerAggregatesMixedOutcomes(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{outcomes: map[string]Outcome{
		"A": OutcomeFound,
		"B": OutcomeNotFound,
		"C": OutcomeError,
	}}
	runner := newFastRunner(t, prober, RunnerConfig{})

	reports, err := runner.Run(context.Background(), []string{"alice"}, threeSites())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	require.Equal(t, "alice", report.Handle)
	require.Len(t, report.Results, 3)
	require.Equal(t, OutcomeFound, report.Results[0].Outcome)
	require.Equal(t, "https://a.test/alice", report.Results[0].Locator)
	require.Equal(t, OutcomeNotFound, report.Results[1].Outcome)
	require.Equal(t, OutcomeError, report.Results[2].Outcome)
	require.Equal(t, 33.33, report.PresenceScore)
	require.Equal(t, 1, report.FoundCount())
}

func TestRunnerPreservesInputOrderUnderConcurrency(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{outcomes: map[string]Outcome{"A": OutcomeFound}}
	runner := newFastRunner(t, prober, RunnerConfig{HandleConcurrency: 4})

	handles := []string{"u1", "u2", "u3", "u4", "u5"}
	reports, err := runner.Run(context.Background(), handles, threeSites())
	require.NoError(t, err)
	require.Len(t, reports, len(handles))
	for i, report := range reports {
		require.Equal(t, handles[i], report.Handle)
		require.Len(t, report.Results, 3)
	}
}

func TestRunnerRepeatedRunsAreIndependent(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{outcomes: map[string]Outcome{"A": OutcomeFound, "B": OutcomeFound}}
	runner := newFastRunner(t, prober, RunnerConfig{})

	first, err := runner.Run(context.Background(), []string{"alice"}, threeSites())
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), []string{"alice"}, threeSites())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRunnerCancellationFillsRemainingResults(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := &scriptedProber{}
	runner := newFastRunner(t, prober, RunnerConfig{})

	reports, err := runner.Run(ctx, []string{"alice", "bob"}, threeSites())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, reports, 2)
	for _, report := range reports {
		require.Len(t, report.Results, 3)
		for _, res := range report.Results {
			require.Equal(t, OutcomeError, res.Outcome)
			require.Equal(t, locatorError, res.Locator)
		}
		require.Equal(t, float64(0), report.PresenceScore)
	}
	// no probes were issued after cancellation
	require.Empty(t, prober.calls)
}

func TestRunnerChecksSitesSequentiallyPerHandle(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{}
	runner := newFastRunner(t, prober, RunnerConfig{})

	_, err := runner.Run(context.Background(), []string{"alice"}, threeSites())
	require.NoError(t, err)
	require.Equal(t, []string{"alice/A", "alice/B", "alice/C"}, prober.calls)
}

func TestRunnerEmptySiteListScoresZero(t *testing.T) {
	t.Parallel()

	runner := newFastRunner(t, &scriptedProber{}, RunnerConfig{})
	reports, err := runner.Run(context.Background(), []string{"alice"}, nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Empty(t, reports[0].Results)
	require.Equal(t, float64(0), reports[0].PresenceScore)
}

func TestRunnerHandlesLongBatch(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{outcomes: map[string]Outcome{"A": OutcomeFound}}
	runner := newFastRunner(t, prober, RunnerConfig{HandleConcurrency: 8})

	handles := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		handles = append(handles, "user"+strings.Repeat("x", i%5))
	}
	reports, err := runner.Run(context.Background(), handles, threeSites())
	require.NoError(t, err)
	require.Len(t, reports, len(handles))
	for i, report := range reports {
		require.Equal(t, handles[i], report.Handle)
	}
}
