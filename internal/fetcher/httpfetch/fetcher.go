// Package httpfetch implements the lightweight fetch strategy: a single
// plain GET through gocolly, redirects followed, no script execution.
package httpfetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/osintkit/handlescan/internal/probe"
)

// DefaultTimeout bounds one lightweight fetch end to end.
const DefaultTimeout = 10 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements probe.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = probe.DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := colly.NewCollector(colly.Async(false))
	// Profile URLs are probed deliberately; robots rules do not apply to a
	// single targeted GET.
	c.IgnoreRobotsTxt = true

	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
	}
}

// fetchOutcome is everything one visit produced, handed over the channel in
// one piece so an abandoned visit never shares state with the caller.
type fetchOutcome struct {
	obs      probe.Observation
	visitErr error
	fetchErr error
}

// Fetch executes a single HTTP GET. The body is captured only on a 200 so
// that marker matching is skipped for redirect and error pages; any network
// level failure is returned as the error. The visit goroutine owns the
// observation until it sends it; on cancellation the caller returns a zero
// observation and the visit finishes into the buffered channel on its own.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (probe.Observation, error) {
	start := time.Now()
	done := make(chan fetchOutcome, 1)
	go func() {
		var out fetchOutcome
		collector := f.buildCollector(start, &out.obs, &out.fetchErr)
		out.visitErr = collector.Visit(rawURL)
		done <- out
	}()

	select {
	case <-ctx.Done():
		// The abandoned visit runs at most until the request timeout.
		return probe.Observation{}, fmt.Errorf("lightweight fetch canceled: %w", ctx.Err())
	case out := <-done:
		switch {
		case out.obs.StatusCode != 0:
			// A response document was observed; HTTP error statuses are
			// evidence, not failures.
			return out.obs, nil
		case out.visitErr != nil:
			return probe.Observation{}, fmt.Errorf("visit failed: %w", out.visitErr)
		case out.fetchErr != nil:
			return probe.Observation{}, fmt.Errorf("lightweight fetch: %w", out.fetchErr)
		default:
			return out.obs, nil
		}
	}
}

func (f *Fetcher) buildCollector(start time.Time, obs *probe.Observation, fetchErr *error) *colly.Collector {
	collector := f.baseCollector.Clone()
	collector.UserAgent = f.cfg.UserAgent
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(f.cfg.Timeout)
	if f.transport != nil {
		collector.WithTransport(f.transport)
	}
	f.configureCollectorHooks(collector, start, obs, fetchErr)
	return collector
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	start time.Time,
	obs *probe.Observation,
	fetchErr *error,
) {
	hooks.OnResponse(func(r *colly.Response) {
		o := probe.Observation{
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Duration:   time.Since(start),
		}
		if r.StatusCode == http.StatusOK {
			o.Body = append([]byte(nil), r.Body...)
		}
		*obs = o
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			// Colly reports HTTP error statuses through OnError; keep the
			// status as an observation and let the matcher judge it.
			*obs = probe.Observation{
				FinalURL:   r.Request.URL.String(),
				StatusCode: r.StatusCode,
				Duration:   time.Since(start),
			}
			return
		}
		*fetchErr = err
	})
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
