// Package headless implements the rendered fetch strategy: a scripted
// browser navigation that executes JavaScript and tracks client-side
// redirects.
package headless

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/osintkit/handlescan/internal/metrics"
	"github.com/osintkit/handlescan/internal/probe"
)

// Defaults for the rendered strategy.
const (
	DefaultNavigationTimeout = 15 * time.Second
	// DefaultSettleDelay gives client-side rendering time to replace shell
	// DOM with real content after the network has gone idle.
	DefaultSettleDelay = 2 * time.Second

	// networkIdleFallback caps the wait for the networkIdle lifecycle event;
	// pages that poll forever would otherwise never report idle.
	networkIdleFallback = 5 * time.Second

	viewportWidth  = 1920
	viewportHeight = 1080
)

// Config controls the behavior of the headless fetcher.
type Config struct {
	// MaxParallel bounds concurrent browser sessions; 0 means unbounded.
	MaxParallel       int
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
}

// Fetcher implements probe.Fetcher using chromedp and headless Chrome. Each
// Fetch opens its own short-lived browser session from a shared allocator,
// so concurrent sessions share no cookies or state, and tears it down on
// every exit path.
type Fetcher struct {
	cfg         Config
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc

	// newContext and session are the browser seams; tests swap them to
	// drive the teardown path without a real Chrome. Production uses
	// chromedp.NewContext and browserSession.
	newContext func(parent context.Context) (context.Context, context.CancelFunc)
	session    func(ctx context.Context, rawURL string) (sessionResult, error)
}

// sessionResult is what one browser session observed.
type sessionResult struct {
	html     string
	finalURL string
	status   int
}

// New creates a headless fetcher backed by chromedp.
func New(cfg Config) (*Fetcher, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = probe.DefaultUserAgent
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	f := &Fetcher{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}
	f.newContext = func(parent context.Context) (context.Context, context.CancelFunc) {
		return chromedp.NewContext(parent)
	}
	f.session = f.browserSession
	return f, nil
}

// Close cancels the allocator context, killing any leftover browsers.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Fetch navigates with an isolated headless browser and returns the rendered
// DOM plus the post-navigation URL. Launch and navigation failures are
// returned as the error; the session is torn down regardless.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (probe.Observation, error) {
	if err := f.acquire(ctx); err != nil {
		return probe.Observation{}, err
	}
	defer f.release()

	metrics.IncRenderedSessions()
	defer metrics.DecRenderedSessions()

	// A fresh context off the allocator means a fresh browser: no shared
	// cookies across concurrent sessions. The deferred cancels are the
	// teardown guarantee for every exit path, including failures and
	// timeouts.
	taskCtx, taskCancel := f.newContext(f.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.cfg.NavigationTimeout+f.cfg.SettleDelay)
	defer cancel()

	stopForward := forwardCancel(ctx, cancel)
	defer stopForward()

	start := time.Now()
	res, err := f.session(taskCtx, rawURL)
	if err != nil {
		return probe.Observation{}, fmt.Errorf("rendered fetch: %w", err)
	}

	return probe.Observation{
		FinalURL:   res.finalURL,
		StatusCode: res.status,
		Body:       []byte(res.html),
		Duration:   time.Since(start),
		Rendered:   true,
	}, nil
}

// browserSession navigates, waits for the network to go idle plus the settle
// delay, and captures the rendered DOM and post-navigation location.
func (f *Fetcher) browserSession(ctx context.Context, rawURL string) (sessionResult, error) {
	meta := newResponseMeta()
	chromedp.ListenTarget(ctx, meta.captureEvent)

	// Buffered so an idle event fired before we start waiting is kept.
	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(ctx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	var (
		html     string
		finalURL string
	)
	actions := []chromedp.Action{
		f.networkSetupAction(),
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate(rawURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return awaitIdle(ctx, idle, networkIdleFallback)
		}),
		chromedp.Sleep(f.cfg.SettleDelay),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return sessionResult{}, fmt.Errorf("chromedp run: %w", err)
	}

	status, url := meta.snapshotWithFallbacks(rawURL, finalURL)
	return sessionResult{html: html, finalURL: url, status: status}, nil
}

func (f *Fetcher) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return fmt.Errorf("enable lifecycle events: %w", err)
		}
		if err := emulation.SetUserAgentOverride(f.cfg.UserAgent).Do(ctx); err != nil {
			return fmt.Errorf("set user-agent: %w", err)
		}
		return nil
	})
}

// awaitIdle waits for the networkIdle lifecycle signal, giving up after
// fallback so pages that poll forever still get rendered.
func awaitIdle(ctx context.Context, idle <-chan struct{}, fallback time.Duration) error {
	timer := time.NewTimer(fallback)
	defer timer.Stop()
	select {
	case <-idle:
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) acquire(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	select {
	case f.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("headless slot wait canceled: %w", ctx.Err())
	}
}

func (f *Fetcher) release() {
	if f.limiter == nil {
		return
	}
	select {
	case <-f.limiter:
	default:
	}
}

// forwardCancel propagates caller cancellation into the session context so
// an in-flight navigation is torn down on abort.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// responseMeta captures the document response observed during navigation.
type responseMeta struct {
	mu     sync.RWMutex
	status int
	url    string
}

func newResponseMeta() *responseMeta {
	return &responseMeta{}
}

func (m *responseMeta) capture(event *network.EventResponseReceived) {
	if event.Type != network.ResourceTypeDocument || event.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(event.Response.Status)
	m.url = event.Response.URL
	m.mu.Unlock()
}

func (m *responseMeta) captureEvent(ev any) {
	if resp, ok := ev.(*network.EventResponseReceived); ok {
		m.capture(resp)
	}
}

// snapshotWithFallbacks prefers the scripted location (it reflects
// client-side redirects that happen after the document response), then the
// network-observed URL, then the request URL; a missing status defaults to
// 200 because the DOM was delivered.
func (m *responseMeta) snapshotWithFallbacks(requestURL, finalURL string) (int, string) {
	m.mu.RLock()
	status, url := m.status, m.url
	m.mu.RUnlock()

	switch {
	case finalURL != "":
		url = finalURL
	case url != "":
	default:
		url = requestURL
	}

	if status == 0 {
		status = http.StatusOK
	}
	return status, url
}
