// Package probe defines core types shared across subsystems and implements
// the evidence matcher, probe executor, and batch runner.
package probe

import (
	"context"
	"strings"
	"time"
)

// FetchMethod selects which fetch strategy a site definition uses.
type FetchMethod string

// Supported fetch strategies.
const (
	// MethodLightweight is a single HTTP GET with redirects followed.
	MethodLightweight FetchMethod = "lightweight"
	// MethodRendered navigates with a scripted browser and executes JS.
	MethodRendered FetchMethod = "rendered"
)

// handleSlot is the substitution slot in URL templates and markers.
const handleSlot = "{}"

// DefaultUserAgent is the realistic desktop identity attached to every
// outbound request. Blank or obviously synthetic agents get trivially
// bot-blocked by most of the target platforms.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Site declares one probe target. Instances are immutable once registered.
type Site struct {
	// Name is the display name and registry key.
	Name string
	// URLTemplate contains one handleSlot substituted with the handle.
	URLTemplate string
	// Method selects the fetch strategy.
	Method FetchMethod
	// SuccessMarkers indicate presence when found in the page body. Entries
	// may contain a handleSlot. Order matters: first hit wins.
	SuccessMarkers []string
	// FailureMarkers indicate absence and take precedence over success
	// markers. Order matters: first hit wins.
	FailureMarkers []string
}

// ResolveURL substitutes handle into the site's URL template.
func (s Site) ResolveURL(handle string) string {
	return strings.Replace(s.URLTemplate, handleSlot, handle, 1)
}

// Observation is the normalized output of one fetch, consumed by the matcher.
type Observation struct {
	// FinalURL is the post-redirect URL, which may differ from the request
	// URL on client-side redirects.
	FinalURL string
	// StatusCode is zero when no response document was observed.
	StatusCode int
	// Body is the raw or rendered page content; nil when the strategy
	// decided the body carries no evidence (e.g. non-200 plain GET).
	Body []byte
	// Duration measures the fetch including any settle delay.
	Duration time.Duration
	// Rendered reports whether a browser session produced the observation.
	Rendered bool
}

// Outcome is the user-visible classification of one (handle, site) pair.
type Outcome string

// Every probe resolves to exactly one of these.
const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Result is one immutable probe outcome.
type Result struct {
	Site string `json:"site"`
	// Outcome is found, not_found, or error.
	Outcome Outcome `json:"outcome"`
	// Locator is the resolved profile URL on found, a diagnostic label
	// otherwise.
	Locator string `json:"locator"`
}

// Diagnostic locator labels for non-found outcomes.
const (
	locatorNotFound = "Not Found"
	locatorError    = "Error checking"
)

// Report aggregates all per-site results for one handle.
type Report struct {
	Handle string `json:"handle"`
	// Results holds one entry per site in category iteration order.
	Results []Result `json:"results"`
	// PresenceScore is 100*found/total rounded to two decimals, 0 when no
	// sites were checked.
	PresenceScore float64 `json:"presence_score"`
}

// FoundCount returns the number of sites where the handle was found.
func (r Report) FoundCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeFound {
			n++
		}
	}
	return n
}

// Fetcher retrieves one URL and normalizes the response. Transport and
// render failures surface as the returned error; they never panic and never
// carry partial observations.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Observation, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used outside tests.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }
