package probe

import (
	"bytes"
	"net/http"
	"strings"
)

// VerdictKind classifies what the evidence supports.
type VerdictKind int

// Matcher verdicts, from weakest to strongest evidence handling: an
// Indeterminate verdict means the observation carried no usable signal.
const (
	VerdictIndeterminate VerdictKind = iota
	VerdictFound
	VerdictNotFound
)

// Verdict is the matcher's decision for one observation.
type Verdict struct {
	Kind VerdictKind
	// Locator is set only on VerdictFound.
	Locator string
}

// Match decides whether an observation proves the handle exists on the site.
// Evidence is weighed in strict order: explicit failure markers beat explicit
// success markers, markers beat the URL-family heuristic, and the heuristic
// beats raw status codes. Redirect-heavy anti-bot flows make bare status
// codes the least trustworthy signal, so they come last.
func Match(obs Observation, site Site, handle string) Verdict {
	if len(obs.Body) > 0 {
		lowerBody := bytes.ToLower(obs.Body)
		for _, marker := range site.FailureMarkers {
			if bytes.Contains(lowerBody, []byte(strings.ToLower(marker))) {
				return Verdict{Kind: VerdictNotFound}
			}
		}
		for _, marker := range site.SuccessMarkers {
			resolved := strings.Replace(marker, handleSlot, handle, 1)
			if bytes.Contains(lowerBody, []byte(strings.ToLower(resolved))) {
				return Verdict{Kind: VerdictFound, Locator: obs.FinalURL}
			}
		}
	}

	switch {
	case obs.StatusCode == http.StatusOK:
		return matchByFamily(obs, site, handle)
	case obs.StatusCode != 0:
		return Verdict{Kind: VerdictNotFound}
	default:
		return Verdict{Kind: VerdictIndeterminate}
	}
}

// familyRule recognizes a platform by a fragment of the final URL and judges
// presence from the post-redirect URL alone. Rules are evaluated in order;
// the first fragment hit decides the verdict.
type familyRule struct {
	fragment string
	present  func(finalURL, handle string) bool
}

var familyRules = []familyRule{
	// Snapchat redirects unknown handles to its explore page.
	{fragment: "snapchat.com", present: func(finalURL, handle string) bool {
		lower := strings.ToLower(finalURL)
		return !strings.Contains(lower, "/explore/") && strings.Contains(lower, strings.ToLower(handle))
	}},
	// Instagram bounces unknown profiles to the login wall.
	{fragment: "instagram.com", present: func(finalURL, handle string) bool {
		lower := strings.ToLower(finalURL)
		return strings.Contains(lower, "/"+strings.ToLower(handle)+"/") && !strings.Contains(lower, "login")
	}},
	// X/Twitter sends unknown profiles home.
	{fragment: "x.com", present: microblogPresent},
	{fragment: "twitter.com", present: microblogPresent},
}

func microblogPresent(finalURL, handle string) bool {
	lower := strings.ToLower(finalURL)
	return strings.Contains(lower, "/"+strings.ToLower(handle)) && !strings.Contains(lower, "home")
}

// matchByFamily applies the 200-status fallback: a recognized platform is
// judged by its redirect behavior; an unrecognized endpoint with no markers
// configured at all (API-style sites) counts as found by virtue of the 200.
func matchByFamily(obs Observation, site Site, handle string) Verdict {
	lowerFinal := strings.ToLower(obs.FinalURL)
	for _, rule := range familyRules {
		if !strings.Contains(lowerFinal, rule.fragment) {
			continue
		}
		if rule.present(obs.FinalURL, handle) {
			return Verdict{Kind: VerdictFound, Locator: obs.FinalURL}
		}
		return Verdict{Kind: VerdictNotFound}
	}
	if len(site.SuccessMarkers) == 0 && len(site.FailureMarkers) == 0 {
		return Verdict{Kind: VerdictFound, Locator: obs.FinalURL}
	}
	return Verdict{Kind: VerdictNotFound}
}
