package probe

import (
	"net/http"
	"testing"
)

func markerSite() Site {
	return Site{
		Name:           "Example",
		URLTemplate:    "https://example.com/{}/",
		Method:         MethodLightweight,
		SuccessMarkers: []string{`"username":"{}"`},
		FailureMarkers: []string{"page isn't available"},
	}
}

func TestMatchFailureMarkerWins(t *testing.T) {
	t.Parallel()

	obs := Observation{
		FinalURL:   "https://example.com/alice/",
		StatusCode: http.StatusOK,
		Body:       []byte(`Sorry, this PAGE ISN'T available. "username":"alice"`),
	}
	verdict := Match(obs, markerSite(), "alice")
	if verdict.Kind != VerdictNotFound {
		t.Fatalf("expected failure marker to take precedence, got %+v", verdict)
	}
}

func TestMatchSuccessMarkerSubstitutesHandle(t *testing.T) {
	t.Parallel()

	obs := Observation{
		FinalURL:   "https://example.com/alice/",
		StatusCode: http.StatusOK,
		Body:       []byte(`{"USERNAME":"Alice"}`),
	}
	verdict := Match(obs, markerSite(), "alice")
	if verdict.Kind != VerdictFound {
		t.Fatalf("expected success marker hit, got %+v", verdict)
	}
	if verdict.Locator != "https://example.com/alice/" {
		t.Fatalf("expected final URL locator, got %q", verdict.Locator)
	}
}

func TestMatchUnmatchedMarkersFallThroughToNotFound(t *testing.T) {
	t.Parallel()

	obs := Observation{
		FinalURL:   "https://example.com/alice/",
		StatusCode: http.StatusOK,
		Body:       []byte("<html>nothing relevant</html>"),
	}
	if verdict := Match(obs, markerSite(), "alice"); verdict.Kind != VerdictNotFound {
		t.Fatalf("expected not found when markers are configured but unmatched, got %+v", verdict)
	}
}

func TestMatchBareAPITwoHundredIsFound(t *testing.T) {
	t.Parallel()

	site := Site{
		Name:        "API",
		URLTemplate: "https://api.example.net/users/{}",
		Method:      MethodLightweight,
	}
	obs := Observation{
		FinalURL:   "https://api.example.net/users/alice",
		StatusCode: http.StatusOK,
	}
	verdict := Match(obs, site, "alice")
	if verdict.Kind != VerdictFound || verdict.Locator != obs.FinalURL {
		t.Fatalf("expected bare 200 to prove existence, got %+v", verdict)
	}
}

func TestMatchFamilyHeuristics(t *testing.T) {
	t.Parallel()

	site := Site{Name: "Fam", URLTemplate: "https://x.test/{}"}
	tests := []struct {
		name     string
		finalURL string
		handle   string
		want     VerdictKind
	}{
		{"snapchat profile kept", "https://www.snapchat.com/add/alice", "alice", VerdictFound},
		{"snapchat explore redirect", "https://www.snapchat.com/explore/alice", "alice", VerdictNotFound},
		{"instagram profile kept", "https://www.instagram.com/alice/", "alice", VerdictFound},
		{"instagram login redirect", "https://www.instagram.com/accounts/login/?next=/alice/", "alice", VerdictNotFound},
		{"x profile kept", "https://x.com/alice", "alice", VerdictFound},
		{"x home redirect", "https://x.com/home", "alice", VerdictNotFound},
		{"twitter domain recognized", "https://twitter.com/alice", "alice", VerdictFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			obs := Observation{FinalURL: tt.finalURL, StatusCode: 200}
			if got := Match(obs, site, tt.handle); got.Kind != tt.want {
				t.Fatalf("Match(%q) = %+v, want kind %v", tt.finalURL, got, tt.want)
			}
		})
	}
}

func TestMatchNonTwoHundredIsNotFound(t *testing.T) {
	t.Parallel()

	site := Site{Name: "API", URLTemplate: "https://api.example.net/users/{}"}
	obs := Observation{FinalURL: "https://api.example.net/users/alice", StatusCode: http.StatusNotFound}
	if verdict := Match(obs, site, "alice"); verdict.Kind != VerdictNotFound {
		t.Fatalf("expected 404 to report not found, got %+v", verdict)
	}
}

func TestMatchNoSignalIsIndeterminate(t *testing.T) {
	t.Parallel()

	if verdict := Match(Observation{}, markerSite(), "alice"); verdict.Kind != VerdictIndeterminate {
		t.Fatalf("expected indeterminate for empty observation, got %+v", verdict)
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	site := Site{URLTemplate: "https://example.com/{}/"}
	if got := site.ResolveURL("alice"); got != "https://example.com/alice/" {
		t.Fatalf("unexpected resolved URL %q", got)
	}
}

func TestScoreRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		found, total int
		want         float64
	}{
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Score(tt.found, tt.total); got != tt.want {
			t.Fatalf("Score(%d, %d) = %v, want %v", tt.found, tt.total, got, tt.want)
		}
	}
}
