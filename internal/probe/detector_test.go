package probe

import (
	"strings"
	"testing"
)

func TestDetectorFlagsTinyDocuments(t *testing.T) {
	t.Parallel()

	detector := NewRenderHintDetector(2048, nil, []string{"nomatch"})
	obs := Observation{Body: []byte("<html><div id=root></div></html>")}
	if !detector.NeedsRender(obs) {
		t.Fatal("expected tiny body to hint at client-side rendering")
	}
}

func TestDetectorFlagsGatingCopy(t *testing.T) {
	t.Parallel()

	detector := NewRenderHintDetector(0, nil, nil)
	obs := Observation{Body: []byte("<p>Please Enable JavaScript to continue.</p>")}
	if !detector.NeedsRender(obs) {
		t.Fatal("expected gating copy to trip the default keywords")
	}
}

func TestDetectorFlagsMissingSelectors(t *testing.T) {
	t.Parallel()

	detector := NewRenderHintDetector(0, []string{"main article"}, []string{"nomatch"})
	obs := Observation{Body: []byte("<html><body><div id=app></div></body></html>")}
	if !detector.NeedsRender(obs) {
		t.Fatal("expected missing selector to hint")
	}
}

func TestDetectorAcceptsFullDocuments(t *testing.T) {
	t.Parallel()

	body := "<html><body><main><article>" + strings.Repeat("content ", 512) + "</article></main></body></html>"
	detector := NewRenderHintDetector(1024, []string{"main article"}, nil)
	obs := Observation{Body: []byte(body)}
	if detector.NeedsRender(obs) {
		t.Fatal("expected a complete document to pass")
	}
}

func TestDetectorIgnoresRenderedObservations(t *testing.T) {
	t.Parallel()

	detector := NewRenderHintDetector(2048, nil, nil)
	obs := Observation{Rendered: true, Body: []byte("tiny")}
	if detector.NeedsRender(obs) {
		t.Fatal("rendered observations carry no hint")
	}
}

func TestDetectorNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var detector *RenderHintDetector
	if detector.NeedsRender(Observation{Body: []byte("enable javascript")}) {
		t.Fatal("nil detector must report false")
	}
}

func TestDetectorEmptyBodyNoHint(t *testing.T) {
	t.Parallel()

	detector := NewRenderHintDetector(2048, []string{"main"}, nil)
	if detector.NeedsRender(Observation{}) {
		t.Fatal("empty body should not hint; there is nothing to judge")
	}
}
