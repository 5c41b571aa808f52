package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserversDoNotPanic(t *testing.T) {
	ObserveProbe("Instagram", "rendered", "found", 1200*time.Millisecond)
	ObserveProbe("GitHub", "lightweight", "error", 0)
	ObservePacingDelay("example.com", 900*time.Millisecond)
	ObserveRenderHint("Facebook")
	ObserveScanStart()
}

func TestRenderedSessionGaugeBalances(t *testing.T) {
	before := testutil.ToFloat64(activeRenderedSessions)
	IncRenderedSessions()
	IncRenderedSessions()
	if got := testutil.ToFloat64(activeRenderedSessions); got != before+2 {
		t.Fatalf("gauge = %v, want %v", got, before+2)
	}
	DecRenderedSessions()
	DecRenderedSessions()
	if got := testutil.ToFloat64(activeRenderedSessions); got != before {
		t.Fatalf("gauge = %v, want %v", got, before)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveProbe("Twitter", "rendered", "not_found", 500*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"handlescan_probes_total",
		"handlescan_probe_duration_seconds",
		"handlescan_scans_total",
		"handlescan_active_rendered_sessions",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %s", want)
		}
	}
}
