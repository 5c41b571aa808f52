package probe

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RenderHintDetector inspects lightweight observations for signals that the
// page only reveals its content after client-side rendering. Its answer is
// advisory: the runner logs and counts hints so operators can move a site to
// the rendered strategy, but verdicts are never changed.
type RenderHintDetector struct {
	minHTMLBytes int
	keywords     [][]byte
	selectors    []string
}

// Default signals: tiny documents, SPA root markers, and bot-challenge copy.
var defaultHintKeywords = []string{
	"enable javascript",
	"javascript is required",
	"checking your browser",
}

// NewRenderHintDetector constructs a detector with the given thresholds.
// Zero minBytes disables the size check; nil slices fall back to defaults.
func NewRenderHintDetector(minBytes int, selectors, keywords []string) *RenderHintDetector {
	if keywords == nil {
		keywords = defaultHintKeywords
	}
	lowered := make([][]byte, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lowered = append(lowered, bytes.ToLower([]byte(kw)))
	}
	return &RenderHintDetector{
		minHTMLBytes: minBytes,
		keywords:     lowered,
		selectors:    selectors,
	}
}

// NeedsRender reports whether the observation looks JS-gated.
func (d *RenderHintDetector) NeedsRender(obs Observation) bool {
	if d == nil || obs.Rendered {
		return false
	}
	switch {
	case d.minHTMLBytes > 0 && len(obs.Body) > 0 && len(obs.Body) < d.minHTMLBytes:
		return true
	case d.containsKeywords(obs.Body):
		return true
	default:
		return d.missingSelectors(obs.Body)
	}
}

func (d *RenderHintDetector) containsKeywords(body []byte) bool {
	if len(body) == 0 || len(d.keywords) == 0 {
		return false
	}
	lowerBody := bytes.ToLower(body)
	for _, kw := range d.keywords {
		if bytes.Contains(lowerBody, kw) {
			return true
		}
	}
	return false
}

func (d *RenderHintDetector) missingSelectors(body []byte) bool {
	if len(d.selectors) == 0 || len(body) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return true
	}
	for _, sel := range d.selectors {
		if sel == "" {
			continue
		}
		if doc.Find(sel).Length() == 0 {
			return true
		}
	}
	return false
}
