package headless

import (
	"context"
	"errors"

	"github.com/osintkit/handlescan/internal/probe"
)

// Noop implements probe.Fetcher but always returns an error, standing in
// when headless browsing is disabled. Sites declared as rendered then
// resolve to the error outcome instead of producing misleading verdicts.
type Noop struct{}

// NewNoop creates a new Noop fetcher.
func NewNoop() *Noop {
	return &Noop{}
}

// Fetch returns an error since this is a stub implementation.
func (Noop) Fetch(context.Context, string) (probe.Observation, error) {
	return probe.Observation{}, errors.New("headless fetcher not configured")
}
