package state

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/parlo-app/parlo/go/pkg/analysis"
)

// SeriesCache memoizes computed envelope/pitch series keyed by media
// fingerprint plus an options variant tag, letting repeated practice over the
// same clip skip the analysis pipeline across restarts.
type SeriesCache struct {
	b backend
}

// Get returns the cached series, or ErrNotFound.
func (c *SeriesCache) Get(_ context.Context, fingerprint, variant string) (*analysis.Series, error) {
	raw, err := c.b.get(seriesKey(fingerprint, variant))
	if err != nil {
		return nil, err
	}
	var s analysis.Series
	if err := msgpack.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("state: decode series %s/%s: %w", fingerprint, variant, err)
	}
	return &s, nil
}

// Put stores the series, replacing any previous value.
func (c *SeriesCache) Put(_ context.Context, fingerprint, variant string, s *analysis.Series) error {
	raw, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("state: encode series %s/%s: %w", fingerprint, variant, err)
	}
	return c.b.set(seriesKey(fingerprint, variant), raw)
}
