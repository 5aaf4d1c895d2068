package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjannette/newsimpact-backend/internal/external"
	"github.com/kjannette/newsimpact-backend/internal/models"
)

type fakeSource struct {
	series map[string]models.TimeSeries
	errs   map[string]error
	calls  map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		series: map[string]models.TimeSeries{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeSource) FetchDaily(ctx context.Context, symbol string) (models.TimeSeries, error) {
	f.calls[symbol]++
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if s, ok := f.series[symbol]; ok {
		return s, nil
	}
	return nil, &external.LookupError{Kind: models.ErrNoSeries, Symbol: symbol}
}

func (f *fakeSource) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func TestLookup_CacheIdempotence(t *testing.T) {
	src := newFakeSource()
	src.series["TSLA"] = holidaySeries()
	svc := NewService(src, nil)
	ctx := context.Background()

	first, err := svc.Lookup(ctx, "TSLA", "2025-12-25")
	require.NoError(t, err)
	second, err := svc.Lookup(ctx, "TSLA", "2025-12-25")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.total())
	assert.Equal(t, "2025-12-24", first.Date)
}

func TestLookup_SeriesReusedAcrossDates(t *testing.T) {
	src := newFakeSource()
	src.series["TSLA"] = holidaySeries()
	svc := NewService(src, nil)
	ctx := context.Background()

	_, _ = svc.Lookup(ctx, "TSLA", "2025-12-25")
	r, _ := svc.Lookup(ctx, "TSLA", "2025-12-23")

	assert.Equal(t, 1, src.calls["TSLA"])
	assert.Equal(t, "2025-12-23", r.Date)
}

func TestLookup_ProviderErrorIsCached(t *testing.T) {
	src := newFakeSource()
	src.errs["AAPL"] = &external.LookupError{Kind: models.ErrAPILimitOrError, Symbol: "AAPL"}
	svc := NewService(src, nil)
	ctx := context.Background()

	r1, err := svc.Lookup(ctx, "AAPL", "2025-12-25")
	require.NoError(t, err)
	r2, err := svc.Lookup(ctx, "AAPL", "2025-12-25")
	require.NoError(t, err)

	assert.Equal(t, models.ErrAPILimitOrError, r1.Error)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, src.calls["AAPL"])
}

func TestLookup_AlignmentErrorIsCached(t *testing.T) {
	src := newFakeSource()
	src.series["TSLA"] = holidaySeries()
	svc := NewService(src, nil)

	r, _ := svc.Lookup(context.Background(), "TSLA", "2030-01-01")
	assert.Equal(t, models.ErrOutOfRange, r.Error)

	cached, ok := svc.Cache().Get("TSLA", "2030-01-01")
	require.True(t, ok)
	assert.Equal(t, r, cached)
}

func TestLookup_AbandonedLookupNotCached(t *testing.T) {
	src := newFakeSource()
	src.errs["MSFT"] = context.Canceled
	svc := NewService(src, nil)

	_, err := svc.Lookup(context.Background(), "MSFT", "2025-12-25")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	_, ok := svc.Cache().Get("MSFT", "2025-12-25")
	assert.False(t, ok)
}

func TestCache_PurgeAndStats(t *testing.T) {
	c := NewCache()
	c.Put("TSLA", "2025-12-25", models.Resolved("2025-12-24", 1))
	c.PutSeries("TSLA", holidaySeries())

	_, hit := c.Get("TSLA", "2025-12-25")
	_, miss := c.Get("TSLA", "2025-12-26")
	assert.True(t, hit)
	assert.False(t, miss)

	st := c.Stats()
	assert.Equal(t, CacheStats{Results: 1, Series: 1, Hits: 1, Misses: 1}, st)

	assert.Equal(t, 1, c.Purge())
	_, ok := c.Series("TSLA")
	assert.False(t, ok)
}
