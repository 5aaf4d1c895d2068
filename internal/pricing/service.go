// Package pricing resolves article dates to trading-day closes on top of a
// rate-limited price source and an in-memory cache.
package pricing

import (
	"context"
	"errors"
	"sync"

	"github.com/phuslu/log"

	"github.com/kjannette/newsimpact-backend/internal/external"
	"github.com/kjannette/newsimpact-backend/internal/models"
)

// Source fetches the full daily series for a symbol. Classified provider
// failures are reported as *external.LookupError.
type Source interface {
	FetchDaily(ctx context.Context, symbol string) (models.TimeSeries, error)
}

// Service is the single entry point for price lookups. Lookups run one at
// a time: the slot is held across the cache check, the provider call and
// the cache store, so every caller shares one cooldown and one cache.
type Service struct {
	source Source
	cache  *Cache

	slot sync.Mutex
}

func NewService(source Source, cache *Cache) *Service {
	if cache == nil {
		cache = NewCache()
	}
	return &Service{source: source, cache: cache}
}

func (s *Service) Cache() *Cache {
	return s.cache
}

// Lookup resolves the close for a normalized ticker on or before date.
// The returned error is non-nil only when the lookup was abandoned through
// ctx; such results are not cached.
func (s *Service) Lookup(ctx context.Context, ticker, date string) (models.PriceLookupResult, error) {
	s.slot.Lock()
	defer s.slot.Unlock()

	if r, ok := s.cache.Get(ticker, date); ok {
		log.Debug().Str("ticker", ticker).Str("date", date).Msg("pricing: cache hit")
		return r, nil
	}

	series, ok := s.cache.Series(ticker)
	if !ok {
		fetched, err := s.source.FetchDaily(ctx, ticker)
		if err != nil {
			var le *external.LookupError
			if !errors.As(err, &le) {
				return models.Failed(models.ErrAPILimitOrError), err
			}
			log.Warn().Str("ticker", ticker).Str("kind", string(le.Kind)).Err(err).Msg("pricing: provider lookup failed")
			r := models.Failed(le.Kind)
			s.cache.Put(ticker, date, r)
			return r, nil
		}
		s.cache.PutSeries(ticker, fetched)
		series = fetched
	}

	r := ResolveClose(series, date)
	s.cache.Put(ticker, date, r)

	ev := log.Info().Str("ticker", ticker).Str("date", date)
	if r.OK() {
		ev.Str("tradingDay", r.Date).Float64("close", r.Close).Msg("pricing: resolved")
	} else {
		ev.Str("kind", string(r.Error)).Msg("pricing: unresolved")
	}
	return r, nil
}
