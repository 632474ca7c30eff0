package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/YakovA/db-israel/internal/cache"
	"github.com/YakovA/db-israel/internal/fetcher"
	"github.com/YakovA/db-israel/internal/marketwatch"
	"github.com/YakovA/db-israel/internal/stock"
	"github.com/YakovA/db-israel/internal/store"
)

// QuoteFetcher fetches normalized quote fields for one symbol
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol string) (stock.Quote, error)
}

// PageFetcher retrieves the raw performance page markup for one symbol
type PageFetcher interface {
	Fetch(ctx context.Context, symbol string) (string, error)
}

// Service is the aggregation core. It fans out to the quote and performance
// upstreams concurrently, merges the results with the stored record and
// serves from a TTL cache to bound upstream load.
type Service struct {
	quotes QuoteFetcher
	pages  PageFetcher
	store  *store.Store
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates the aggregation service
func New(quotes QuoteFetcher, pages PageFetcher, st *store.Store, c *cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		quotes: quotes,
		pages:  pages,
		store:  st,
		cache:  c,
		logger: logger,
	}
}

// GetStock returns the aggregated record for symbol, serving from the TTL
// cache when possible.
//
// On a miss, both upstream branches run concurrently and must both succeed
// before anything is merged: if either fails, the whole call fails with that
// branch's error and no state is touched. On success the fresh quote fields
// and performance mapping fully replace the stored ones while the tracked
// amount is preserved. The merged record is written to both the store and the
// cache.
func (s *Service) GetStock(ctx context.Context, symbol string) (stock.Stock, error) {
	sym := stock.NormalizeSymbol(symbol)

	if st, ok := s.cache.Get(sym); ok {
		s.logger.Debug("cache hit", "symbol", sym)
		return st, nil
	}

	var (
		quote stock.Quote
		perf  map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.quotes.Fetch(gctx, sym)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		html, err := s.pages.Fetch(gctx, sym)
		if err != nil {
			return err
		}
		perf = marketwatch.ParsePerformance(html)
		return nil
	})
	if err := g.Wait(); err != nil {
		return stock.Stock{}, err
	}

	st, ok := s.store.Get(sym)
	if !ok {
		st = stock.New(sym)
	}
	st.ApplyQuote(quote)
	st.SetPerformance(perf)

	s.store.Upsert(st)
	s.cache.Set(sym, st)
	return st, nil
}

// UpdateAmount adjusts the tracked holding count for symbol by delta, on top
// of the current (possibly cached) record. A delta that would drive the
// amount below zero is rejected with a ValidationError.
func (s *Service) UpdateAmount(ctx context.Context, symbol string, delta int) (stock.Stock, error) {
	st, err := s.GetStock(ctx, symbol)
	if err != nil {
		return stock.Stock{}, err
	}

	if st.Amount+delta < 0 {
		return stock.Stock{}, fetcher.NewValidationError(
			fmt.Sprintf("amount cannot go below zero: have %d, delta %d", st.Amount, delta))
	}
	st.Amount += delta

	s.store.Upsert(st)
	s.cache.Set(st.Symbol, st)

	s.logger.Info("amount updated", "symbol", st.Symbol, "delta", delta, "amount", st.Amount)
	return st, nil
}
