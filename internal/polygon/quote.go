package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/YakovA/db-israel/internal/fetcher"
	"github.com/YakovA/db-israel/internal/ratelimit"
	"github.com/YakovA/db-israel/internal/stock"
)

const upstreamName = "Polygon"

// QuoteFetcher fetches daily quote data from the Polygon API
type QuoteFetcher struct {
	apiKey      string
	urlTemplate string
	client      *resty.Client
	limiter     *ratelimit.Limiter
	logger      *slog.Logger
	now         func() time.Time
}

// NewQuoteFetcher creates a new quote fetcher. The URL template must contain
// {symbol}, {key} and {last_trade_day} placeholders.
func NewQuoteFetcher(apiKey, urlTemplate string, timeout time.Duration, limiter *ratelimit.Limiter, logger *slog.Logger) *QuoteFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	client := fetcher.NewHTTPClient(timeout).
		SetHeader("Accept", "application/json")

	return &QuoteFetcher{
		apiKey:      apiKey,
		urlTemplate: urlTemplate,
		client:      client,
		limiter:     limiter,
		logger:      logger,
		now:         time.Now,
	}
}

// Fetch retrieves the previous trading day's quote for symbol and normalizes
// it into typed optional fields. It populates quote fields only; performance
// and amount are owned by other components.
func (f *QuoteFetcher) Fetch(ctx context.Context, symbol string) (stock.Quote, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, ratelimit.UpstreamPolygon); err != nil {
			return stock.Quote{}, err
		}
	}

	lastTradeDay := f.now().AddDate(0, 0, -1).Format("2006-01-02")
	url := strings.NewReplacer(
		"{symbol}", stock.NormalizeSymbol(symbol),
		"{key}", f.apiKey,
		"{last_trade_day}", lastTradeDay,
	).Replace(f.urlTemplate)

	f.logger.Info("fetching polygon data", "symbol", symbol)

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return stock.Quote{}, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	if !resp.IsSuccess() {
		f.logger.Error("polygon API error", "symbol", symbol, "status_code", resp.StatusCode())
		return stock.Quote{}, fetcher.NewUpstreamStatusError(upstreamName, resp.StatusCode())
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Bytes(), &data); err != nil {
		return stock.Quote{}, fmt.Errorf("failed to decode quote for %s: %w", symbol, err)
	}

	if status, _ := data["status"].(string); status != "OK" {
		f.logger.Warn("no data from polygon", "symbol", symbol)
		return stock.Quote{}, fetcher.NewUpstreamDataError(upstreamName, "No data from Polygon")
	}

	return stock.Quote{
		AfterHours: toPrice(data["afterHours"]),
		Close:      toPrice(data["close"]),
		FromDate:   toDate(data["from"]),
		High:       toPrice(data["high"]),
		Low:        toPrice(data["low"]),
		Open:       toPrice(data["open"]),
		PreMarket:  toPrice(data["preMarket"]),
		Status:     toString(data["status"]),
		Volume:     toVolume(data["volume"]),
	}, nil
}

// toFloat converts a raw JSON value to a float64 when possible
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toPrice converts a raw JSON value to an optional non-negative price.
// Missing, unparsable or negative values become nil rather than failing the
// fetch.
func toPrice(v any) *float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return nil
	}
	return &f
}

func toVolume(v any) *int64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return nil
	}
	n := int64(f)
	return &n
}

func toDate(v any) *stock.Date {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	d, err := stock.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func toString(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
