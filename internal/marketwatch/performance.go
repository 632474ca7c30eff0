package marketwatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"resty.dev/v3"

	"github.com/YakovA/db-israel/internal/fetcher"
	"github.com/YakovA/db-israel/internal/ratelimit"
	"github.com/YakovA/db-israel/internal/stock"
)

const upstreamName = "Marketwatch"

// MarketWatch varies responses by client headers, so the fetcher presents
// itself as a regular desktop browser.
const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/123.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"
)

// PageFetcher retrieves the raw HTML of a symbol's performance page.
// It does not parse; see ParsePerformance.
type PageFetcher struct {
	urlTemplate string
	client      *resty.Client
	limiter     *ratelimit.Limiter
	logger      *slog.Logger
}

// NewPageFetcher creates a new performance page fetcher. The URL template must
// contain a {symbol} placeholder.
func NewPageFetcher(urlTemplate string, timeout time.Duration, limiter *ratelimit.Limiter, logger *slog.Logger) *PageFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	client := fetcher.NewHTTPClient(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", acceptLanguage)

	return &PageFetcher{
		urlTemplate: urlTemplate,
		client:      client,
		limiter:     limiter,
		logger:      logger,
	}
}

// Fetch issues a single GET for the symbol's page and returns the raw markup
func (f *PageFetcher) Fetch(ctx context.Context, symbol string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, ratelimit.UpstreamMarketwatch); err != nil {
			return "", err
		}
	}

	url := strings.ReplaceAll(f.urlTemplate, "{symbol}", stock.NormalizeSymbol(symbol))

	f.logger.Info("fetching marketwatch data", "symbol", symbol)

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch performance page for %s: %w", symbol, err)
	}

	if resp.StatusCode() != http.StatusOK {
		f.logger.Error("marketwatch error", "symbol", symbol, "status_code", resp.StatusCode())
		return "", fetcher.NewUpstreamStatusError(upstreamName, resp.StatusCode())
	}

	return resp.String(), nil
}

// ParsePerformance extracts the label/value pairs from the performance table
// in raw MarketWatch markup, e.g. "1 Week" -> "+2%".
//
// A missing table is not an error: upstream markup changes are expected and
// must degrade to an empty mapping. Rows that do not have exactly two cells,
// or whose value cell lacks the nested value element, are skipped. Duplicate
// labels keep the last value seen.
func ParsePerformance(html string) map[string]string {
	perf := map[string]string{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return perf
	}

	table := doc.Find("div.element--table.performance").First()
	if table.Length() == 0 {
		return perf
	}

	table.Find("tr.table__row").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td.table__cell")
		if cells.Length() != 2 {
			return
		}
		value := cells.Eq(1).Find("li.content__item.value.ignore-color").First()
		if value.Length() == 0 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		perf[label] = strings.TrimSpace(value.Text())
	})

	return perf
}
