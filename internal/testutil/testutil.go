package testutil

import (
	"context"
	"sync/atomic"

	"github.com/YakovA/db-israel/internal/stock"
)

// MockQuoteFetcher is a mock implementation of the service.QuoteFetcher
// interface. Calls counts Fetch invocations and is safe for concurrent use.
type MockQuoteFetcher struct {
	FetchFunc func(ctx context.Context, symbol string) (stock.Quote, error)
	Calls     atomic.Int32
}

// Fetch implements the QuoteFetcher interface
func (m *MockQuoteFetcher) Fetch(ctx context.Context, symbol string) (stock.Quote, error) {
	m.Calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return stock.Quote{}, nil
}

// MockPageFetcher is a mock implementation of the service.PageFetcher
// interface.
type MockPageFetcher struct {
	FetchFunc func(ctx context.Context, symbol string) (string, error)
	Calls     atomic.Int32
}

// Fetch implements the PageFetcher interface
func (m *MockPageFetcher) Fetch(ctx context.Context, symbol string) (string, error) {
	m.Calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return "", nil
}

// NewMockQuoteFetcher creates a quote mock returning fixed values
func NewMockQuoteFetcher(quote stock.Quote, err error) *MockQuoteFetcher {
	return &MockQuoteFetcher{
		FetchFunc: func(context.Context, string) (stock.Quote, error) {
			return quote, err
		},
	}
}

// NewMockPageFetcher creates a page mock returning fixed values
func NewMockPageFetcher(html string, err error) *MockPageFetcher {
	return &MockPageFetcher{
		FetchFunc: func(context.Context, string) (string, error) {
			return html, err
		},
	}
}

// Float64 returns a pointer to v, for building expected quotes in tests
func Float64(v float64) *float64 {
	return &v
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v
func String(v string) *string {
	return &v
}

// PerformanceHTML wraps rows of a MarketWatch-shaped performance table for
// parser and end-to-end tests.
func PerformanceHTML(rows ...[2]string) string {
	html := `<html><body><div class="element element--table performance"><table><tbody>`
	for _, row := range rows {
		html += `<tr class="table__row">` +
			`<td class="table__cell">` + row[0] + `</td>` +
			`<td class="table__cell"><ul><li class="content__item value ignore-color">` + row[1] + `</li></ul></td>` +
			`</tr>`
	}
	html += `</tbody></table></div></body></html>`
	return html
}
