package stock

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component, serialized as "2006-01-02".
type Date struct {
	time.Time
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Quote is the normalized set of fields produced by the quote upstream.
// All fields are optional; the fetcher turns anything it cannot convert
// into nil instead of failing the fetch.
type Quote struct {
	AfterHours *float64
	Close      *float64
	FromDate   *Date
	High       *float64
	Low        *float64
	Open       *float64
	PreMarket  *float64
	Status     *string
	Volume     *int64
}

// Stock is the merged per-symbol record served by the API. The symbol is the
// sole identity and is always stored uppercase. Amount is client-tracked and
// never derived from upstream data.
type Stock struct {
	Symbol      string            `json:"symbol"`
	AfterHours  *float64          `json:"afterHours"`
	Close       *float64          `json:"close"`
	FromDate    *Date             `json:"from_date"`
	High        *float64          `json:"high"`
	Low         *float64          `json:"low"`
	Open        *float64          `json:"open"`
	PreMarket   *float64          `json:"preMarket"`
	Status      *string           `json:"status"`
	Volume      *int64            `json:"volume"`
	Performance map[string]string `json:"performance"`
	Amount      int               `json:"amount"`
}

// New creates an empty record for symbol with amount 0 and an empty
// performance mapping.
func New(symbol string) Stock {
	return Stock{
		Symbol:      NormalizeSymbol(symbol),
		Performance: map[string]string{},
	}
}

// NormalizeSymbol canonicalizes a ticker symbol for lookups and storage.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ApplyQuote overwrites every quote-sourced field with the freshly fetched
// values, including the nil ones. Performance and Amount are left untouched.
func (s *Stock) ApplyQuote(q Quote) {
	s.AfterHours = q.AfterHours
	s.Close = q.Close
	s.FromDate = q.FromDate
	s.High = q.High
	s.Low = q.Low
	s.Open = q.Open
	s.PreMarket = q.PreMarket
	s.Status = q.Status
	s.Volume = q.Volume
}

// SetPerformance replaces the whole performance mapping. A label missing from
// the new mapping disappears; nil becomes an empty map so the field never
// serializes as null.
func (s *Stock) SetPerformance(perf map[string]string) {
	if perf == nil {
		perf = map[string]string{}
	}
	s.Performance = perf
}

// Clone returns a copy that shares no mutable state with the receiver, so the
// store and the cache can hand out records without cross-request races.
func (s Stock) Clone() Stock {
	out := s
	out.Performance = make(map[string]string, len(s.Performance))
	for k, v := range s.Performance {
		out.Performance[k] = v
	}
	return out
}
