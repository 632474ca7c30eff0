package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/YakovA/db-israel/internal/fetcher"
	"github.com/YakovA/db-israel/internal/stock"
)

// stubService is a canned StockService for handler tests
type stubService struct {
	getStock     func(ctx context.Context, symbol string) (stock.Stock, error)
	updateAmount func(ctx context.Context, symbol string, delta int) (stock.Stock, error)
}

func (s *stubService) GetStock(ctx context.Context, symbol string) (stock.Stock, error) {
	return s.getStock(ctx, symbol)
}

func (s *stubService) UpdateAmount(ctx context.Context, symbol string, delta int) (stock.Stock, error) {
	return s.updateAmount(ctx, symbol, delta)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	handler := NewServer(&stubService{}, nil).Handler()
	rr := doRequest(t, handler, http.MethodGet, "/healthz", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status ok", body)
	}
}

func TestReadyz(t *testing.T) {
	handler := NewServer(&stubService{}, nil).Handler()
	rr := doRequest(t, handler, http.MethodGet, "/readyz", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["database"] != "not checked" {
		t.Errorf("body = %v, want status ok and database not checked", body)
	}
}

func TestGetStock_OK(t *testing.T) {
	svc := &stubService{
		getStock: func(_ context.Context, symbol string) (stock.Stock, error) {
			st := stock.New(symbol)
			st.Performance["1 Week"] = "+2%"
			return st, nil
		},
	}
	rr := doRequest(t, NewServer(svc, nil).Handler(), http.MethodGet, "/stock/ibm", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rr.Code, rr.Body.String())
	}
	var st stock.Stock
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Symbol != "IBM" {
		t.Errorf("symbol = %q, want IBM", st.Symbol)
	}
	if st.Performance["1 Week"] != "+2%" {
		t.Errorf("performance = %v, want 1 Week -> +2%%", st.Performance)
	}
}

func TestGetStock_UpstreamFailureIs502(t *testing.T) {
	svc := &stubService{
		getStock: func(context.Context, string) (stock.Stock, error) {
			return stock.Stock{}, fetcher.NewUpstreamStatusError("Polygon", 500)
		},
	}
	rr := doRequest(t, NewServer(svc, nil).Handler(), http.MethodGet, "/stock/IBM", "")

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Detail != "Polygon returned 500" {
		t.Errorf("detail = %q, want %q", body.Detail, "Polygon returned 500")
	}
}

func TestUpdateAmount_Accepted(t *testing.T) {
	var gotDelta int
	svc := &stubService{
		updateAmount: func(_ context.Context, symbol string, delta int) (stock.Stock, error) {
			gotDelta = delta
			st := stock.New(symbol)
			st.Amount = delta
			return st, nil
		},
	}
	rr := doRequest(t, NewServer(svc, nil).Handler(), http.MethodPost, "/stock/IBM", `{"amount": 5}`)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", rr.Code, rr.Body.String())
	}
	if gotDelta != 5 {
		t.Errorf("delta = %d, want 5", gotDelta)
	}
	var st stock.Stock
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Amount != 5 {
		t.Errorf("amount = %d, want 5", st.Amount)
	}
}

func TestUpdateAmount_BadBodies(t *testing.T) {
	svc := &stubService{
		updateAmount: func(_ context.Context, symbol string, delta int) (stock.Stock, error) {
			t.Fatal("core reached despite invalid body")
			return stock.Stock{}, nil
		},
	}
	handler := NewServer(svc, nil).Handler()

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"negative amount", `{"amount": -1}`, http.StatusUnprocessableEntity},
		{"missing amount", `{}`, http.StatusBadRequest},
		{"not JSON", `amount=5`, http.StatusBadRequest},
		{"unknown field", `{"amounts": 5}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, handler, http.MethodPost, "/stock/IBM", tt.body)
			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestUpdateAmount_ValidationErrorIs422(t *testing.T) {
	svc := &stubService{
		updateAmount: func(context.Context, string, int) (stock.Stock, error) {
			return stock.Stock{}, fetcher.NewValidationError("amount cannot go below zero: have 0, delta -3")
		},
	}
	// The body itself is valid; the core rejects the resulting amount
	rr := doRequest(t, NewServer(svc, nil).Handler(), http.MethodPost, "/stock/IBM", `{"amount": 0}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	svc := &stubService{
		getStock: func(_ context.Context, symbol string) (stock.Stock, error) {
			return stock.New(symbol), nil
		},
	}
	handler := NewServer(svc, nil).Handler()

	rr := doRequest(t, handler, http.MethodGet, "/stock/IBM", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}

	req := httptest.NewRequest(http.MethodGet, "/stock/IBM", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req)
	if got := rr2.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("X-Request-ID = %q, want the client's value echoed", got)
	}
}
