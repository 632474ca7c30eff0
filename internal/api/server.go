package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YakovA/db-israel/internal/fetcher"
	"github.com/YakovA/db-israel/internal/stock"
)

// StockService is the aggregation core consumed by the HTTP layer
type StockService interface {
	GetStock(ctx context.Context, symbol string) (stock.Stock, error)
	UpdateAmount(ctx context.Context, symbol string, delta int) (stock.Stock, error)
}

// Server exposes the stock aggregation service over HTTP
type Server struct {
	service StockService
	logger  *slog.Logger
}

// NewServer creates the HTTP layer on top of the aggregation service
func NewServer(service StockService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		service: service,
		logger:  logger,
	}
}

// Handler returns the full route table wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stock/{symbol}", s.handleGetStock)
	mux.HandleFunc("POST /stock/{symbol}", s.handleUpdateAmount)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	return requestLogger(s.logger, recoverPanic(limitBody(mux)))
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.GetStock(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// amountPayload is the POST /stock/{symbol} request body. Amount is a pointer
// so a missing field can be told apart from an explicit zero.
type amountPayload struct {
	Amount *int `json:"amount"`
}

func (s *Server) handleUpdateAmount(w http.ResponseWriter, r *http.Request) {
	var payload amountPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil || payload.Amount == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid JSON body"})
		return
	}
	if *payload.Amount < 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "amount must be >= 0"})
		return
	}

	st, err := s.service.UpdateAmount(r.Context(), r.PathValue("symbol"), *payload.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, st)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "not checked"})
}

// errorBody is the uniform error response shape
type errorBody struct {
	Detail string `json:"detail"`
}

// writeError maps core errors onto the HTTP surface: upstream failures become
// gateway errors, validation failures become unprocessable entities, anything
// else is an internal error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var upstreamErr *fetcher.UpstreamError
	if errors.As(err, &upstreamErr) {
		writeJSON(w, http.StatusBadGateway, errorBody{Detail: upstreamErr.Error()})
		return
	}
	var validationErr *fetcher.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: validationErr.Error()})
		return
	}
	s.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
