package store

import (
	"sync"

	"github.com/YakovA/db-israel/internal/stock"
)

// Store holds the latest known record per symbol for the process lifetime.
// It is volatile: everything is lost on restart. Records are never deleted.
type Store struct {
	mu     sync.RWMutex
	stocks map[string]stock.Stock
}

// New creates an empty store
func New() *Store {
	return &Store{
		stocks: make(map[string]stock.Stock),
	}
}

// Get returns a copy of the stored record for symbol. Lookups are
// case-insensitive.
func (s *Store) Get(symbol string) (stock.Stock, bool) {
	key := stock.NormalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stocks[key]
	if !ok {
		return stock.Stock{}, false
	}
	return st.Clone(), true
}

// Upsert stores a copy of st under its normalized symbol, inserting or
// overwriting as needed, and returns the record unchanged.
func (s *Store) Upsert(st stock.Stock) stock.Stock {
	key := stock.NormalizeSymbol(st.Symbol)

	s.mu.Lock()
	s.stocks[key] = st.Clone()
	s.mu.Unlock()

	return st
}
