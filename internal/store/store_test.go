package store

import (
	"testing"

	"github.com/YakovA/db-israel/internal/stock"
)

func TestStore_GetMissing(t *testing.T) {
	s := New()

	if _, ok := s.Get("IBM"); ok {
		t.Error("Get() on empty store reported a hit")
	}
}

func TestStore_UpsertAndGet_CaseInsensitive(t *testing.T) {
	s := New()
	st := stock.New("IBM")
	st.Amount = 5
	s.Upsert(st)

	for _, symbol := range []string{"IBM", "ibm", " Ibm "} {
		got, ok := s.Get(symbol)
		if !ok {
			t.Fatalf("Get(%q) missed", symbol)
		}
		if got.Symbol != "IBM" || got.Amount != 5 {
			t.Errorf("Get(%q) = %+v, want symbol IBM amount 5", symbol, got)
		}
	}
}

func TestStore_UpsertOverwrites(t *testing.T) {
	s := New()

	first := stock.New("IBM")
	first.Amount = 1
	s.Upsert(first)

	second := stock.New("ibm")
	second.Amount = 9
	s.Upsert(second)

	got, ok := s.Get("IBM")
	if !ok {
		t.Fatal("Get() missed after upsert")
	}
	if got.Amount != 9 {
		t.Errorf("Amount = %d, want 9 (last write wins)", got.Amount)
	}
}

func TestStore_CopySemantics(t *testing.T) {
	s := New()
	st := stock.New("IBM")
	st.Performance["1 Week"] = "+2%"
	s.Upsert(st)

	// Mutating what Upsert was given must not affect the stored record
	st.Performance["1 Week"] = "hacked"

	got, _ := s.Get("IBM")
	if got.Performance["1 Week"] != "+2%" {
		t.Errorf("stored record mutated through caller's map: %v", got.Performance)
	}

	// Mutating what Get returned must not affect the stored record either
	got.Performance["1 Week"] = "hacked"
	again, _ := s.Get("IBM")
	if again.Performance["1 Week"] != "+2%" {
		t.Errorf("stored record mutated through returned map: %v", again.Performance)
	}
}
