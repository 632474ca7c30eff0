package stock

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ibm", "IBM"},
		{"IBM", "IBM"},
		{"  aapl ", "AAPL"},
		{"BrK.b", "BRK.B"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeSymbol(tt.in); got != tt.want {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	st := New("ibm")

	if st.Symbol != "IBM" {
		t.Errorf("Symbol = %q, want IBM", st.Symbol)
	}
	if st.Amount != 0 {
		t.Errorf("Amount = %d, want 0", st.Amount)
	}
	if st.Performance == nil {
		t.Error("Performance is nil, want empty map")
	}
	if len(st.Performance) != 0 {
		t.Errorf("Performance has %d entries, want 0", len(st.Performance))
	}
}

func TestApplyQuote_OverwritesQuoteFieldsOnly(t *testing.T) {
	open := 283.38
	st := New("IBM")
	st.Amount = 7
	st.Performance = map[string]string{"1 Week": "+2%"}

	st.ApplyQuote(Quote{Open: &open})

	if st.Open == nil || *st.Open != open {
		t.Errorf("Open = %v, want %v", st.Open, open)
	}
	if st.Amount != 7 {
		t.Errorf("Amount = %d, want 7 (must be preserved)", st.Amount)
	}
	if st.Performance["1 Week"] != "+2%" {
		t.Errorf("Performance = %v, want untouched", st.Performance)
	}

	// A second quote with nil fields clears the previously set ones
	st.ApplyQuote(Quote{})
	if st.Open != nil {
		t.Errorf("Open = %v after empty quote, want nil", *st.Open)
	}
}

func TestSetPerformance_NilBecomesEmptyMap(t *testing.T) {
	st := New("IBM")
	st.SetPerformance(nil)

	if st.Performance == nil {
		t.Fatal("Performance is nil after SetPerformance(nil)")
	}

	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() returned unexpected error: %v", err)
	}
	if !strings.Contains(string(b), `"performance":{}`) {
		t.Errorf("serialized performance is not an empty object: %s", b)
	}
}

func TestClone_Independence(t *testing.T) {
	st := New("IBM")
	st.Performance["1 Week"] = "+2%"

	cp := st.Clone()
	cp.Performance["1 Week"] = "-5%"
	cp.Performance["1 Month"] = "+1%"

	if st.Performance["1 Week"] != "+2%" {
		t.Errorf("original mutated through clone: %v", st.Performance)
	}
	if len(st.Performance) != 1 {
		t.Errorf("original gained entries through clone: %v", st.Performance)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2023-01-09")
	if err != nil {
		t.Fatalf("ParseDate() returned unexpected error: %v", err)
	}

	st := New("IBM")
	st.FromDate = &d

	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() returned unexpected error: %v", err)
	}
	if !strings.Contains(string(b), `"from_date":"2023-01-09"`) {
		t.Errorf("serialized date missing: %s", b)
	}

	var back Stock
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() returned unexpected error: %v", err)
	}
	if back.FromDate == nil || back.FromDate.String() != "2023-01-09" {
		t.Errorf("FromDate = %v, want 2023-01-09", back.FromDate)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "09/01/2023"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", in)
		}
	}
}
