package core

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"integer", "150000", 150000, true},
		{"decimal", "1234.56", 1234.56, true},
		{"leading decimal point", ".5", 0.5, true},
		{"zero", "0", 0, true},
		{"dollar with separators", "$1,234,567.89", 1234567.89, true},
		{"euro", "€90000", 90000, true},
		{"pound", "£1200", 1200, true},
		{"inner spaces", "150 000", 150000, true},
		{"currency suffix", "85000 USD", 85000, true},
		{"surrounding whitespace", "  42  ", 42, true},
		{"negative", "-5", 0, false},
		{"accounting negative", "(100)", 0, false},
		{"text", "cheap", 0, false},
		{"mixed", "12abc", 0, false},
		{"only symbol", "$", 0, false},
		{"two points", "1.2.3", 0, false},
		{"scientific", "1e9", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAmount(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseAmount(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{" 0 ", 0, true},
		{"2.0", 2, true},
		{"2.5", 0, false},
		{"-1", 0, false},
		{"2147483647", 2147483647, true},
		{"2147483648", 0, false},
		{"5000000000", 0, false},
		{"three", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseCount(tt.input)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("parseCount(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatAmountRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 150000, 1234.56, 0.1, 99999999.99} {
		v := v
		s := formatAmount(&v)
		back, ok := parseAmount(s)
		if !ok || back != v {
			t.Errorf("round trip %v -> %q -> %v (ok=%v)", v, s, back, ok)
		}
	}
	if formatAmount(nil) != "" || formatCount(nil) != "" {
		t.Error("nil values should format as empty")
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Jane  ", "Jane"},
		{`="+998901234567"`, "+998901234567"},
		{`=" 42 "`, "42"},
		{`=SUM(A1)`, "=SUM(A1)"},
		{`="`, `="`},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := cleanCell(tt.input); got != tt.want {
				t.Errorf("cleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
