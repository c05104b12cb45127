// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"encoding/json"
	"testing"
)

func TestParseWinston(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "zero", raw: "0"},
		{name: "small", raw: "12345"},
		{name: "beyond int64", raw: "66000000000000000000"},
		{name: "empty", raw: "", wantErr: true},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "not a number", raw: "12ab", wantErr: true},
		{name: "decimal point", raw: "1.5", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, err := ParseWinston(test.raw)
			if test.wantErr {
				if err == nil {
					t.Fatalf("ParseWinston(%q) succeeded, want error", test.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWinston(%q): %v", test.raw, err)
			}
			if w.String() != test.raw {
				t.Errorf("String() = %q, want %q", w.String(), test.raw)
			}
		})
	}
}

func TestWinstonAdd(t *testing.T) {
	a := MustParseWinston("66000000000000000000")
	b := NewWinston(1)
	sum := a.Add(b)

	if got := sum.String(); got != "66000000000000000001" {
		t.Errorf("Add = %s, want 66000000000000000001", got)
	}
	// Immutability: the operands are unchanged.
	if a.String() != "66000000000000000000" {
		t.Errorf("Add mutated receiver: %s", a.String())
	}
	if b.String() != "1" {
		t.Errorf("Add mutated argument: %s", b.String())
	}
}

func TestWinstonCmp(t *testing.T) {
	small := NewWinston(5)
	large := NewWinston(10)

	if got := small.Cmp(large); got != -1 {
		t.Errorf("small.Cmp(large) = %d, want -1", got)
	}
	if got := large.Cmp(small); got != 1 {
		t.Errorf("large.Cmp(small) = %d, want 1", got)
	}
	if got := small.Cmp(NewWinston(5)); got != 0 {
		t.Errorf("small.Cmp(equal) = %d, want 0", got)
	}
}

func TestWinstonIsZero(t *testing.T) {
	var zero Winston
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if NewWinston(0).IsZero() != true {
		t.Error("NewWinston(0) should report IsZero")
	}
	if NewWinston(1).IsZero() {
		t.Error("NewWinston(1) should not report IsZero")
	}
}

func TestWinstonMulRatCeil(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		numerator   int64
		denominator int64
		want        string
	}{
		{name: "exact division", amount: "200", numerator: 15, denominator: 100, want: "30"},
		{name: "rounds up", amount: "1", numerator: 15, denominator: 100, want: "1"},
		{name: "rounds up large", amount: "1001", numerator: 15, denominator: 100, want: "151"},
		{name: "zero amount", amount: "0", numerator: 15, denominator: 100, want: "0"},
		{name: "full percent", amount: "7", numerator: 100, denominator: 100, want: "7"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := MustParseWinston(test.amount)
			got := w.MulRatCeil(test.numerator, test.denominator)
			if got.String() != test.want {
				t.Errorf("%s * %d/%d = %s, want %s", test.amount, test.numerator, test.denominator, got.String(), test.want)
			}
		})
	}
}

func TestWinstonMulRatCeilNeverZeroForPositiveInput(t *testing.T) {
	// Any positive amount at any positive rate must round to at least
	// one winston, never to zero.
	one := NewWinston(1)
	got := one.MulRatCeil(1, 1_000_000)
	if got.IsZero() {
		t.Error("ceil rounding produced zero for a positive product")
	}
}

func TestWinstonMulFloatCeil(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		multiplier float64
		want       string
	}{
		{name: "identity", amount: "1000", multiplier: 1.0, want: "1000"},
		{name: "boost", amount: "1000", multiplier: 1.5, want: "1500"},
		{name: "rounds up", amount: "3", multiplier: 1.1, want: "4"},
		{name: "zero multiplier", amount: "1000", multiplier: 0, want: "0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := MustParseWinston(test.amount)
			got := w.MulFloatCeil(test.multiplier)
			if got.String() != test.want {
				t.Errorf("%s * %v = %s, want %s", test.amount, test.multiplier, got.String(), test.want)
			}
		})
	}
}

func TestWinstonAR(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "0", want: "0.000000000000"},
		{raw: "1", want: "0.000000000001"},
		{raw: "1000000000000", want: "1.000000000000"},
		{raw: "1234567890123456", want: "1234.567890123456"},
	}

	for _, test := range tests {
		if got := MustParseWinston(test.raw).AR(); got != test.want {
			t.Errorf("AR(%s) = %q, want %q", test.raw, got, test.want)
		}
	}
}

func TestWinstonJSONRoundtrip(t *testing.T) {
	original := MustParseWinston("66000000000000000000")

	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `"66000000000000000000"` {
		t.Errorf("Marshal = %s, want quoted decimal string", encoded)
	}

	var decoded Winston
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Cmp(original) != 0 {
		t.Errorf("roundtrip mismatch: got %s, want %s", decoded, original)
	}
}

func TestNewWinstonPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewWinston(-1) should panic")
		}
	}()
	NewWinston(-1)
}
