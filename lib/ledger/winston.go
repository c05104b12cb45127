// Copyright 2026 The ArDrive CLI Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"fmt"
	"math/big"
)

// winstonPerAR is the number of winston in one AR token.
var winstonPerAR = big.NewInt(1_000_000_000_000)

// Winston is a non-negative amount of the ledger's native currency in
// its smallest indivisible unit. Amounts on the ledger can exceed the
// int64 range, so Winston wraps an arbitrary-precision integer.
//
// Winston is an immutable value type: arithmetic methods return new
// values and never mutate the receiver. The zero value is a valid
// zero amount.
type Winston struct {
	value big.Int
}

// NewWinston returns a Winston for the given amount. Panics if amount
// is negative; amounts from untrusted input go through ParseWinston.
func NewWinston(amount int64) Winston {
	if amount < 0 {
		panic(fmt.Sprintf("ledger.NewWinston(%d): negative amount", amount))
	}
	var w Winston
	w.value.SetInt64(amount)
	return w
}

// ParseWinston parses a base-10 winston amount. Returns an error if
// the string is empty, not a valid integer, or negative.
func ParseWinston(raw string) (Winston, error) {
	if raw == "" {
		return Winston{}, fmt.Errorf("empty winston amount")
	}
	var w Winston
	if _, ok := w.value.SetString(raw, 10); !ok {
		return Winston{}, fmt.Errorf("winston amount %q is not a base-10 integer", raw)
	}
	if w.value.Sign() < 0 {
		return Winston{}, fmt.Errorf("winston amount %q is negative", raw)
	}
	return w, nil
}

// MustParseWinston is like ParseWinston but panics on error. Use in
// tests and static initialization where the input is known-valid.
func MustParseWinston(raw string) Winston {
	w, err := ParseWinston(raw)
	if err != nil {
		panic(fmt.Sprintf("ledger.MustParseWinston(%q): %v", raw, err))
	}
	return w
}

// Add returns w + other.
func (w Winston) Add(other Winston) Winston {
	var result Winston
	result.value.Add(&w.value, &other.value)
	return result
}

// Cmp compares w and other: -1 if w < other, 0 if equal, +1 if
// w > other.
func (w Winston) Cmp(other Winston) int {
	return w.value.Cmp(&other.value)
}

// IsZero reports whether the amount is zero.
func (w Winston) IsZero() bool {
	return w.value.Sign() == 0
}

// MulRatCeil returns ceil(w * numerator / denominator) using exact
// integer arithmetic. Panics if numerator is negative or denominator
// is not positive. Use this for percentage computations where rounding
// down could produce a zero amount.
func (w Winston) MulRatCeil(numerator, denominator int64) Winston {
	if numerator < 0 {
		panic(fmt.Sprintf("ledger: negative numerator %d", numerator))
	}
	if denominator <= 0 {
		panic(fmt.Sprintf("ledger: non-positive denominator %d", denominator))
	}
	var product big.Int
	product.Mul(&w.value, big.NewInt(numerator))

	var result Winston
	var remainder big.Int
	result.value.QuoRem(&product, big.NewInt(denominator), &remainder)
	if remainder.Sign() != 0 {
		result.value.Add(&result.value, big.NewInt(1))
	}
	return result
}

// MulFloatCeil returns ceil(w * multiplier) using exact rational
// arithmetic on the float's binary value. Panics if multiplier is
// negative, NaN, or infinite. Use this for fee boosting, where the
// multiplier arrives from configuration as a float.
func (w Winston) MulFloatCeil(multiplier float64) Winston {
	rat := new(big.Rat).SetFloat64(multiplier)
	if rat == nil {
		panic(fmt.Sprintf("ledger: non-finite multiplier %v", multiplier))
	}
	if rat.Sign() < 0 {
		panic(fmt.Sprintf("ledger: negative multiplier %v", multiplier))
	}
	product := new(big.Rat).Mul(rat, new(big.Rat).SetInt(&w.value))

	var result Winston
	var remainder big.Int
	result.value.QuoRem(product.Num(), product.Denom(), &remainder)
	if remainder.Sign() != 0 {
		result.value.Add(&result.value, big.NewInt(1))
	}
	return result
}

// BigInt returns a copy of the amount as a big.Int. Mutating the
// returned value does not affect w.
func (w Winston) BigInt() *big.Int {
	return new(big.Int).Set(&w.value)
}

// String returns the base-10 winston amount.
func (w Winston) String() string {
	return w.value.String()
}

// AR formats the amount in whole AR with twelve decimal places, for
// human-readable output.
func (w Winston) AR() string {
	var whole, fraction big.Int
	whole.QuoRem(&w.value, winstonPerAR, &fraction)
	return fmt.Sprintf("%s.%012d", whole.String(), fraction.Int64())
}

// MarshalText implements encoding.TextMarshaler. Amounts serialize as
// base-10 strings, matching the wire convention for quantities and
// rewards.
func (w Winston) MarshalText() ([]byte, error) {
	return []byte(w.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces a zero amount.
func (w *Winston) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*w = Winston{}
		return nil
	}
	parsed, err := ParseWinston(string(data))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
