// Package amount implements the 256-bit unsigned quantity used for every
// balance, price and cap in the settlement engine.
package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

var (
	// ErrOverflow is returned when a result does not fit in 256 bits.
	ErrOverflow = errors.New("amount overflow")

	// ErrUnderflow is returned when a checked subtraction would go below zero.
	ErrUnderflow = errors.New("amount underflow")

	// ErrDivisionByZero is returned by MulDiv when the denominator is zero.
	ErrDivisionByZero = errors.New("amount division by zero")

	// ErrInvalid is returned when a textual amount cannot be parsed.
	ErrInvalid = errors.New("invalid amount")
)

// PerMilleDenominator is the scale of fee and liquidity rates (1000 = 100%).
const PerMilleDenominator = 1000

// Amount is an immutable unsigned 256-bit integer. The zero value is zero.
type Amount struct {
	v uint256.Int
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{}
}

// New returns an amount holding v.
func New(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// FromUint256 copies v into an Amount.
func FromUint256(v *uint256.Int) Amount {
	var a Amount
	a.v.Set(v)
	return a
}

// FromDecimal parses a base-10 integer string such as "2100000000000000000".
func FromDecimal(s string) (Amount, error) {
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
	}
	return a, nil
}

// MustFromDecimal is FromDecimal for constants known to be valid.
func MustFromDecimal(s string) Amount {
	a, err := FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Parse converts a human decimal such as "0.1" into base units using the
// given number of decimals. Fractions finer than the unit are rejected.
func Parse(s string, decimals uint8) (Amount, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && len(frac) > int(decimals) {
		return Amount{}, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalid, s, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))
	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		digits = "0"
	}
	return FromDecimal(digits)
}

// MustParse is Parse for test fixtures and constants.
func MustParse(s string, decimals uint8) Amount {
	a, err := Parse(s, decimals)
	if err != nil {
		panic(err)
	}
	return a
}

// Pow10 returns 10^n.
func Pow10(n uint8) Amount {
	var a Amount
	a.v.Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
	return a
}

// Uint256 returns a copy of the underlying integer.
func (a Amount) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&a.v)
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Equal reports whether a == b.
func (a Amount) Equal(b Amount) bool {
	return a.v.Eq(&b.v)
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.v.Lt(&b.v)
}

// Add returns a+b or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	var r Amount
	if _, overflow := r.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrOverflow
	}
	return r, nil
}

// Sub returns a-b or ErrUnderflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	var r Amount
	if _, underflow := r.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, ErrUnderflow
	}
	return r, nil
}

// SaturatingAdd returns a+b clamped to the maximum 256-bit value.
func (a Amount) SaturatingAdd(b Amount) Amount {
	r, err := a.Add(b)
	if err != nil {
		return Max()
	}
	return r
}

// SaturatingSub returns a-b clamped at zero.
func (a Amount) SaturatingSub(b Amount) Amount {
	r, err := a.Sub(b)
	if err != nil {
		return Zero()
	}
	return r
}

// MulDiv returns floor(a*num/den) using a 512-bit intermediate product.
func (a Amount) MulDiv(num, den Amount) (Amount, error) {
	if den.IsZero() {
		return Amount{}, ErrDivisionByZero
	}
	var r Amount
	if _, overflow := r.v.MulDivOverflow(&a.v, &num.v, &den.v); overflow {
		return Amount{}, ErrOverflow
	}
	return r, nil
}

// PerMille returns floor(a*rate/1000).
func (a Amount) PerMille(rate uint16) (Amount, error) {
	return a.MulDiv(New(uint64(rate)), New(PerMilleDenominator))
}

// Max returns the largest representable amount.
func Max() Amount {
	var a Amount
	a.v.SetAllOne()
	return a
}

// Min returns the smallest of the given amounts.
func Min(first Amount, rest ...Amount) Amount {
	m := first
	for _, r := range rest {
		if r.LessThan(m) {
			m = r
		}
	}
	return m
}

// String returns the base-10 integer form.
func (a Amount) String() string {
	return a.v.Dec()
}

// Format renders a in human units with the given number of decimals,
// trimming trailing zeros ("2.1", "0", "1365").
func (a Amount) Format(decimals uint8) string {
	s := a.v.Dec()
	if decimals == 0 {
		return s
	}
	d := int(decimals)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// MarshalBinary encodes the amount as 32 big-endian bytes.
func (a Amount) MarshalBinary() ([]byte, error) {
	b := a.v.Bytes32()
	return b[:], nil
}

// UnmarshalBinary decodes up to 32 big-endian bytes.
func (a *Amount) UnmarshalBinary(data []byte) error {
	if len(data) > 32 {
		return fmt.Errorf("%w: %d bytes", ErrInvalid, len(data))
	}
	a.v.SetBytes(data)
	return nil
}

// MarshalText encodes the amount as a base-10 string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalText decodes a base-10 string.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := FromDecimal(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
