package models

import (
	"fmt"
	"math/big"
	"strings"
)

// BaseAmount is a token amount in the token's smallest unit. It is carried as
// an arbitrary-precision integer end to end and serialized as a decimal JSON
// string so large amounts never pass through a float.
type BaseAmount struct {
	value big.Int
}

// NewBaseAmount copies v into a BaseAmount.
func NewBaseAmount(v *big.Int) *BaseAmount {
	a := &BaseAmount{}
	a.value.Set(v)
	return a
}

// ParseBaseAmount parses a decimal string into a positive base-unit amount.
func ParseBaseAmount(s string) (*BaseAmount, error) {
	if s == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid amount %q: must be a decimal integer string", s)
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	return NewBaseAmount(v), nil
}

// BigInt returns a copy of the underlying integer.
func (a *BaseAmount) BigInt() *big.Int {
	return new(big.Int).Set(&a.value)
}

func (a *BaseAmount) String() string {
	return a.value.String()
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (a *BaseAmount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.value.String() + `"`), nil
}

// UnmarshalJSON accepts both a quoted decimal string and a bare JSON integer,
// under the same positivity rules as ParseBaseAmount.
func (a *BaseAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseBaseAmount(s)
	if err != nil {
		return err
	}
	a.value.Set(&parsed.value)
	return nil
}

// ParseUnits converts a human-entered decimal value (e.g. "1.5") into base
// units given the token's decimal precision, without any floating-point step.
// It fails when the value carries more fractional digits than the token has.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("value is empty")
	}

	whole := value
	frac := ""
	if i := strings.IndexByte(value, '.'); i >= 0 {
		whole, frac = value[:i], value[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("value %q has more than %d decimal places", value, decimals)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid decimal value %q", value)
		}
	}

	out, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal value %q", value)
	}
	return out, nil
}
