package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatBigInt converts a base-unit amount to a decimal string with the given number of decimals.
// Example: amount=75000000000000000, decimals=18 => "0.075"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(new(big.Int).Abs(amount), divisor, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}

	digits := rem.String()
	frac := strings.TrimRight(strings.Repeat("0", int(decimals)-len(digits))+digits, "0")
	if frac == "" {
		return sign + quo.String()
	}
	return sign + quo.String() + "." + frac
}

// ParseBigInt parses a decimal integer string. Exponent notation such as "7.5e16" is accepted
// when it denotes an integer.
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty number")
	}
	if v, ok := new(big.Int).SetString(s, 10); ok {
		return v, nil
	}
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	v, acc := f.Int(nil)
	if acc != big.Exact {
		return nil, fmt.Errorf("number %q is not an integer", s)
	}
	return v, nil
}
