package helpers

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// MaxUint256 is 2^256-1, the largest amount a payload word can hold.
var MaxUint256 = new(uint256.Int).SetAllOne().ToBig()

// ParseAmount parses a base-unit amount given in decimal or 0x-prefixed hex.
// The result is range-checked to [0, 2^256).
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	var (
		v  *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		v, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", s)
	}
	if err := ValidateAmount(v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseUnits converts a decimal string such as "1.5" into base units with the
// given number of decimals. Excess fractional digits are rejected. With zero
// decimals it accepts everything ParseAmount does.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if decimals == 0 {
		return ParseAmount(s)
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("hex amount %s cannot carry %d decimals", s, decimals)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %s has more than %d decimals", s, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))
	if whole == "" {
		whole = "0"
	}
	return ParseAmount(whole + frac)
}

// FormatTokenAmount renders base units with decimals, trimming trailing zeros.
func FormatTokenAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	q, r := new(big.Int).QuoRem(amount, divisor, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := r.String()
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	return q.String() + "." + strings.TrimRight(frac, "0")
}

// CalculatePercentage returns part/whole in percent, for log lines.
func CalculatePercentage(part, whole *big.Int) float64 {
	if part == nil || whole == nil || whole.Sign() == 0 {
		return 0
	}

	percentage := new(big.Float).SetInt(part)
	percentage.Mul(percentage, big.NewFloat(100))
	percentage.Quo(percentage, new(big.Float).SetInt(whole))

	result, _ := percentage.Float64()
	return result
}
