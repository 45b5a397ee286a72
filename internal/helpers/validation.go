package helpers

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseRecipient checks that s is a syntactically valid 20-byte hex address.
// The zero address is accepted; it is a valid identifier.
func ParseRecipient(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address format: %q", s)
	}
	return common.HexToAddress(s), nil
}

// ValidateAddress checks if an address is valid and non-zero
func ValidateAddress(address string) (common.Address, error) {
	addr, err := ParseRecipient(address)
	if err != nil {
		return common.Address{}, err
	}

	// Check if it's the zero address
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("zero address not allowed")
	}

	return addr, nil
}

// ValidateAmount checks that amount fits an unsigned 256-bit word
func ValidateAmount(amount *big.Int) error {
	if amount == nil {
		return fmt.Errorf("amount is nil")
	}

	if amount.Sign() < 0 {
		return fmt.Errorf("amount must not be negative")
	}

	if amount.Cmp(MaxUint256) > 0 {
		return fmt.Errorf("amount exceeds 2^256-1")
	}

	return nil
}

// ValidatePositiveAmount is ValidateAmount that also rejects zero
func ValidatePositiveAmount(amount *big.Int) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// ValidateStepBps ensures the search growth step is reasonable
func ValidateStepBps(bps int) error {
	if bps <= 0 || bps > 10000 {
		return fmt.Errorf("step must be between 1 and 10000 bps, got %d", bps)
	}
	return nil
}
