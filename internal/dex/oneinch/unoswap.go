package oneinch

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// unoswap(address srcToken, uint256 amount, uint256 minReturn, bytes32[] pools)
var unoswapArguments = mustArguments("address", "uint256", "uint256", "bytes32[]")

const (
	unoswapAmountWord    = 1
	unoswapMinReturnWord = 2
)

// recodeUnoswap validates the flat tuple with the ABI decoder and patches the
// two amount words in place, so the pool list and trailing bytes are kept.
func recodeUnoswap(args []byte, p params) error {
	if p.recipient != nil {
		return fmt.Errorf("%w: unoswap has no recipient field", ErrUnsupportedOperation)
	}

	vals, err := unoswapArguments.Unpack(args)
	if err != nil {
		return fmt.Errorf("%w: unoswap: %v", ErrMalformedPayload, err)
	}
	amountBig, ok1 := vals[1].(*big.Int)
	minReturnBig, ok2 := vals[2].(*big.Int)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: unoswap amount fields", ErrMalformedPayload)
	}
	amount, _ := uint256.FromBig(amountBig)
	minReturn, _ := uint256.FromBig(minReturnBig)

	if !amount.Eq(p.declared) {
		return fmt.Errorf("%w: unoswap amount %s, declared %s", ErrInvariantViolation, amount.Dec(), p.declared.Dec())
	}
	newMin, err := scale(minReturn, p.target, p.declared)
	if err != nil {
		return err
	}

	putWord(args, unoswapAmountWord*wordSize, p.target)
	putWord(args, unoswapMinReturnWord*wordSize, newMin)
	return nil
}
