// Package quote prices recoded payloads through an on-chain quoting oracle and
// searches for the smallest input amount that reaches a target output.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// Quoter simulates a payload and reports the output it would produce.
// Implementations must be side-effect free; payload's embedded amount equals
// amountIn.
type Quoter interface {
	Quote(ctx context.Context, amountIn *big.Int, payload []byte) (*big.Int, error)
}

// QuoterFunc adapts a plain function to Quoter.
type QuoterFunc func(ctx context.Context, amountIn *big.Int, payload []byte) (*big.Int, error)

func (f QuoterFunc) Quote(ctx context.Context, amountIn *big.Int, payload []byte) (*big.Int, error) {
	return f(ctx, amountIn, payload)
}

// QuoterABI is the read-only entry point of the quoting contract.
const QuoterABI = `[{"name":"quote","type":"function","stateMutability":"view",
	"inputs":[{"name":"amountIn","type":"uint256"},{"name":"data","type":"bytes"}],
	"outputs":[{"name":"amountOut","type":"uint256"}]}]`

var quoterABI = mustParseABI(QuoterABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ContractQuoter quotes with eth_call against a deployed quoter contract.
type ContractQuoter struct {
	caller  ethereum.ContractCaller
	address common.Address

	// From is the simulated sender; some quoters require a funded account.
	From common.Address
	// Timeout bounds each call when non-zero.
	Timeout time.Duration
}

// NewContractQuoter binds a quoter at address over any ContractCaller
// (*ethclient.Client in production).
func NewContractQuoter(caller ethereum.ContractCaller, address common.Address) *ContractQuoter {
	return &ContractQuoter{caller: caller, address: address}
}

func (q *ContractQuoter) Address() common.Address { return q.address }

func (q *ContractQuoter) Quote(ctx context.Context, amountIn *big.Int, payload []byte) (*big.Int, error) {
	input, err := quoterABI.Pack("quote", amountIn, payload)
	if err != nil {
		return nil, fmt.Errorf("pack quote: %w", err)
	}

	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	to := q.address
	out, err := q.caller.CallContract(ctx, ethereum.CallMsg{From: q.From, To: &to, Data: input}, nil)
	if err != nil {
		// Reverts carry the encoded reason as error data
		var de rpc.DataError
		if errors.As(err, &de) && de.ErrorData() != nil {
			return nil, fmt.Errorf("eth_call %s: %w (data: %v)", q.address.Hex(), err, de.ErrorData())
		}
		return nil, fmt.Errorf("eth_call %s: %w", q.address.Hex(), err)
	}

	vals, err := quoterABI.Unpack("quote", out)
	if err != nil {
		return nil, fmt.Errorf("unpack quote result: %w", err)
	}
	amountOut, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected quote result type %T", vals[0])
	}
	return amountOut, nil
}
