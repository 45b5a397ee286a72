// Package oneinch recodes 1inch aggregation router call-data for a different
// input amount and/or destination account.
//
// Three payload formats are recognised by selector: unoswap, and the executor
// swap carrying either a single pool-swap action or a multi-action route.
// Recoding never touches the caller's buffer; it patches fixed-width words of
// a private copy at offsets resolved from the ABI layout, so the result has
// the same selector, length and shape as the input.
package oneinch

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
)

// Request describes one recode.
type Request struct {
	Payload []byte

	// DeclaredAmount is the input amount the payload was produced for
	// (the aggregator's fromTokenAmount). It must match the embedded amount.
	DeclaredAmount *big.Int

	// TargetAmount is the new input amount, 0 <= x < 2^256.
	TargetAmount *big.Int

	// Recipient optionally replaces the payload's destination account.
	Recipient *common.Address
}

// Result is a recoded payload.
type Result struct {
	Format  Format
	Payload []byte
}

// Args returns the payload without its selector.
func (r *Result) Args() []byte { return r.Payload[4:] }

func (r *Result) Hex() string     { return hexutil.Encode(r.Payload) }
func (r *Result) ArgsHex() string { return hexutil.Encode(r.Args()) }

type params struct {
	declared  *uint256.Int
	target    *uint256.Int
	recipient *common.Address
}

// Recode dispatches on the payload selector and returns a recoded copy.
// Unknown selectors fail with ErrUnknownSelector before anything past the
// selector is read.
func Recode(req Request) (*Result, error) {
	sel, ok := selectorOf(req.Payload)
	if !ok {
		return nil, fmt.Errorf("%w: payload shorter than a selector", ErrMalformedPayload)
	}
	kind := callKindOf(sel)
	if kind == callUnknown {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownSelector, sel)
	}

	p, err := newParams(req)
	if err != nil {
		return nil, err
	}

	out := bytes.Clone(req.Payload)
	args := out[4:]

	var format Format
	switch kind {
	case callUnoswap:
		format, err = FormatUnoswap, recodeUnoswap(args, p)
	case callSwap:
		format, err = recodeSwap(args, p)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Format: format, Payload: out}, nil
}

// RecodeHex is Recode for hex-encoded input. An empty recipient leaves the
// destination unchanged.
func RecodeHex(payloadHex string, declared, target *big.Int, recipient string) (*Result, error) {
	payload, err := DecodePayloadHex(payloadHex)
	if err != nil {
		return nil, err
	}
	req := Request{Payload: payload, DeclaredAmount: declared, TargetAmount: target}
	if recipient != "" {
		to, err := helpers.ParseRecipient(recipient)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
		}
		req.Recipient = &to
	}
	return Recode(req)
}

func newParams(req Request) (params, error) {
	declared, err := toUint256("declared amount", req.DeclaredAmount)
	if err != nil {
		return params{}, err
	}
	if declared.IsZero() {
		return params{}, fmt.Errorf("%w: declared amount is zero", ErrInvariantViolation)
	}
	target, err := toUint256("target amount", req.TargetAmount)
	if err != nil {
		return params{}, err
	}
	return params{declared: declared, target: target, recipient: req.Recipient}, nil
}
