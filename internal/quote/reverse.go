package quote

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/dex/oneinch"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/telemetry"
)

const (
	DefaultStepBps       = 50 // 0.5% geometric step
	DefaultMaxIterations = 10000
	bpsDenominator       = 10000
)

// SearchParams configures ReverseExactIn. Zero values select defaults.
type SearchParams struct {
	// Payload is the aggregator payload produced for DeclaredAmount.
	Payload        []byte
	DeclaredAmount *big.Int

	InitialAmountIn *big.Int
	MinAmountOut    *big.Int

	// MaxAmountIn caps the search; nil means 2^256-1.
	MaxAmountIn   *big.Int
	MaxIterations int
	StepBps       int

	Recipient *common.Address
}

// SearchResult is the first amountIn whose quote met MinAmountOut.
type SearchResult struct {
	AmountIn   *big.Int
	AmountOut  *big.Int
	Iterations int // quotes issued
	Format     oneinch.Format
	Payload    []byte // recoded for AmountIn
}

func (p *SearchParams) withDefaults() (SearchParams, error) {
	out := *p
	if err := helpers.ValidatePositiveAmount(out.InitialAmountIn); err != nil {
		return out, fmt.Errorf("initial amount: %w", err)
	}
	if err := helpers.ValidateAmount(out.MinAmountOut); err != nil {
		return out, fmt.Errorf("min amount out: %w", err)
	}
	if out.MaxAmountIn == nil {
		out.MaxAmountIn = helpers.MaxUint256
	} else if err := helpers.ValidateAmount(out.MaxAmountIn); err != nil {
		return out, fmt.Errorf("max amount in: %w", err)
	}
	if out.MaxIterations <= 0 {
		out.MaxIterations = DefaultMaxIterations
	}
	if out.StepBps == 0 {
		out.StepBps = DefaultStepBps
	}
	if err := helpers.ValidateStepBps(out.StepBps); err != nil {
		return out, err
	}
	return out, nil
}

// nextAmountIn returns ceil(a * (10000+bps) / 10000), which is at least a+1
// for positive a.
func nextAmountIn(a *big.Int, bps int) *big.Int {
	n := new(big.Int).Mul(a, big.NewInt(int64(bpsDenominator+bps)))
	n.Add(n, big.NewInt(bpsDenominator-1))
	return n.Quo(n, big.NewInt(bpsDenominator))
}

// ReverseExactIn grows amountIn geometrically from InitialAmountIn, recoding
// the payload and quoting it each step, until the quote reaches MinAmountOut.
// Recode errors are returned as is; oracle errors are wrapped in ErrOracleCall.
// Nothing is retried.
func ReverseExactIn(ctx context.Context, q Quoter, params SearchParams) (*SearchResult, error) {
	p, err := params.withDefaults()
	if err != nil {
		return nil, err
	}

	amountIn := new(big.Int).Set(p.InitialAmountIn)
	for i := 1; ; i++ {
		if amountIn.Cmp(p.MaxAmountIn) > 0 {
			telemetry.Warnf("reverse quote: amountIn %s passed the %s bound after %d quotes", amountIn, p.MaxAmountIn, i-1)
			return nil, fmt.Errorf("%w: amountIn %s > %s after %d quotes",
				ErrSearchExceededBound, amountIn, p.MaxAmountIn, i-1)
		}
		if i > p.MaxIterations {
			telemetry.Warnf("reverse quote: budget of %d quotes spent at amountIn %s", p.MaxIterations, amountIn)
			return nil, fmt.Errorf("%w: %d quotes, last amountIn %s", ErrIterationBudget, p.MaxIterations, amountIn)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := oneinch.Recode(oneinch.Request{
			Payload:        p.Payload,
			DeclaredAmount: p.DeclaredAmount,
			TargetAmount:   amountIn,
			Recipient:      p.Recipient,
		})
		if err != nil {
			return nil, err
		}

		amountOut, err := q.Quote(ctx, amountIn, res.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOracleCall, err)
		}
		telemetry.Debugf("reverse quote #%d: in=%s out=%s want=%s", i, amountIn, amountOut, p.MinAmountOut)

		if amountOut.Cmp(p.MinAmountOut) >= 0 {
			telemetry.Infof("reverse quote settled after %d quotes: in=%s out=%s (%s)",
				i, amountIn, amountOut, res.Format)
			return &SearchResult{
				AmountIn:   amountIn,
				AmountOut:  amountOut,
				Iterations: i,
				Format:     res.Format,
				Payload:    res.Payload,
			}, nil
		}
		amountIn = nextAmountIn(amountIn, p.StepBps)
	}
}
