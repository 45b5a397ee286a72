package quote

import "errors"

var (
	// ErrSearchExceededBound means amountIn grew past MaxAmountIn before the
	// quoted output met the target.
	ErrSearchExceededBound = errors.New("reverse search exceeded input bound")

	// ErrIterationBudget means MaxIterations quotes were spent without success.
	ErrIterationBudget = errors.New("reverse search iteration budget exhausted")

	// ErrOracleCall wraps any failure of the quoting oracle.
	ErrOracleCall = errors.New("quote oracle call failed")
)
