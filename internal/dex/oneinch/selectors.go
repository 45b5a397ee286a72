package oneinch

import (
	"encoding/hex"
	"strings"
)

// Format classifies a payload by its top-level selector and, for the
// executor swap, by the number of actions it carries.
type Format int

const (
	FormatUnknown Format = iota

	// unoswap(address,uint256,uint256,bytes32[]) - flat, no nested actions
	FormatUnoswap

	// swap(address,(address,address,address,address,uint256,uint256,uint256,bytes),bytes)
	// with exactly one action, or with two or more
	FormatSwapSingle
	FormatSwapMulti
)

func (f Format) String() string {
	switch f {
	case FormatUnoswap:
		return "unoswap"
	case FormatSwapSingle:
		return "swap-single-action"
	case FormatSwapMulti:
		return "swap-multi-action"
	default:
		return "unknown"
	}
}

// ActionKind classifies the inner call-data of an executor action.
type ActionKind int

const (
	ActionUnknown ActionKind = iota

	// Funding actions that can open a multi-action route
	ActionTransfer     // transfer(address to, uint256 amount)
	ActionSafeTransfer // safeTransfer(address token, address to, uint256 amount)
	ActionSafeApprove  // safe-approve-transfer(address token, address spender, uint256 amount)

	// Uniswap V3 pool swap(address recipient, bool zeroForOne, int256 amountSpecified, uint160 sqrtPriceLimitX96, bytes data)
	ActionPoolSwap

	// Executor plumbing
	ActionInternalCall  // ((uint256,uint256,uint256,bytes),uint256,address,uint256)
	ActionLeftoverCheck // (address token, bytes subCall), subCall may be a cap
	ActionCap           // cap(address token, uint256 capValue)
)

func (k ActionKind) String() string {
	switch k {
	case ActionTransfer:
		return "transfer"
	case ActionSafeTransfer:
		return "safeTransfer"
	case ActionSafeApprove:
		return "safeApprove"
	case ActionPoolSwap:
		return "poolSwap"
	case ActionInternalCall:
		return "internalCall"
	case ActionLeftoverCheck:
		return "leftoverCheck"
	case ActionCap:
		return "cap"
	default:
		return "unknown"
	}
}

// callKind is the top-level router function.
type callKind int

const (
	callUnknown callKind = iota
	callUnoswap
	callSwap
)

var (
	selUnoswap = fourBytes("2e95b6c8")
	selSwap    = fourBytes("7c025200")

	// Cap sub-call embedded inside a leftover-check action
	capMarker = fourBytes("70bdb947")

	actionSelectors = map[[4]byte]ActionKind{
		fourBytes("a9059cbb"): ActionTransfer,
		fourBytes("d1660f99"): ActionSafeTransfer,
		fourBytes("eb5625d9"): ActionSafeApprove,
		fourBytes("128acb08"): ActionPoolSwap,
		fourBytes("b3af37c0"): ActionInternalCall,
		fourBytes("7f8fe7a0"): ActionLeftoverCheck,
		capMarker:             ActionCap,
	}
)

func callKindOf(sel [4]byte) callKind {
	switch sel {
	case selUnoswap:
		return callUnoswap
	case selSwap:
		return callSwap
	default:
		return callUnknown
	}
}

func classifyAction(sel [4]byte) ActionKind {
	if kind, ok := actionSelectors[sel]; ok {
		return kind
	}
	return ActionUnknown
}

// Classify returns the Format of a payload. Executor swaps that cannot be
// decoded far enough to count their actions are reported as FormatUnknown.
func Classify(payload []byte) Format {
	sel, ok := selectorOf(payload)
	if !ok {
		return FormatUnknown
	}
	switch callKindOf(sel) {
	case callUnoswap:
		return FormatUnoswap
	case callSwap:
		l, err := decodeSwap(payload[4:])
		if err != nil {
			return FormatUnknown
		}
		if len(l.actions) == 1 {
			return FormatSwapSingle
		}
		return FormatSwapMulti
	default:
		return FormatUnknown
	}
}

func fourBytes(hexStr string) [4]byte {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	b, _ := hex.DecodeString(hexStr)
	var a [4]byte
	copy(a[:], b[:4])
	return a
}
