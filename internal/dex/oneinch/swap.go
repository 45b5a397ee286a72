package oneinch

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Word positions inside the swap description tuple
// (srcToken, dstToken, srcReceiver, dstReceiver, amount, minReturnAmount, flags, permit).
const (
	descDstReceiver = 3
	descAmount      = 4
	descMinReturn   = 5
	descWords       = 8
)

// Action wrapper (uint256 target, uint256 gasLimit, uint256 value, bytes data):
// word 3 holds the offset of the inner call-data.
const (
	actionDataWord = 3
	actionWords    = 4
)

// Pool swap argument positions
const (
	poolSwapRecipientArg = 0
	poolSwapAmountArg    = 2
)

// Action is a view over one entry of the executor action table. All offsets
// are absolute within the argument region (the payload without its selector).
type Action struct {
	Index          int
	Offset         int // start of the (target, gasLimit, value, data) wrapper
	CallDataOffset int // start of the inner call-data (its selector)
	CallDataLength int
	Selector       [4]byte
	Kind           ActionKind
}

// arg returns the absolute offset of inner argument k, checked against the
// action's call-data bounds.
func (a Action) arg(k int) (int, error) {
	off := a.CallDataOffset + 4 + k*wordSize
	if a.CallDataLength < 4 || off+wordSize > a.CallDataOffset+a.CallDataLength {
		return 0, fmt.Errorf("%w: action %d (%s) has no argument %d", ErrMalformedPayload, a.Index, a.Kind, k)
	}
	return off, nil
}

func (a Action) callData(args []byte) []byte {
	return args[a.CallDataOffset : a.CallDataOffset+a.CallDataLength]
}

// swapLayout records where the mutable fields of an executor swap live.
type swapLayout struct {
	desc      int // description tuple head
	dataStart int // executor data content
	dataEnd   int
	actions   []Action
}

func (l *swapLayout) field(k int) int { return l.desc + k*wordSize }

// decodeSwap follows the ABI offsets of swap(caller, desc, data) down to the
// action table inside the executor data.
func decodeSwap(args []byte) (*swapLayout, error) {
	desc, ok := readOffset(args, 1*wordSize, 0)
	if !ok || desc+descWords*wordSize > len(args) {
		return nil, fmt.Errorf("%w: swap description out of bounds", ErrMalformedPayload)
	}
	start, n, ok := readBytes(args, 2*wordSize, 0)
	if !ok {
		return nil, fmt.Errorf("%w: executor data out of bounds", ErrMalformedPayload)
	}
	l := &swapLayout{desc: desc, dataStart: start, dataEnd: start + n}

	// All action reads stay inside the executor data
	data := args[:l.dataEnd]
	arr, ok := readOffset(data, start, start)
	if !ok {
		return nil, fmt.Errorf("%w: action table out of bounds", ErrMalformedPayload)
	}
	count, _ := readUint(data, arr)
	table := arr + wordSize
	if count.IsZero() || !count.IsUint64() || count.Uint64() > uint64((len(data)-table)/wordSize) {
		return nil, fmt.Errorf("%w: action count %s", ErrMalformedPayload, count.Dec())
	}

	l.actions = make([]Action, count.Uint64())
	for i := range l.actions {
		a, err := decodeAction(data, i, table)
		if err != nil {
			return nil, err
		}
		l.actions[i] = a
	}
	return l, nil
}

func decodeAction(data []byte, index, table int) (Action, error) {
	off, ok := readOffset(data, table+index*wordSize, table)
	if !ok || off+actionWords*wordSize > len(data) {
		return Action{}, fmt.Errorf("%w: action %d wrapper out of bounds", ErrMalformedPayload, index)
	}
	inner, n, ok := readBytes(data, off+actionDataWord*wordSize, off)
	if !ok {
		return Action{}, fmt.Errorf("%w: action %d call-data out of bounds", ErrMalformedPayload, index)
	}
	a := Action{Index: index, Offset: off, CallDataOffset: inner, CallDataLength: n}
	if n >= 4 {
		copy(a.Selector[:], data[inner:inner+4])
		a.Kind = classifyAction(a.Selector)
	}
	return a, nil
}

// DecodeActions returns the action table of an executor swap payload.
func DecodeActions(payload []byte) ([]Action, error) {
	sel, ok := selectorOf(payload)
	if !ok {
		return nil, fmt.Errorf("%w: payload shorter than a selector", ErrMalformedPayload)
	}
	if callKindOf(sel) != callSwap {
		return nil, fmt.Errorf("%w: 0x%x carries no action table", ErrUnknownSelector, sel)
	}
	l, err := decodeSwap(payload[4:])
	if err != nil {
		return nil, err
	}
	return l.actions, nil
}

// DestinationReceiver reads the description's destination receiver slot.
func DestinationReceiver(payload []byte) (common.Address, error) {
	sel, ok := selectorOf(payload)
	if !ok || callKindOf(sel) != callSwap {
		return common.Address{}, fmt.Errorf("%w: not an executor swap", ErrUnknownSelector)
	}
	args := payload[4:]
	l, err := decodeSwap(args)
	if err != nil {
		return common.Address{}, err
	}
	addr, _ := readAddress(args, l.field(descDstReceiver))
	return addr, nil
}

// recodeSwap patches an executor swap in place. args must be a private copy.
func recodeSwap(args []byte, p params) (Format, error) {
	l, err := decodeSwap(args)
	if err != nil {
		return FormatUnknown, err
	}

	amount, _ := readUint(args, l.field(descAmount))
	if !amount.Eq(p.declared) {
		return FormatUnknown, fmt.Errorf("%w: description amount %s, declared %s",
			ErrInvariantViolation, amount.Dec(), p.declared.Dec())
	}

	format := FormatSwapMulti
	if len(l.actions) == 1 {
		format = FormatSwapSingle
		err = recodeSingleAction(args, l, p)
	} else {
		err = recodeMultiAction(args, l, p)
	}
	if err != nil {
		return FormatUnknown, err
	}

	if err := rewriteDescription(args, l, p); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}

// rewriteDescription sets amount to the target, rescales minReturnAmount and
// moves the destination receiver when a recipient is requested.
func rewriteDescription(args []byte, l *swapLayout, p params) error {
	minReturn, _ := readUint(args, l.field(descMinReturn))
	newMin, err := scale(minReturn, p.target, p.declared)
	if err != nil {
		return err
	}
	putWord(args, l.field(descAmount), p.target)
	putWord(args, l.field(descMinReturn), newMin)
	if p.recipient != nil {
		putAddress(args, l.field(descDstReceiver), *p.recipient)
	}
	return nil
}

func recodeSingleAction(args []byte, l *swapLayout, p params) error {
	a := l.actions[0]
	if a.Kind != ActionPoolSwap {
		return fmt.Errorf("%w: single action selector 0x%x (%s), want pool swap",
			ErrUnsupportedActionLayout, a.Selector, a.Kind)
	}

	amountOff, err := a.arg(poolSwapAmountArg)
	if err != nil {
		return err
	}
	specified, _ := readUint(args, amountOff)
	if !specified.Eq(p.declared) {
		return fmt.Errorf("%w: pool swap amountSpecified %s, declared %s",
			ErrInvariantViolation, specified.Dec(), p.declared.Dec())
	}
	if p.target.Gt(maxInt256) {
		return fmt.Errorf("%w: %s does not fit a positive int256", ErrAmountOutOfRange, p.target.Dec())
	}
	putWord(args, amountOff, p.target)

	if p.recipient != nil {
		to, err := a.arg(poolSwapRecipientArg)
		if err != nil {
			return err
		}
		putAddress(args, to, *p.recipient)
	}
	return nil
}
