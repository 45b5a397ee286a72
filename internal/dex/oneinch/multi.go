package oneinch

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// baseAmountArg is the argument carrying the routed amount in a route's
// first action.
func baseAmountArg(kind ActionKind) (int, bool) {
	switch kind {
	case ActionTransfer:
		return 1, true
	case ActionSafeTransfer, ActionSafeApprove, ActionPoolSwap:
		return 2, true
	default:
		return 0, false
	}
}

// amountSlot is the offset of one amount argument in the action table.
type amountSlot struct {
	off    int
	action int
	kind   ActionKind
}

// amountSlots resolves the amount argument of every action with a known
// layout, including a transfer nested in an internal call.
func amountSlots(args []byte, l *swapLayout) ([]amountSlot, error) {
	var slots []amountSlot
	for _, a := range l.actions {
		if k, ok := baseAmountArg(a.Kind); ok {
			off, err := a.arg(k)
			if err != nil {
				return nil, err
			}
			slots = append(slots, amountSlot{off: off, action: a.Index, kind: a.Kind})
			continue
		}
		if a.Kind != ActionInternalCall {
			continue
		}
		nested, n, kind, err := nestedCall(args, a)
		if err != nil {
			return nil, err
		}
		var k int
		switch kind {
		case ActionTransfer:
			k = 1
		case ActionSafeTransfer:
			k = 2
		default:
			continue
		}
		off := nested + 4 + k*wordSize
		if off+wordSize > nested+n {
			return nil, fmt.Errorf("%w: nested %s in action %d truncated", ErrMalformedPayload, kind, a.Index)
		}
		slots = append(slots, amountSlot{off: off, action: a.Index, kind: kind})
	}
	return slots, nil
}

// recodeMultiAction rebases the routed amount, lifts a leftover cap and
// optionally redirects the final transfer. The base amount is read from the
// first action and every amount argument holding that same value is rescaled.
// Patches never change lengths, so offsets resolved by decodeSwap stay valid
// across steps.
func recodeMultiAction(args []byte, l *swapLayout, p params) error {
	first := l.actions[0]
	k, ok := baseAmountArg(first.Kind)
	if !ok {
		return fmt.Errorf("%w: first action selector 0x%x (%s)", ErrUnsupportedActionLayout, first.Selector, first.Kind)
	}
	off, err := first.arg(k)
	if err != nil {
		return err
	}
	base, _ := readUint(args, off)
	newBase, err := scale(p.target, base, p.declared)
	if err != nil {
		return err
	}

	slots, err := amountSlots(args, l)
	if err != nil {
		return err
	}
	var patch []int
	for _, s := range slots {
		v, _ := readUint(args, s.off)
		if !v.Eq(base) {
			continue
		}
		if s.kind == ActionPoolSwap && newBase.Gt(maxInt256) {
			return fmt.Errorf("%w: action %d: %s does not fit a positive int256", ErrAmountOutOfRange, s.action, newBase.Dec())
		}
		patch = append(patch, s.off)
	}
	for _, off := range patch {
		putWord(args, off, newBase)
	}

	if err := uncap(args, l); err != nil {
		return err
	}
	if p.recipient != nil {
		return replaceFundsRecipient(args, l, *p.recipient)
	}
	return nil
}

// leftoverCap decodes a leftover check (address token, bytes subCall) and
// returns the offset of capValue when subCall is cap(address token, uint256 capValue).
// It returns -1 when the sub-call is something else.
func leftoverCap(args []byte, a Action) (int, error) {
	if a.CallDataLength < 4 {
		return 0, fmt.Errorf("%w: leftover check has no arguments", ErrMalformedPayload)
	}
	bounded := args[:a.CallDataOffset+a.CallDataLength]
	head := a.CallDataOffset + 4
	sub, n, ok := readBytes(bounded, head+wordSize, head)
	if !ok {
		return 0, fmt.Errorf("%w: leftover check %d sub-call out of bounds", ErrMalformedPayload, a.Index)
	}
	if n < 4 || !bytes.Equal(args[sub:sub+4], capMarker[:]) {
		return -1, nil
	}
	if n < 4+2*wordSize {
		return 0, fmt.Errorf("%w: cap parameters truncated", ErrMalformedPayload)
	}
	return sub + 4 + wordSize, nil
}

// uncap sets the cap of a leftover check to 2^256-1. A cap counts as present
// when a leftover check carries a cap sub-call or an action is itself a cap
// call; byte patterns elsewhere are ignored.
func uncap(args []byte, l *swapLayout) error {
	var leftover, capped bool
	for _, a := range l.actions {
		switch a.Kind {
		case ActionLeftoverCheck:
			leftover = true
			off, err := leftoverCap(args, a)
			if err != nil {
				return err
			}
			if off >= 0 {
				capped = true
			}
		case ActionCap:
			capped = true
		}
	}
	if !leftover && !capped {
		return nil
	}
	if leftover != capped {
		return fmt.Errorf("%w: leftover check present=%t, cap present=%t", ErrAmbiguousCapState, leftover, capped)
	}

	a := l.actions[len(l.actions)-2]
	if a.Kind != ActionLeftoverCheck {
		return fmt.Errorf("%w: slot %d holds %s, want leftover check", ErrUnsupportedActionLayout, a.Index, a.Kind)
	}
	capOff, err := leftoverCap(args, a)
	if err != nil {
		return err
	}
	if capOff < 0 {
		return fmt.Errorf("%w: cap outside the leftover check in slot %d", ErrUnsupportedActionLayout, a.Index)
	}
	putWord(args, capOff, maxUint256)
	return nil
}

// nestedCall resolves the call wrapped by an internal call action
// ((uint256,uint256,uint256,bytes) call, uint256, address, uint256).
func nestedCall(args []byte, a Action) (start, n int, kind ActionKind, err error) {
	if a.CallDataLength < 4 {
		return 0, 0, ActionUnknown, fmt.Errorf("%w: internal call has no arguments", ErrMalformedPayload)
	}
	bounded := args[:a.CallDataOffset+a.CallDataLength]
	head := a.CallDataOffset + 4
	tuple, ok := readOffset(bounded, head, head)
	if !ok || tuple+actionWords*wordSize > len(bounded) {
		return 0, 0, ActionUnknown, fmt.Errorf("%w: internal call tuple out of bounds", ErrMalformedPayload)
	}
	start, n, ok = readBytes(bounded, tuple+actionDataWord*wordSize, tuple)
	if !ok || n < 4 {
		return 0, 0, ActionUnknown, fmt.Errorf("%w: nested call out of bounds", ErrMalformedPayload)
	}
	var sel [4]byte
	copy(sel[:], args[start:start+4])
	return start, n, classifyAction(sel), nil
}

// replaceFundsRecipient rewrites the destination of the transfer nested in
// the final internal call.
func replaceFundsRecipient(args []byte, l *swapLayout, recipient common.Address) error {
	a := l.actions[len(l.actions)-1]
	if a.Kind != ActionInternalCall {
		return fmt.Errorf("%w: last action selector 0x%x (%s), want internal call",
			ErrUnsupportedActionLayout, a.Selector, a.Kind)
	}
	nested, n, kind, err := nestedCall(args, a)
	if err != nil {
		return err
	}

	var dst int
	switch kind {
	case ActionTransfer:
		dst = 0
	case ActionSafeTransfer:
		dst = 1
	default:
		return fmt.Errorf("%w: final transfer selector 0x%x", ErrUnsupportedActionLayout, args[nested:nested+4])
	}

	off := nested + 4 + dst*wordSize
	if off+wordSize > nested+n {
		return fmt.Errorf("%w: nested transfer truncated", ErrMalformedPayload)
	}
	putAddress(args, off, recipient)
	return nil
}
