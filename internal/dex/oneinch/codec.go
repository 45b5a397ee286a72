package oneinch

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

const wordSize = 32

var (
	maxUint256 = new(uint256.Int).SetAllOne()
	// int256 fields (pool swap amountSpecified) must stay positive
	maxInt256 = new(uint256.Int).Rsh(maxUint256, 1)
)

// -----------------------------------------------------------------------------
// Bounds-checked word access. Offsets are absolute within the buffer passed in;
// callers narrow the buffer to a region (buf[:end]) to bound nested reads.
// -----------------------------------------------------------------------------

func word(buf []byte, off int) ([]byte, bool) {
	if off < 0 || off+wordSize > len(buf) {
		return nil, false
	}
	return buf[off : off+wordSize], true
}

func readUint(buf []byte, off int) (*uint256.Int, bool) {
	w, ok := word(buf, off)
	if !ok {
		return nil, false
	}
	return new(uint256.Int).SetBytes32(w), true
}

func readAddress(buf []byte, off int) (common.Address, bool) {
	w, ok := word(buf, off)
	if !ok {
		return common.Address{}, false
	}
	// Address is right-aligned in 32-byte word (last 20 bytes)
	return common.BytesToAddress(w[12:]), true
}

// readOffset reads the ABI offset stored at off and resolves it against base.
// The resolved position must leave room for one word.
func readOffset(buf []byte, off, base int) (int, bool) {
	v, ok := readUint(buf, off)
	if !ok || !v.IsUint64() || v.Uint64() > uint64(len(buf)) {
		return 0, false
	}
	abs := base + int(v.Uint64())
	if abs < 0 || abs+wordSize > len(buf) {
		return 0, false
	}
	return abs, true
}

// readBytes resolves a dynamic `bytes` value whose offset word sits at off.
// It returns the absolute start of the content and its length.
func readBytes(buf []byte, off, base int) (start, n int, ok bool) {
	head, ok := readOffset(buf, off, base)
	if !ok {
		return 0, 0, false
	}
	l, _ := readUint(buf, head)
	start = head + wordSize
	if !l.IsUint64() || l.Uint64() > uint64(len(buf)-start) {
		return 0, 0, false
	}
	return start, int(l.Uint64()), true
}

func putWord(buf []byte, off int, v *uint256.Int) {
	b := v.Bytes32()
	copy(buf[off:off+wordSize], b[:])
}

func putAddress(buf []byte, off int, addr common.Address) {
	w := PadAddress(addr)
	copy(buf[off:off+wordSize], w[:])
}

// PadAddress returns the 32-byte zero-padded form of an address.
func PadAddress(addr common.Address) [32]byte {
	var w [32]byte
	copy(w[12:], addr.Bytes())
	return w
}

// PadAmount returns the 32-byte big-endian form of an amount.
func PadAmount(v *big.Int) ([32]byte, error) {
	u, err := toUint256("amount", v)
	if err != nil {
		return [32]byte{}, err
	}
	return u.Bytes32(), nil
}

// scale returns floor(v * num / den) computed on a 512-bit intermediate.
func scale(v, num, den *uint256.Int) (*uint256.Int, error) {
	if den.IsZero() {
		return nil, fmt.Errorf("%w: zero declared amount", ErrInvariantViolation)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(v, num, den)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s / %s", ErrAmountOutOfRange, v.Dec(), num.Dec(), den.Dec())
	}
	return z, nil
}

func toUint256(name string, v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: %s is nil", ErrAmountOutOfRange, name)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrAmountOutOfRange, name)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%w: %s exceeds 2^256-1", ErrAmountOutOfRange, name)
	}
	return u, nil
}

func selectorOf(payload []byte) ([4]byte, bool) {
	var sel [4]byte
	if len(payload) < 4 {
		return sel, false
	}
	copy(sel[:], payload[:4])
	return sel, true
}

// DecodePayloadHex parses a 0x-prefixed, even-length hex payload.
func DecodePayloadHex(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return b, nil
}

// mustArguments builds an unnamed ABI argument list from elementary type names.
func mustArguments(types ...string) abi.Arguments {
	args := make(abi.Arguments, 0, len(types))
	for _, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(fmt.Sprintf("oneinch: bad abi type %q: %v", t, err))
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}
