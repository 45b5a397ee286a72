package oneinch

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// Minimal AggregationRouterV4 fragment
const routerABIJSON = `[
	{"name":"swap","type":"function","stateMutability":"payable",
	 "inputs":[
		{"name":"caller","type":"address"},
		{"name":"desc","type":"tuple","components":[
			{"name":"srcToken","type":"address"},
			{"name":"dstToken","type":"address"},
			{"name":"srcReceiver","type":"address"},
			{"name":"dstReceiver","type":"address"},
			{"name":"amount","type":"uint256"},
			{"name":"minReturnAmount","type":"uint256"},
			{"name":"flags","type":"uint256"},
			{"name":"permit","type":"bytes"}]},
		{"name":"data","type":"bytes"}],
	 "outputs":[{"name":"returnAmount","type":"uint256"},{"name":"spentAmount","type":"uint256"},{"name":"gasLeft","type":"uint256"}]},
	{"name":"unoswap","type":"function","stateMutability":"payable",
	 "inputs":[
		{"name":"srcToken","type":"address"},
		{"name":"amount","type":"uint256"},
		{"name":"minReturn","type":"uint256"},
		{"name":"pools","type":"bytes32[]"}],
	 "outputs":[{"name":"returnAmount","type":"uint256"}]}
]`

var (
	routerABI = mustRouterABI()

	executorCallComponents = []abi.ArgumentMarshaling{
		{Name: "targetWithMandatory", Type: "uint256"},
		{Name: "gasLimit", Type: "uint256"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
	}
	callsArguments        = abi.Arguments{{Type: mustType("tuple[]", executorCallComponents)}}
	internalCallArguments = abi.Arguments{
		{Type: mustType("tuple", executorCallComponents)},
		{Type: mustType("uint256", nil)},
		{Type: mustType("address", nil)},
		{Type: mustType("uint256", nil)},
	}
	poolSwapArguments = mustArguments("address", "bool", "int256", "uint160", "bytes")
	leftoverArguments = mustArguments("address", "bytes")

	executor  = common.HexToAddress("0xf782fb3b37d8837b0d3b6f607b1bd0128deea99e")
	pool      = common.HexToAddress("0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640")
	tokenIn   = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	tokenOut  = common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	user      = common.HexToAddress("0x1111111111111111111111111111111111111111")
	quoter    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	sourceTag = []byte{0xcf, 0xee, 0x7c, 0x08}

	declared  = bn("1000000000000000000")
	baseInput = bn("997000000000000000")
	minReturn = bn("2500123456")
)

type swapDescription struct {
	SrcToken        common.Address
	DstToken        common.Address
	SrcReceiver     common.Address
	DstReceiver     common.Address
	Amount          *big.Int
	MinReturnAmount *big.Int
	Flags           *big.Int
	Permit          []byte
}

type executorCall struct {
	TargetWithMandatory *big.Int
	GasLimit            *big.Int
	Value               *big.Int
	Data                []byte
}

func mustRouterABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

func bn(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad number " + s)
	}
	return v
}

func addrWord(a common.Address) []byte { return common.LeftPadBytes(a.Bytes(), 32) }
func uintWord(v *big.Int) []byte        { return common.LeftPadBytes(v.Bytes(), 32) }

func callData(sel string, words ...[]byte) []byte {
	s := fourBytes(sel)
	out := append([]byte{}, s[:]...)
	for _, w := range words {
		out = append(out, w...)
	}
	return out
}

func transferCall(to common.Address, amount *big.Int) []byte {
	return callData("a9059cbb", addrWord(to), uintWord(amount))
}

func safeTransferCall(token, to common.Address, amount *big.Int) []byte {
	return callData("d1660f99", addrWord(token), addrWord(to), uintWord(amount))
}

func safeApproveCall(token, spender common.Address, amount *big.Int) []byte {
	return callData("eb5625d9", addrWord(token), addrWord(spender), uintWord(amount))
}

func poolSwapCall(t *testing.T, recipient common.Address, amount *big.Int) []byte {
	t.Helper()
	args, err := poolSwapArguments.Pack(recipient, true, amount, bn("4295128740"), []byte{0xca, 0xfe})
	require.NoError(t, err)
	return callData("128acb08", args)
}

func leftoverCheckCall(t *testing.T, capValue *big.Int) []byte {
	return leftoverCheckFor(t, tokenIn, capValue)
}

// leftoverCheckFor builds a leftover check on token, wrapping a cap sub-call
// when capValue is set.
func leftoverCheckFor(t *testing.T, token common.Address, capValue *big.Int) []byte {
	t.Helper()
	sub := []byte{}
	if capValue != nil {
		sub = callData("70bdb947", addrWord(token), uintWord(capValue))
	}
	args, err := leftoverArguments.Pack(token, sub)
	require.NoError(t, err)
	return callData("7f8fe7a0", args)
}

func internalCall(t *testing.T, nested []byte) []byte {
	t.Helper()
	args, err := internalCallArguments.Pack(
		executorCall{TargetWithMandatory: new(big.Int).SetBytes(tokenOut.Bytes()), GasLimit: big.NewInt(0), Value: big.NewInt(0), Data: nested},
		big.NewInt(0), tokenOut, big.NewInt(10),
	)
	require.NoError(t, err)
	return callData("b3af37c0", args)
}

// swapPayload builds swap(caller, desc, data) followed by the aggregator's source tag.
func swapPayload(t *testing.T, amount *big.Int, actions ...[]byte) []byte {
	t.Helper()
	calls := make([]executorCall, 0, len(actions))
	for i, cd := range actions {
		calls = append(calls, executorCall{
			TargetWithMandatory: big.NewInt(int64(i + 1)),
			GasLimit:            big.NewInt(0),
			Value:               big.NewInt(0),
			Data:                cd,
		})
	}
	data, err := callsArguments.Pack(calls)
	require.NoError(t, err)

	desc := swapDescription{
		SrcToken:        tokenIn,
		DstToken:        tokenOut,
		SrcReceiver:     pool,
		DstReceiver:     user,
		Amount:          amount,
		MinReturnAmount: minReturn,
		Flags:           big.NewInt(4),
		Permit:          []byte{},
	}
	args, err := routerABI.Methods["swap"].Inputs.Pack(executor, desc, data)
	require.NoError(t, err)

	out := append([]byte{}, selSwap[:]...)
	out = append(out, args...)
	return append(out, sourceTag...)
}

func unoswapPayload(t *testing.T, amount *big.Int) []byte {
	t.Helper()
	pools := [][32]byte{
		common.HexToHash("0x80000000000000003b6d0340b4e16d0168e52d35cacd2c6185b44281ec28c9dc"),
		common.HexToHash("0x00000000000000003b6d03400d4a11d5eeaac28ec3f61d100daf4d40471f1852"),
	}
	args, err := routerABI.Methods["unoswap"].Inputs.Pack(tokenIn, amount, minReturn, pools)
	require.NoError(t, err)

	out := append([]byte{}, selUnoswap[:]...)
	out = append(out, args...)
	return append(out, sourceTag...)
}

// singlePayload is a one-hop executor swap through a pool.
func singlePayload(t *testing.T) []byte {
	return swapPayload(t, declared, poolSwapCall(t, executor, declared))
}

// multiPayload is a capped multi-action route paying out through an internal call.
func multiPayload(t *testing.T) []byte {
	return swapPayload(t, declared,
		transferCall(pool, baseInput),
		poolSwapCall(t, executor, baseInput),
		leftoverCheckCall(t, bn("1000000000000000001")),
		internalCall(t, transferCall(user, big.NewInt(0))),
	)
}

// uncappedPayload is a multi-action route without leftover handling.
func uncappedPayload(t *testing.T) []byte {
	return swapPayload(t, declared,
		transferCall(pool, baseInput),
		poolSwapCall(t, executor, baseInput),
		internalCall(t, safeTransferCall(tokenOut, user, big.NewInt(0))),
	)
}

// argWord reads inner argument k of action i from a payload.
func argWord(t *testing.T, payload []byte, i, k int) *big.Int {
	t.Helper()
	actions, err := DecodeActions(payload)
	require.NoError(t, err)
	off, err := actions[i].arg(k)
	require.NoError(t, err)
	v, ok := readUint(payload[4:], off)
	require.True(t, ok)
	return v.ToBig()
}

func argsWord(payload []byte, k int) []byte {
	return payload[4+k*32 : 4+(k+1)*32]
}
