package oneinch

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	payload := multiPayload(t)
	raw := fmt.Sprintf(`{
		"fromToken": {"symbol": "WETH", "address": %q, "decimals": 18},
		"toToken": {"symbol": "USDC", "address": %q, "decimals": 6},
		"toTokenAmount": "2500123456",
		"fromTokenAmount": "1000000000000000000",
		"protocols": [],
		"tx": {"from": %q, "to": "0x1111111254fb6c44bac0bed2854e76f90643097d", "data": "0x%x", "value": "0", "gas": 210000}
	}`, tokenIn.Hex(), tokenOut.Hex(), user.Hex(), payload)

	resp, err := ParseResponse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, declared, resp.FromTokenAmount)
	assert.Equal(t, tokenIn, resp.FromToken)
	assert.Equal(t, tokenOut, resp.ToToken)
	assert.Equal(t, payload, resp.Data)

	res, err := Recode(Request{Payload: resp.Data, DeclaredAmount: resp.FromTokenAmount, TargetAmount: bn("2000000000000000000"), Recipient: &quoter})
	require.NoError(t, err)
	assert.Equal(t, FormatSwapMulti, res.Format)
	dst, err := DestinationReceiver(res.Payload)
	require.NoError(t, err)
	assert.Equal(t, quoter, dst)
}

func TestParseResponseErrors(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"fromTokenAmount":`,
		"missing amount": `{"tx":{"data":"0x7c025200"}}`,
		"bad amount":     `{"fromTokenAmount":"-5","tx":{"data":"0x7c025200"}}`,
		"missing data":   `{"fromTokenAmount":"1"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse([]byte(raw))
			require.ErrorIs(t, err, errBadResponse)
		})
	}

	_, err := ParseResponse([]byte(`{"fromTokenAmount":"1","tx":{"data":"0x7c0252"}}`))
	require.NoError(t, err)

	_, err = ParseResponse([]byte(`{"fromTokenAmount":"1","tx":{"data":"7c025200"}}`))
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseResponseOptionalTokens(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"fromTokenAmount":"0x10","tx":{"data":"0x2e95b6c8"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(16), resp.FromTokenAmount.Int64())
	assert.Equal(t, common.Address{}, resp.FromToken)
}
