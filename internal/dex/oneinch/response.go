package oneinch

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tidwall/gjson"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
)

var errBadResponse = errors.New("invalid aggregator response")

// Response holds the fields of an aggregator /swap response the recoder needs.
type Response struct {
	FromTokenAmount *big.Int
	FromToken       common.Address // zero when absent
	ToToken         common.Address
	Data            []byte
}

// ParseResponse extracts fromTokenAmount and tx.data from the aggregator JSON.
func ParseResponse(raw []byte) (*Response, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: not JSON", errBadResponse)
	}
	res := gjson.ParseBytes(raw)

	amt := res.Get("fromTokenAmount")
	if !amt.Exists() {
		return nil, fmt.Errorf("%w: missing fromTokenAmount", errBadResponse)
	}
	amount, err := helpers.ParseAmount(amt.String())
	if err != nil {
		return nil, fmt.Errorf("%w: fromTokenAmount: %v", errBadResponse, err)
	}

	data := res.Get("tx.data")
	if !data.Exists() {
		return nil, fmt.Errorf("%w: missing tx.data", errBadResponse)
	}
	payload, err := DecodePayloadHex(data.String())
	if err != nil {
		return nil, err
	}

	r := &Response{FromTokenAmount: amount, Data: payload}
	if v := res.Get("fromToken.address").String(); common.IsHexAddress(v) {
		r.FromToken = common.HexToAddress(v)
	}
	if v := res.Get("toToken.address").String(); common.IsHexAddress(v) {
		r.ToToken = common.HexToAddress(v)
	}
	return r, nil
}

