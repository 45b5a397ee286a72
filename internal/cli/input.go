package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/dex/oneinch"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
)

// payloadInput is the --payload/--response/--declared trio shared by commands,
// plus the input token's --decimals.
type payloadInput struct {
	payloadHex   string
	responsePath string
	declared     string
	decimals     uint8
}

func (in *payloadInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.payloadHex, "payload", "", "0x-prefixed router call-data")
	cmd.Flags().StringVar(&in.responsePath, "response", "", "aggregator /swap JSON response file (- for stdin)")
	cmd.Flags().StringVar(&in.declared, "declared", "", "amount the payload was built for (default: response fromTokenAmount)")
	cmd.Flags().Uint8Var(&in.decimals, "decimals", 0, "input token decimals; amount flags are then read as token units such as 1.5")
	cmd.MarkFlagsMutuallyExclusive("payload", "response")
	cmd.MarkFlagsOneRequired("payload", "response")
}

// load returns the payload and its declared amount. declaredRequired is false
// for commands that only inspect the payload.
func (in *payloadInput) load(cmd *cobra.Command, declaredRequired bool) ([]byte, *big.Int, error) {
	var (
		payload  []byte
		declared *big.Int
	)
	if in.responsePath != "" {
		raw, err := readInput(cmd, in.responsePath)
		if err != nil {
			return nil, nil, err
		}
		resp, err := oneinch.ParseResponse(raw)
		if err != nil {
			return nil, nil, err
		}
		payload, declared = resp.Data, resp.FromTokenAmount
	} else {
		p, err := oneinch.DecodePayloadHex(in.payloadHex)
		if err != nil {
			return nil, nil, err
		}
		payload = p
	}

	if in.declared != "" {
		v, err := parseAmountFlag("declared", in.declared, in.decimals)
		if err != nil {
			return nil, nil, err
		}
		declared = v
	}
	if declared == nil && declaredRequired {
		return nil, nil, fmt.Errorf("--declared is required with --payload")
	}
	return payload, declared, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// recipientOverride resolves --recipient, falling back to the configured one.
func (s *state) recipientOverride(flag string) (*common.Address, error) {
	v := flag
	if v == "" && s.cfg != nil {
		v = s.cfg.RECIPIENT
	}
	if v == "" {
		return nil, nil
	}
	addr, err := helpers.ParseRecipient(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oneinch.ErrInvalidRecipient, err)
	}
	return &addr, nil
}

// parseAmountFlag reads an amount in base units, or in token units when
// decimals is set.
func parseAmountFlag(name, v string, decimals uint8) (*big.Int, error) {
	amount, err := helpers.ParseUnits(v, decimals)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return amount, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
