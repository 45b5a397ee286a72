package cli

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/spf13/cobra"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/config"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/quote"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/telemetry"
)

type reverseOutput struct {
	Format      string `json:"format"`
	AmountIn    string `json:"amountIn"`
	AmountOut   string `json:"amountOut"`
	InUnits     string `json:"amountInUnits"`
	OutUnits    string `json:"amountOutUnits"`
	Iterations  int    `json:"iterations"`
	CacheHits   uint64 `json:"cacheHits"`
	CacheMisses uint64 `json:"cacheMisses"`
	Payload     string `json:"payload"`
}

func dialContractQuoter(ctx context.Context, cfg *config.Config) (quote.Quoter, func(), error) {
	if err := cfg.ValidateQuoting(); err != nil {
		return nil, nil, err
	}
	rc, err := rpc.DialContext(ctx, cfg.RPC_URL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", cfg.RPC_URL, err)
	}
	client := ethclient.NewClient(rc)
	q := quote.NewContractQuoter(client, common.HexToAddress(cfg.QUOTER_ADDRESS))
	q.Timeout = cfg.QUOTE_TIMEOUT
	if cfg.QUOTE_FROM != "" {
		q.From = common.HexToAddress(cfg.QUOTE_FROM)
	}
	telemetry.Infof("quoting through %s via %s", q.Address().Hex(), cfg.RPC_URL)
	return q, client.Close, nil
}

func (s *state) newReverseQuoteCommand() *cobra.Command {
	var (
		in        payloadInput
		initial   string
		minOut    string
		maxIn     string
		recipient string
		outDec    uint8
	)
	cmd := &cobra.Command{
		Use:   "reverse-quote",
		Short: "Find the smallest input amount whose quote meets --min-out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, declared, err := in.load(cmd, true)
			if err != nil {
				return err
			}
			params := quote.SearchParams{
				Payload:         payload,
				DeclaredAmount:  declared,
				InitialAmountIn: declared,
				MaxIterations:   s.cfg.MAX_ITERATIONS,
				StepBps:         s.cfg.STEP_BPS,
			}
			if params.MinAmountOut, err = parseAmountFlag("min-out", minOut, outDec); err != nil {
				return err
			}
			if initial != "" {
				if params.InitialAmountIn, err = parseAmountFlag("initial", initial, in.decimals); err != nil {
					return err
				}
			}
			if maxIn != "" {
				if params.MaxAmountIn, err = parseAmountFlag("max-in", maxIn, in.decimals); err != nil {
					return err
				}
			}
			if params.Recipient, err = s.recipientOverride(recipient); err != nil {
				return err
			}

			ctx := cmd.Context()
			if s.cfg.SEARCH_TIMEOUT > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.cfg.SEARCH_TIMEOUT)
				defer cancel()
			}

			backend, closeFn, err := s.dialQuoter(ctx, s.cfg)
			if err != nil {
				return err
			}
			if closeFn != nil {
				defer closeFn()
			}
			cached, err := quote.NewCachedQuoter(backend, s.cfg.QUOTE_CACHE_SIZE)
			if err != nil {
				return err
			}

			telemetry.Infof("reverse quote: start=%s min-out=%s step=%dbps (%.2f%% of declared)",
				params.InitialAmountIn, params.MinAmountOut, s.cfg.STEP_BPS,
				helpers.CalculatePercentage(params.InitialAmountIn, declared))
			res, err := quote.ReverseExactIn(ctx, cached, params)
			if err != nil {
				return err
			}

			hits, misses := cached.Stats()
			return writeJSON(cmd, reverseOutput{
				Format:      res.Format.String(),
				AmountIn:    res.AmountIn.String(),
				AmountOut:   res.AmountOut.String(),
				InUnits:     helpers.FormatTokenAmount(res.AmountIn, in.decimals),
				OutUnits:    helpers.FormatTokenAmount(res.AmountOut, outDec),
				Iterations:  res.Iterations,
				CacheHits:   hits,
				CacheMisses: misses,
				Payload:     fmt.Sprintf("0x%x", res.Payload),
			})
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&initial, "initial", "", "first amountIn to try (default: declared amount)")
	cmd.Flags().StringVar(&minOut, "min-out", "", "required output amount in base units, or token units with --out-decimals")
	cmd.Flags().Uint8Var(&outDec, "out-decimals", 0, "output token decimals for --min-out")
	cmd.Flags().StringVar(&maxIn, "max-in", "", "upper bound for amountIn (default 2^256-1)")
	cmd.Flags().StringVar(&recipient, "recipient", "", "replace the payload's destination account")
	_ = cmd.MarkFlagRequired("min-out")
	return cmd
}
