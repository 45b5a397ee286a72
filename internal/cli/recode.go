package cli

import (
	"github.com/spf13/cobra"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/dex/oneinch"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/helpers"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/telemetry"
)

type recodeOutput struct {
	Format    string `json:"format"`
	Declared  string `json:"declaredAmount"`
	Amount    string `json:"amount"`
	Units     string `json:"amountUnits"`
	Recipient string `json:"recipient,omitempty"`
	Payload   string `json:"payload"`
	Args      string `json:"args"`
}

func (s *state) newRecodeCommand() *cobra.Command {
	var (
		in        payloadInput
		amount    string
		recipient string
	)
	cmd := &cobra.Command{
		Use:   "recode",
		Short: "Rewrite a router payload for a new input amount and/or recipient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, declared, err := in.load(cmd, true)
			if err != nil {
				return err
			}
			target, err := parseAmountFlag("amount", amount, in.decimals)
			if err != nil {
				return err
			}
			to, err := s.recipientOverride(recipient)
			if err != nil {
				return err
			}

			res, err := oneinch.Recode(oneinch.Request{
				Payload:        payload,
				DeclaredAmount: declared,
				TargetAmount:   target,
				Recipient:      to,
			})
			if err != nil {
				return err
			}
			telemetry.Debugf("recoded %s payload (%d bytes) %s -> %s", res.Format, len(res.Payload), declared, target)

			out := recodeOutput{
				Format:   res.Format.String(),
				Declared: declared.String(),
				Amount:   target.String(),
				Units:    helpers.FormatTokenAmount(target, in.decimals),
				Payload:  res.Hex(),
				Args:     res.ArgsHex(),
			}
			if to != nil {
				out.Recipient = to.Hex()
			}
			return writeJSON(cmd, out)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&amount, "amount", "", "new input amount in base units (decimal or 0x hex), or token units with --decimals")
	cmd.Flags().StringVar(&recipient, "recipient", "", "replace the payload's destination account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
