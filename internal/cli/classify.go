package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/dex/oneinch"
)

type actionOutput struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Selector string `json:"selector"`
	Offset   int    `json:"callDataOffset"`
	Length   int    `json:"callDataLength"`
}

type classifyOutput struct {
	Format      string         `json:"format"`
	Selector    string         `json:"selector"`
	Length      int            `json:"length"`
	DstReceiver string         `json:"dstReceiver,omitempty"`
	Actions     []actionOutput `json:"actions,omitempty"`
}

func (s *state) newClassifyCommand() *cobra.Command {
	var in payloadInput
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Report a payload's format and executor action table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _, err := in.load(cmd, false)
			if err != nil {
				return err
			}
			if len(payload) < 4 {
				return fmt.Errorf("%w: payload shorter than a selector", oneinch.ErrMalformedPayload)
			}

			format := oneinch.Classify(payload)
			out := classifyOutput{
				Format:   format.String(),
				Selector: fmt.Sprintf("0x%x", payload[:4]),
				Length:   len(payload),
			}
			if format == oneinch.FormatSwapSingle || format == oneinch.FormatSwapMulti {
				actions, err := oneinch.DecodeActions(payload)
				if err != nil {
					return err
				}
				for _, a := range actions {
					out.Actions = append(out.Actions, actionOutput{
						Index:    a.Index,
						Kind:     a.Kind.String(),
						Selector: fmt.Sprintf("0x%x", a.Selector),
						Offset:   a.CallDataOffset,
						Length:   a.CallDataLength,
					})
				}
				dst, err := oneinch.DestinationReceiver(payload)
				if err != nil {
					return err
				}
				out.DstReceiver = dst.Hex()
			}
			return writeJSON(cmd, out)
		},
	}
	in.register(cmd)
	return cmd
}
