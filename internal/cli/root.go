// Package cli wires the recoder and the reverse-quote solver into a cobra
// command tree.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/config"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/quote"
	"github.com/Fodl-DAO/fodl-smart-contracts/internal/telemetry"
)

const Version = "0.3.0"

type globalFlags struct {
	configFile string
	debug      bool
}

// state is shared by one command tree; a fresh tree is built per run.
type state struct {
	flags globalFlags
	cfg   *config.Config

	// dialQuoter is swapped out in tests
	dialQuoter func(ctx context.Context, cfg *config.Config) (quote.Quoter, func(), error)
}

// Run executes args against a fresh command tree and returns the error, if any.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	s := &state{dialQuoter: dialContractQuoter}
	return s.run(ctx, args, stdout, stderr)
}

func (s *state) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := s.newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (s *state) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recoder",
		Short: "Recode 1inch router payloads and search reverse quotes",
		Long: `recoder rewrites 1inch AggregationRouterV4 call-data produced for one input
amount so it can be replayed for another amount and/or recipient, and searches
for the smallest input amount whose quoted output meets a target.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(s.configPath())
			if err != nil {
				return err
			}
			s.cfg = cfg
			telemetry.EnableDebug(s.flags.debug || cfg.DEBUG)
			if cmd.Annotations["skipValidate"] == "true" {
				return nil
			}
			return cfg.Validate()
		},
	}

	cmd.PersistentFlags().StringVar(&s.flags.configFile, "conf", "", "configuration file path (default config.yml)")
	cmd.PersistentFlags().BoolVar(&s.flags.debug, "debug", false, "enable normally suppressed debug logging")

	cmd.AddCommand(s.newRecodeCommand())
	cmd.AddCommand(s.newClassifyCommand())
	cmd.AddCommand(s.newReverseQuoteCommand())
	cmd.AddCommand(s.newConfigCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func (s *state) configPath() string {
	if s.flags.configFile != "" {
		return s.flags.configFile
	}
	return config.DefaultPath
}

// Main is the process entry point used by cmd/recoder.
func Main(ctx context.Context) int {
	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		telemetry.Errorf("%v", err)
		return 1
	}
	return 0
}
