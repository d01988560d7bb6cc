package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"masavread/pkg/config"
	"masavread/pkg/masavcore"
)

var errUsage = errors.New("missing MASAV file argument")

func newCommand(cfg config.AppConfig) *cobra.Command {
	code := cfg.Code
	reconcile := cfg.Reconcile
	logLevel := cfg.LogLevel
	bankNames := cfg.BankNames

	cmd := &cobra.Command{
		Use:     "masavview <masav_file>",
		Short:   "Decode and display a MASAV payment file",
		Example: "  masavview MT_251124.txt\n  masavview --code code-b --reconcile MT_251124.msv",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := config.NewLogger(logLevel)

			ct, err := masavcore.ParseCodeType(code)
			if err != nil {
				return err
			}

			reporter := masavcore.NewTextReporter(cmd.OutOrStdout())
			if bankNames {
				reporter.WithBanks(masavcore.DefaultBanks())
			}

			p := masavcore.NewParser(reporter)
			p.Code = ct
			p.Log = log

			summary, err := p.ProcessFile(args[0])
			if err != nil {
				return err
			}
			if err := reporter.Err(); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if reconcile {
				for _, e := range multierr.Errors(summary.Reconcile()) {
					log.WithField("file", args[0]).Warn(e)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", code, "Hebrew code table: auto, code-a or code-b")
	cmd.Flags().BoolVar(&reconcile, "reconcile", reconcile, "compare trailer totals with detail records (warnings on stderr)")
	cmd.Flags().StringVar(&logLevel, "log-level", logLevel, "log level for diagnostics on stderr")
	cmd.Flags().BoolVar(&bankNames, "bank-names", bankNames, "show bank names next to bank codes")
	return cmd
}

func main() {
	cmd := newCommand(config.Load())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, errUsage) {
			cmd.Usage()
		}
		os.Exit(1)
	}
}
