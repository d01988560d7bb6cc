package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"masavread/pkg/masavcore"
)

func newCommand(dir *masavcore.BankDirectory) *cobra.Command {
	return &cobra.Command{
		Use:           "readbanks [bank_code...]",
		Short:         "List the bank codes known to the MASAV reporter",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, r := range dir.Records() {
					fmt.Fprintf(out, "%-4s | %s\n", r.Code, r.Name)
				}
				return nil
			}

			missing := 0
			for _, code := range args {
				name, ok := dir.Lookup(code)
				if !ok {
					name = "(unknown)"
					missing++
				}
				fmt.Fprintf(out, "%-4s | %s\n", code, name)
			}
			if missing > 0 {
				return fmt.Errorf("%d unknown bank code(s)", missing)
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand(masavcore.DefaultBanks()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
