package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/haggle/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent agreed negotiations",
		Long: `List the most recent agreed negotiations, newest first.

Examples:
  haggle history
  haggle history --limit 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = wire.Config().Negotiation.HistoryLimit
			}

			_, err := wire.NegotiationAdapterWithOutput(cmd.OutOrStdout()).History(cmd.Context(), limit)
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "number of negotiations to show (default from negotiation.history_limit)")

	return cmd
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "show [negotiation-id]",
		Short: "Show a stored negotiation with its transcript",
		Long: `Show a stored negotiation: limits, full transcript, summary and analysis.

Examples:
  haggle show NEG-01J9Z8Q5W3K7V2M4N6P8R0S2T4
  haggle show NEG-01J9Z8Q5W3K7V2M4N6P8R0S2T4 --out replay.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := validateNegotiationID(id); err != nil {
				return err
			}

			n, err := wire.NegotiationAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), id)
			if err != nil {
				return err
			}

			if outPath != "" {
				return writeNegotiationFile(outPath, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the negotiation as JSON to this file")

	return cmd
}
