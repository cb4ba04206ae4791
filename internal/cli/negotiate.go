package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/haggle/internal/config"
	"github.com/example/haggle/internal/ports/primary"
	"github.com/example/haggle/internal/wire"
)

// NegotiateCmd returns the negotiate command
func NegotiateCmd() *cobra.Command {
	var (
		buyerMax  float64
		sellerMin float64
		seed      int64
		offline   bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "negotiate [item]",
		Short: "Run a buyer/seller negotiation for an item",
		Long: `Run a negotiation between a buyer agent and a seller agent, with a
mediator stepping in when progress stalls. The negotiation ends on an
accepted offer, when the last two prices converge, or at the round limit.

Agreed negotiations are stored and appear in 'haggle history'.

Examples:
  haggle negotiate "Used 2018 Honda Civic" --buyer-max 15000 --seller-min 12000
  haggle negotiate "Road bike" --buyer-max 900 --seller-min 700 --seed 42 --offline
  haggle negotiate "Laptop" --buyer-max 1000 --seller-min 800 --out laptop.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePrices(buyerMax, sellerMin); err != nil {
				return err
			}

			if offline {
				viper.Set("generation.provider", config.ProviderOffline)
			}

			req := primary.StartNegotiationRequest{
				Item:      args[0],
				BuyerMax:  buyerMax,
				SellerMin: sellerMin,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			adapter := wire.NegotiationAdapterWithOutput(cmd.OutOrStdout())
			n, err := adapter.Negotiate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := writeNegotiationFile(outPath, n); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Saved negotiation to %s\n", outPath)
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&buyerMax, "buyer-max", 0, "highest price the buyer will pay (required)")
	cmd.Flags().Float64Var(&sellerMin, "seller-min", 0, "lowest price the seller will accept (required)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed the price randomness for a reproducible run")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip text generation and use built-in messages")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the negotiation as JSON to this file")
	_ = cmd.MarkFlagRequired("buyer-max")
	_ = cmd.MarkFlagRequired("seller-min")

	return cmd
}
