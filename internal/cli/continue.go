package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/haggle/internal/config"
	"github.com/example/haggle/internal/wire"
)

// ContinueCmd returns the continue command
func ContinueCmd() *cobra.Command {
	var (
		filePath string
		outPath  string
		steps    int
		offline  bool
	)

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Advance a saved negotiation",
		Long: `Advance a negotiation saved with 'haggle negotiate --out' by one step.
A step is the next speaker's offer, preceded by a mediator proposal when
one is due. Agreed and failed negotiations are left unchanged.

The updated negotiation is written back to --file unless --out is given.

Examples:
  haggle continue --file laptop.json
  haggle continue --file laptop.json --steps 3
  haggle continue --file laptop.json --out laptop-next.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1 (got %d)", steps)
			}
			if offline {
				viper.Set("generation.provider", config.ProviderOffline)
			}

			n, err := readNegotiationFile(filePath)
			if err != nil {
				return err
			}

			adapter := wire.NegotiationAdapterWithOutput(cmd.OutOrStdout())
			for i := 0; i < steps; i++ {
				n, err = adapter.Continue(cmd.Context(), n)
				if err != nil {
					return err
				}
				if n.Status != "ongoing" {
					break
				}
			}

			target := outPath
			if target == "" {
				target = filePath
			}
			if err := writeNegotiationFile(target, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Saved negotiation to %s\n", target)

			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "negotiation JSON file to advance (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result here instead of --file")
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of steps to take")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip text generation and use built-in messages")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
