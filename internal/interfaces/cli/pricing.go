package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPricingCmd creates the `tasador pricing` command: apply the offer
// formulas to a known market price, no providers involved.
func NewPricingCmd() *cobra.Command {
	var price int

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Compute purchase and consignment offers for a market price",
		RunE: func(cmd *cobra.Command, args []string) error {
			if price <= 0 {
				return fmt.Errorf("--price must be a positive CLP amount")
			}

			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			offer := newAppDeps(cliCtx).buildFormula().Compute(price)
			return printJSON(cmd, offer)
		},
	}

	cmd.Flags().IntVar(&price, "price", 0, "market price in CLP")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}
