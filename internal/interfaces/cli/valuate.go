package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrcar-cl/tasador/internal/domain/pricing"
)

// NewValuateCmd creates the `tasador valuate` command.  The vehicle is
// given either as a plate or as make/model/year.
func NewValuateCmd() *cobra.Command {
	var (
		plate   string
		mk      string
		model   string
		year    string
		mileage int
		region  string
	)

	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Estimate a vehicle's market price and compute offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if plate == "" && (mk == "" || model == "" || year == "") {
				return fmt.Errorf("either --plate or --make, --model and --year are required")
			}

			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			deps := newAppDeps(cliCtx)
			defer deps.Close()

			service, err := deps.buildService(cmd.Context())
			if err != nil {
				return err
			}

			if plate != "" {
				res, err := service.ValuatePlate(cmd.Context(), plate, mileage, region)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			}

			res, err := service.Valuate(cmd.Context(), pricing.Query{
				Make:    mk,
				Model:   model,
				Year:    year,
				Mileage: mileage,
				Region:  region,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&plate, "plate", "", "license plate to resolve and valuate")
	f.StringVar(&mk, "make", "", "vehicle make")
	f.StringVar(&model, "model", "", "vehicle model")
	f.StringVar(&year, "year", "", "vehicle year")
	f.IntVar(&mileage, "mileage", 0, "vehicle mileage in km")
	f.StringVar(&region, "region", "", "region of the listing search")

	return cmd
}
