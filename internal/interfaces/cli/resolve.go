package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResolveCmd creates the `tasador resolve` command: plate → vehicle.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <plate>",
		Short: "Resolve a license plate to its vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			deps := newAppDeps(cliCtx)
			defer deps.Close()

			resolver, err := deps.buildPlateResolver(cmd.Context())
			if err != nil {
				return err
			}

			lookup, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !lookup.Found {
				return fmt.Errorf("%s", lookup.Reason)
			}
			return printJSON(cmd, lookup)
		},
	}
}
