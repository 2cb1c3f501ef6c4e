package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrcar-cl/tasador/internal/infrastructure/database/postgres"
	"github.com/mrcar-cl/tasador/internal/infrastructure/providers/registry"
)

// NewImportCmd creates the `tasador import` command: load vehicle roster
// CSV files into the registry, oldest file first so newer rosters win.
func NewImportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import vehicle roster CSV files into the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			deps := newAppDeps(cliCtx)
			defer deps.Close()

			conn, err := deps.postgres()
			if err != nil {
				return err
			}

			repo := postgres.NewVehicleRepo(conn, cliCtx.Logger)
			importer := registry.NewImporter(repo, cliCtx.Logger)

			n, err := importer.ImportDir(cmd.Context(), dir)
			if err != nil {
				return err
			}

			total, err := repo.Count(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records, registry now holds %d vehicles\n", n, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory containing roster CSV files")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}
