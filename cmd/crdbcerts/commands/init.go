package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crdbcerts/cmd/crdbcerts/handlers"
	"github.com/imamik/crdbcerts/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "crdbcerts.yaml")
//	--force: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a configuration file for one cluster.

The wizard asks for the cluster's namespace and node addresses, an
optional existing cluster to join and whether Secret manifests should
be rendered.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
