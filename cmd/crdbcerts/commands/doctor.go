package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crdbcerts/cmd/crdbcerts/handlers"
)

// Doctor returns the command for diagnosing the local setup.
//
// Optional flags:
//
//	--json: Output in JSON format
func Doctor(settings func() handlers.Options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, tools and generated certificates",
		Long: `Check the local setup before or after a run.

  - Validates the configuration file
  - Looks up the certificate tool and optional tools
  - Reports a lock left behind by a crashed run
  - Lists certificate files missing from each cluster directory`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Doctor(settings(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
