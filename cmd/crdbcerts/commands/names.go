package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crdbcerts/cmd/crdbcerts/handlers"
)

// Names returns the command that prints node certificate SANs without
// provisioning anything.
func Names(settings func() handlers.Options) *cobra.Command {
	var (
		namespace  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "names",
		Short: "Show the names node certificates would carry",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Names(settings(), namespace, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Only show this cluster")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
