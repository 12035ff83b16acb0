package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crdbcerts/cmd/crdbcerts/handlers"
)

// Generate returns the command that provisions certificates.
//
// Optional flags:
//
//	--namespace, -n: Provision a single cluster without a config file
//	--node-address: Node address of the single cluster (repeatable)
//	--join-ca: CA bundle of an existing cluster to trust (repeatable)
//	--json: Output the result in JSON format
//	--metrics-file: Write run metrics in Prometheus text format
func Generate(settings func() handlers.Options) *cobra.Command {
	var gen handlers.GenerateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create CAs and issue client and node certificates",
		Long: `Create a certificate authority for every cluster under "create" and issue
its root client certificate and node certificate.

Node certificates name every node address of every cluster in the run, so
nodes of created and joined clusters can reach each other. Existing
certificate directories are replaced.

Examples:
  # Provision every cluster of crdbcerts.yaml
  crdbcerts generate

  # Provision one cluster without a config file
  crdbcerts generate -n us-east1 --node-address 10.0.0.1 --node-address 10.0.0.2

  # Trust an existing cluster's CA
  crdbcerts generate -n us-east1 --node-address 10.0.0.1 --join-ca ./eu/ca.crt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Generate(cmd.Context(), settings(), gen)
		},
	}

	cmd.Flags().StringVarP(&gen.Namespace, "namespace", "n", "", "Namespace of a single cluster to provision")
	cmd.Flags().StringSliceVar(&gen.NodeAddrs, "node-address", nil, "Node address of the single cluster (repeatable)")
	cmd.Flags().StringSliceVar(&gen.JoinCAs, "join-ca", nil, "CA bundle of an existing cluster to trust (repeatable)")
	cmd.Flags().BoolVar(&gen.JSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&gen.MetricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")

	return cmd
}
