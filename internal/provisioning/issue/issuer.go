package issue

import (
	"fmt"

	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/layout"
	"github.com/imamik/crdbcerts/internal/provisioning"
	"github.com/imamik/crdbcerts/internal/util/naming"
)

const phase = "certs"

// Issuer issues client and node certificates for created clusters.
type Issuer struct{}

// NewIssuer creates a new certificate issuer.
func NewIssuer() *Issuer {
	return &Issuer{}
}

// Name implements the provisioning.Phase interface.
func (i *Issuer) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (i *Issuer) Provision(ctx *provisioning.Context) error {
	total := len(ctx.Config.Create)
	for n, cs := range ctx.Config.Create {
		if err := i.IssueClientAndNodeCerts(ctx, cs, ctx.State.NodeAddrs); err != nil {
			return err
		}
		ctx.Observer.Progress(phase, n+1, total)
	}
	return nil
}

// IssueClientAndNodeCerts runs the issuance steps for one cluster. The CA of
// the cluster must already exist.
func (i *Issuer) IssueClientAndNodeCerts(ctx *provisioning.Context, cs config.ClusterSpec, allNodeAddrs []string) error {
	state := ctx.ClusterState(cs)
	paths := state.Paths
	obs := ctx.Observer.WithFields(map[string]string{"namespace": cs.Namespace})

	for _, dir := range []string{paths.ClientCertsDir, paths.NodeCertsDir} {
		if err := fsutil.RecreateDir(dir); err != nil {
			return fmt.Errorf("failed to prepare %s: %w", dir, err)
		}
	}

	provisioning.LogResourceCreating(obs, phase, "client certificate", paths.ClientCertsDir)
	if err := fsutil.CopyFile(paths.CACertsFile, paths.ClientCertsDir); err != nil {
		return fmt.Errorf("failed to copy CA certificate for %s: %w", cs.Namespace, err)
	}
	if err := ctx.Tool.CreateClient(ctx, paths.ClientCertsDir, paths.CAKey, layout.RootUser); err != nil {
		return fmt.Errorf("failed to create client certificate for %s: %w", cs.Namespace, err)
	}
	provisioning.LogResourceCreated(obs, phase, "client certificate", paths.ClientCertsDir)

	provisioning.LogResourceCreating(obs, phase, "node certificate", paths.NodeCertsDir)
	if err := fsutil.CopyDirFiles(paths.ClientCertsDir, paths.NodeCertsDir); err != nil {
		return fmt.Errorf("failed to copy client certificates for %s: %w", cs.Namespace, err)
	}
	sans := naming.NodeSANs(ctx.Config.ServiceName, cs.Namespace, allNodeAddrs)
	if err := ctx.Tool.CreateNode(ctx, paths.NodeCertsDir, paths.CAKey, sans); err != nil {
		return fmt.Errorf("failed to create node certificate for %s: %w", cs.Namespace, err)
	}
	state.SANs = sans
	provisioning.LogResourceCreated(obs, phase, "node certificate", paths.NodeCertsDir)

	return nil
}
