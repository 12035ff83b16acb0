package ca

import (
	"fmt"

	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/provisioning"
)

const phase = "ca"

// Provisioner creates one root CA per created cluster.
type Provisioner struct{}

// NewProvisioner creates a new CA provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	total := len(ctx.Config.Create)
	for i, cs := range ctx.Config.Create {
		state := ctx.ClusterState(cs)
		paths := state.Paths

		provisioning.LogResourceCreating(ctx.Observer, phase, "ca", paths.CACertsDir)
		if err := fsutil.RecreateDir(paths.CACertsDir); err != nil {
			return fmt.Errorf("failed to prepare CA directory for %s: %w", cs.Namespace, err)
		}
		if err := ctx.Tool.CreateCA(ctx, paths.CACertsDir, paths.CAKey); err != nil {
			return fmt.Errorf("failed to create CA for %s: %w", cs.Namespace, err)
		}

		state.CAProvisioned = true
		provisioning.LogResourceCreated(ctx.Observer, phase, "ca", paths.CACertsDir)
		ctx.Observer.Progress(phase, i+1, total)
	}
	return nil
}
