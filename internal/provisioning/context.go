package provisioning

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/imamik/crdbcerts/internal/certtool"
	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/layout"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Tool     certtool.Tool
	Observer Observer
	Metrics  PhaseMetrics
}

// NewContext creates a new provisioning context. The observer logs through
// the logr.Logger carried by ctx, if any.
func NewContext(ctx context.Context, cfg *config.Config, tool certtool.Tool) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Tool:     tool,
		Observer: NewLogObserver(logr.FromContextOrDiscard(ctx)),
	}
}

// Paths resolves the layout of namespace under the configured artifacts root.
func (c *Context) Paths(namespace string) layout.Paths {
	return layout.Resolve(c.Config.ArtifactsDir, namespace)
}

// ClusterState returns the state entry of a create cluster.
func (c *Context) ClusterState(cs config.ClusterSpec) *ClusterState {
	return c.State.Cluster(cs.Namespace, c.Paths(cs.Namespace))
}
