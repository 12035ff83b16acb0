package provisioning

import "time"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// PhaseMetrics receives the outcome of every phase.
type PhaseMetrics interface {
	ObservePhase(phase string, duration time.Duration, err error)
}

// PhaseFunc adapts a function to the Phase interface.
func PhaseFunc(name string, fn func(*Context) error) Phase {
	return funcPhase{name: name, fn: fn}
}

type funcPhase struct {
	name string
	fn   func(*Context) error
}

func (p funcPhase) Name() string                 { return p.name }
func (p funcPhase) Provision(ctx *Context) error { return p.fn(ctx) }
