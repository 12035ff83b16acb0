package provisioning

import (
	"fmt"
	"time"
)

// Pipeline is an ordered list of phases run one after another.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline from phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes the phases sequentially and stops at the first failure.
// Results of completed phases are left in place.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(p.Phases))

	for i, phase := range p.Phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("provisioning interrupted before %s phase: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(p.Phases))
		LogPhaseStart(ctx.Observer, name)

		err := phase.Provision(ctx)
		if ctx.Metrics != nil {
			ctx.Metrics.ObservePhase(phase.Name(), time.Since(phaseStart), err)
		}
		if err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases []Phase) error {
	return NewPipeline(phases...).Run(ctx)
}
