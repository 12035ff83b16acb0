package handlers

import (
	"fmt"

	"github.com/imamik/crdbcerts/internal/orchestration"
)

// Names prints the node certificate SANs each created cluster would get.
// It neither touches the artifacts directory nor invokes the tool.
func Names(opts Options, namespace string, asJSON bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	plans, err := orchestration.PlanSANs(cfg)
	if err != nil {
		return err
	}

	if namespace != "" {
		plans = filterPlans(plans, namespace)
		if len(plans) == 0 {
			return fmt.Errorf("namespace %q is not listed under create in %s", namespace, describeConfig(opts))
		}
	}

	if asJSON {
		return printJSON(plans)
	}
	fmt.Print(renderPlans(plans, isInteractiveTTY()))
	return nil
}

func filterPlans(plans []orchestration.Plan, namespace string) []orchestration.Plan {
	for _, p := range plans {
		if p.Namespace == namespace {
			return []orchestration.Plan{p}
		}
	}
	return nil
}
