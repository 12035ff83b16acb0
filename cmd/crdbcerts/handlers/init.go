package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/crdbcerts/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	runWizard   = config.RunWizard
	writeConfig = config.WriteYAML
)

// Init runs the interactive wizard and writes the resulting configuration.
func Init(ctx context.Context, outputPath string, force bool) error {
	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", outputPath)
	}

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	cfg := result.ToConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := writeConfig(cfg, outputPath); err != nil {
		return err
	}

	s := styler{styled: isInteractiveTTY()}
	fmt.Printf("%s %s\n", s.render(okStyle, "Wrote"), outputPath)
	fmt.Printf("Run %s to provision certificates.\n", s.render(titleStyle, "crdbcerts generate --config "+outputPath))
	return nil
}
