package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/crdbcerts/internal/certtool"
	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/metrics"
	"github.com/imamik/crdbcerts/internal/orchestration"
	"github.com/imamik/crdbcerts/internal/platform/s3"
	"github.com/imamik/crdbcerts/internal/provisioning/publish"
	"github.com/imamik/crdbcerts/internal/util/prerequisites"
)

// GenerateOptions are the generate command's own flags.
type GenerateOptions struct {
	// Namespace selects single-cluster mode when no config file is given.
	Namespace string
	NodeAddrs []string
	JoinCAs   []string

	JSON        bool
	MetricsFile string
}

// Runner runs a provisioning pass.
type Runner interface {
	Run(ctx context.Context) (*orchestration.Result, error)
}

// Factory function variables for generate - can be replaced in tests.
var (
	// checkTool verifies the certificate tool is installed.
	checkTool = func(binary string) error {
		return prerequisites.CheckCertTool(binary).Error()
	}

	// newTool creates the exec-backed certificate tool.
	newTool = func(cfg config.ToolConfig, log logr.Logger, rec certtool.Recorder) certtool.Tool {
		runner := certtool.NewRunner(cfg.Binary, cfg.ExtraArgs, cfg.Timeout)
		runner.Log = log
		runner.Recorder = rec
		return runner
	}

	// newObjectStore creates the client CA certificates are published with.
	newObjectStore = func(ctx context.Context, cfg *config.PublishConfig, accessKey, secretKey string) (publish.ObjectStore, error) {
		return s3.NewClient(ctx, cfg.Endpoint, cfg.Region, accessKey, secretKey)
	}

	// newOrchestrator creates the orchestrator for a run.
	newOrchestrator = func(cfg *config.Config, tool certtool.Tool, opts ...orchestration.Option) Runner {
		return orchestration.New(cfg, tool, opts...)
	}
)

// Generate provisions certificates for every cluster of the configuration.
//
// With a namespace and no explicit config file it provisions a single
// cluster from command-line input instead.
func Generate(ctx context.Context, opts Options, gen GenerateOptions) error {
	cfg, err := generateConfig(opts, gen)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	if err := checkTool(cfg.Tool.Binary); err != nil {
		return err
	}

	rec := metrics.New()
	tool := newTool(cfg.Tool, log.WithName("certtool"), rec)

	orchOpts := []orchestration.Option{
		orchestration.WithLogger(log),
		orchestration.WithMetrics(rec),
	}
	if cfg.Publish != nil {
		if opts.S3AccessKey == "" || opts.S3SecretKey == "" {
			return &config.ConfigurationError{Err: fmt.Errorf("publish requires S3 credentials in CRDBCERTS_S3_ACCESS_KEY and CRDBCERTS_S3_SECRET_KEY")}
		}
		store, err := newObjectStore(ctx, cfg.Publish, opts.S3AccessKey, opts.S3SecretKey)
		if err != nil {
			return err
		}
		orchOpts = append(orchOpts, orchestration.WithObjectStore(store))
	}

	result, runErr := newOrchestrator(cfg, tool, orchOpts...).Run(ctx)

	if gen.MetricsFile != "" {
		if err := rec.WriteTextfile(gen.MetricsFile); err != nil {
			log.Error(err, "failed to write metrics", "path", gen.MetricsFile)
		}
	}

	if runErr != nil {
		return runErr
	}

	if gen.JSON {
		return printJSON(result)
	}
	printGenerateResult(result, isInteractiveTTY())
	return nil
}

func generateConfig(opts Options, gen GenerateOptions) (*config.Config, error) {
	if gen.Namespace == "" {
		if len(gen.NodeAddrs) > 0 || len(gen.JoinCAs) > 0 {
			return nil, &config.ConfigurationError{Err: fmt.Errorf("--node-address and --join-ca require --namespace")}
		}
		return loadConfig(opts)
	}
	if opts.ConfigPath != "" {
		return nil, &config.ConfigurationError{Err: fmt.Errorf("--namespace cannot be combined with --config")}
	}
	return singleClusterConfig(opts, gen.Namespace, gen.NodeAddrs, gen.JoinCAs), nil
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
