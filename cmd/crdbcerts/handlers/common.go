package handlers

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/logging"
)

// Options carries the global settings resolved from flags and environment.
type Options struct {
	// ConfigPath is the configuration file. Empty means the default file.
	ConfigPath string

	// ArtifactsDir overrides artifacts_dir when set.
	ArtifactsDir string

	// ToolBinary overrides tool.binary when set.
	ToolBinary string

	LogLevel string

	// S3 credentials for publishing.
	S3AccessKey string
	S3SecretKey string
}

// Factory function variables - can be replaced in tests.
var (
	// newLogger builds the process logger.
	newLogger = func(level string) (logr.Logger, error) {
		return logging.New(logging.Options{Level: level, Development: isInteractiveTTY()})
	}

	// loadConfigFile reads and validates a configuration file.
	loadConfigFile = config.LoadFile

	// readConfigFile reads and validates a configuration file without
	// checking the join CA files it names.
	readConfigFile = config.ReadFile
)

// loadConfig loads the configuration file named by opts, or the default one,
// and applies command-line overrides.
func loadConfig(opts Options) (*config.Config, error) {
	return loadConfigWith(opts, loadConfigFile)
}

func loadConfigWith(opts Options, load func(string) (*config.Config, error)) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFile
	}

	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, opts)
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.ArtifactsDir != "" {
		cfg.ArtifactsDir = opts.ArtifactsDir
	}
	if opts.ToolBinary != "" {
		cfg.Tool.Binary = opts.ToolBinary
	}
}

// singleClusterConfig builds a configuration for one created cluster from
// command-line input. Every join CA becomes a join cluster without addresses
// and is bundled into the new cluster's CA certificate.
func singleClusterConfig(opts Options, namespace string, nodeAddrs, joinCAs []string) *config.Config {
	cfg := &config.Config{
		Create: []config.ClusterSpec{{
			Namespace: namespace,
			NodeAddrs: nodeAddrs,
		}},
	}
	for _, ca := range joinCAs {
		cfg.Join = append(cfg.Join, config.ClusterSpec{CACertsFile: ca})
	}
	cfg.BundleJoinCAs = len(joinCAs) > 0
	cfg.ApplyDefaults()
	applyOverrides(cfg, opts)
	return cfg
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func describeConfig(opts Options) string {
	if opts.ConfigPath == "" {
		return fmt.Sprintf("%s (default)", config.DefaultConfigFile)
	}
	return opts.ConfigPath
}
