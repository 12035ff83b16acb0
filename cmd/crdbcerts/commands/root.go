// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/imamik/crdbcerts/cmd/crdbcerts/handlers"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "CRDBCERTS"

// Global setting keys. Each is also a persistent flag and, upper-cased with
// dashes replaced, an environment variable such as CRDBCERTS_LOG_LEVEL.
const (
	keyConfig       = "config"
	keyArtifactsDir = "artifacts-dir"
	keyTool         = "tool"
	keyLogLevel     = "log-level"
	keyS3AccessKey  = "s3-access-key"
	keyS3SecretKey  = "s3-secret-key"
)

// Root returns the root command for the crdbcerts CLI.
//
// Global settings are resolved from persistent flags first and from
// CRDBCERTS_* environment variables second.
func Root() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "crdbcerts",
		Short:         "Provision certificates for multi-cluster CockroachDB",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return bindSettings(v, cmd.PersistentFlags())
	}

	flags := cmd.PersistentFlags()
	flags.StringP(keyConfig, "c", "", "Path to configuration file (default: crdbcerts.yaml)")
	flags.String(keyArtifactsDir, "", "Override the artifacts directory")
	flags.String(keyTool, "", "Override the certificate tool binary")
	flags.String(keyLogLevel, "info", "Log level (debug, info, warn, error)")

	settings := func() handlers.Options { return settingsFrom(v) }

	cmd.AddCommand(Init())
	cmd.AddCommand(Generate(settings))
	cmd.AddCommand(Names(settings))
	cmd.AddCommand(Doctor(settings))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// bindSettings layers CRDBCERTS_* environment variables under flags.
func bindSettings(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Credentials are read from the environment only.
	v.SetDefault(keyS3AccessKey, "")
	v.SetDefault(keyS3SecretKey, "")

	return v.BindPFlags(flags)
}

func settingsFrom(v *viper.Viper) handlers.Options {
	return handlers.Options{
		ConfigPath:   v.GetString(keyConfig),
		ArtifactsDir: v.GetString(keyArtifactsDir),
		ToolBinary:   v.GetString(keyTool),
		LogLevel:     v.GetString(keyLogLevel),
		S3AccessKey:  v.GetString(keyS3AccessKey),
		S3SecretKey:  v.GetString(keyS3SecretKey),
	}
}
