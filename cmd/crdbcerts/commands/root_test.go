package commands

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "crdbcerts", cmd.Use)
	assert.Equal(t, "Provision certificates for multi-cluster CockroachDB", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"init",
		"generate",
		"names",
		"doctor",
		"version",
		"completion",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), len(expectedSubcommands))
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	for _, name := range []string{keyConfig, keyArtifactsDir, keyTool, keyLogLevel} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "info", cmd.PersistentFlags().Lookup(keyLogLevel).DefValue)
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup(keyConfig).Shorthand)
}

func TestBindSettings_EnvironmentFallback(t *testing.T) {
	t.Setenv("CRDBCERTS_ARTIFACTS_DIR", "/env/artifacts")
	t.Setenv("CRDBCERTS_LOG_LEVEL", "warn")
	t.Setenv("CRDBCERTS_S3_ACCESS_KEY", "AK")
	t.Setenv("CRDBCERTS_S3_SECRET_KEY", "SK")

	flags := Root().PersistentFlags()
	require.NoError(t, flags.Set(keyLogLevel, "debug"))

	v := viper.New()
	require.NoError(t, bindSettings(v, flags))
	opts := settingsFrom(v)

	assert.Equal(t, "/env/artifacts", opts.ArtifactsDir)
	assert.Equal(t, "debug", opts.LogLevel, "explicit flag wins over environment")
	assert.Equal(t, "AK", opts.S3AccessKey)
	assert.Equal(t, "SK", opts.S3SecretKey)
	assert.Empty(t, opts.ConfigPath)
}

func TestBindSettings_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, bindSettings(v, Root().PersistentFlags()))
	opts := settingsFrom(v)

	assert.Equal(t, "info", opts.LogLevel)
	assert.Empty(t, opts.ToolBinary)
	assert.Empty(t, opts.S3AccessKey)
}

func TestGenerate_Flags(t *testing.T) {
	cmd := Generate(nil)

	assert.Equal(t, "generate", cmd.Use)
	for _, name := range []string{"namespace", "node-address", "join-ca", "json", "metrics-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	require.NoError(t, cmd.Flags().Parse([]string{"--node-address", "10.0.0.1,10.0.0.2", "--node-address", "db.example.com"}))
	addrs, err := cmd.Flags().GetStringSlice("node-address")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "db.example.com"}, addrs)
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "crdbcerts.yaml", output.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	cmd := Root()
	cmd.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, cmd.Execute())
}
