package ca

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/crdbcerts/internal/certtool"
	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/provisioning"
	testutil "github.com/imamik/crdbcerts/internal/testing"
)

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ca", NewProvisioner().Name())
}

func TestProvisioner_CreatesCAPerCluster(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testutil.NewConfigBuilder().
		WithArtifactsDir(dir).
		WithCreate("ns1", "10.0.0.1").
		WithCreate("ns2", "10.0.0.2").
		Build()
	tool := testutil.NewFakeTool()
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, tool)

	require.NoError(t, NewProvisioner().Provision(ctx))

	calls := tool.Calls()
	require.Len(t, calls, 2)
	for i, ns := range []string{"ns1", "ns2"} {
		caDir := filepath.Join(dir, ns, "ca_certs_dir")
		assert.Equal(t, certtool.OpCreateCA, calls[i].Op)
		assert.Equal(t, caDir, calls[i].CertsDir)
		assert.Equal(t, filepath.Join(caDir, "ca.key"), calls[i].CAKey)
		assert.Equal(t, []string{"ca.crt", "ca.key"}, testutil.DirFiles(t, caDir))
		assert.True(t, ctx.State.Clusters[ns].CAProvisioned)
	}
}

func TestProvisioner_RemovesStaleFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "ns1", "ca_certs_dir"), "stale.pem", "old")
	cfg := testutil.MinimalConfig(dir)
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, testutil.NewFakeTool())

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, []string{"ca.crt", "ca.key"}, testutil.DirFiles(t, filepath.Join(dir, "ns1", "ca_certs_dir")))
}

func TestProvisioner_DirectoryIsCreatedBeforeTool(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testutil.MinimalConfig(dir)
	caDir := filepath.Join(dir, "ns1", "ca_certs_dir")

	tool := &testutil.MockTool{}
	tool.On("CreateCA", mock.Anything, caDir, filepath.Join(caDir, "ca.key")).
		Run(func(mock.Arguments) {
			info, err := os.Stat(caDir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}).
		Return(nil)

	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, tool)
	require.NoError(t, NewProvisioner().Provision(ctx))
	tool.AssertExpectations(t)
}

func TestProvisioner_ToolFailureStopsRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testutil.NewConfigBuilder().
		WithArtifactsDir(dir).
		WithCreate("ns1").
		WithCreate("ns2").
		Build()
	tool := testutil.NewFakeTool()
	tool.FailOn(certtool.OpCreateCA, "permission denied")
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, tool)

	err := NewProvisioner().Provision(ctx)

	require.Error(t, err)
	var toolErr *certtool.ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "permission denied", toolErr.Stderr)
	assert.Len(t, tool.Calls(), 1)
	assert.False(t, ctx.State.Clusters["ns1"].CAProvisioned)
	assert.NoDirExists(t, filepath.Join(dir, "ns2"))
}

func TestProvisioner_UnremovableDirectory(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	nsDir := filepath.Join(dir, "ns1")
	testutil.WriteFile(t, filepath.Join(nsDir, "ca_certs_dir"), "ca.crt", "old")
	require.NoError(t, os.Chmod(nsDir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(nsDir, 0o700) })

	tool := testutil.NewFakeTool()
	ctx := provisioning.NewContext(testutil.TestContext(t), testutil.MinimalConfig(dir), tool)

	err := NewProvisioner().Provision(ctx)

	var fsErr *fsutil.FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Empty(t, tool.Calls())
}
