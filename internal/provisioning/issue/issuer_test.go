package issue

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/crdbcerts/internal/certtool"
	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/provisioning"
	"github.com/imamik/crdbcerts/internal/provisioning/ca"
	testutil "github.com/imamik/crdbcerts/internal/testing"
)

func provisionedContext(t *testing.T, cfg *config.Config, tool *testutil.FakeTool) *provisioning.Context {
	t.Helper()
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, tool)
	ctx.State.NodeAddrs = cfg.AllNodeAddrs()
	require.NoError(t, ca.NewProvisioner().Provision(ctx))
	return ctx
}

func TestIssuer_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "certs", NewIssuer().Name())
}

func TestIssuer_SingleCluster(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testutil.NewConfigBuilder().
		WithArtifactsDir(dir).
		WithCreate("ns1", "10.0.0.1").
		Build()
	tool := testutil.NewFakeTool()
	ctx := provisionedContext(t, cfg, tool)

	require.NoError(t, NewIssuer().Provision(ctx))

	assert.Equal(t, []certtool.Operation{
		certtool.OpCreateCA, certtool.OpCreateClient, certtool.OpCreateNode,
	}, tool.Ops())

	calls := tool.Calls()
	assert.Equal(t, "root", calls[1].User)
	assert.Equal(t, filepath.Join(dir, "ns1", "client_certs_dir"), calls[1].CertsDir)
	assert.Equal(t, filepath.Join(dir, "ns1", "ca_certs_dir", "ca.key"), calls[1].CAKey)
	assert.Equal(t, filepath.Join(dir, "ns1", "node_certs_dir"), calls[2].CertsDir)
	assert.Equal(t, []string{
		"localhost",
		"10.0.0.1",
		"127.0.0.1",
		"cockroachdb-public",
		"cockroachdb-public.default",
		"cockroachdb-public.ns1",
		"cockroachdb-public.ns1.svc.cluster.local",
		"*.cockroachdb",
		"*.cockroachdb.ns1",
		"cockroachdb.ns1",
		"*.cockroachdb.ns1.svc.cluster.local",
	}, calls[2].Hosts)

	assert.Equal(t, []string{"ca.crt", "client.root.crt", "client.root.key"},
		testutil.DirFiles(t, filepath.Join(dir, "ns1", "client_certs_dir")))
	assert.Equal(t, []string{"ca.crt", "client.root.crt", "client.root.key", "node.crt", "node.key"},
		testutil.DirFiles(t, filepath.Join(dir, "ns1", "node_certs_dir")))
	assert.Equal(t, calls[2].Hosts, ctx.State.Clusters["ns1"].SANs)
}

func TestIssuer_CopiesMatchCA(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := provisionedContext(t, testutil.MinimalConfig(dir), testutil.NewFakeTool())

	require.NoError(t, NewIssuer().Provision(ctx))

	caPEM := testutil.ReadFile(t, filepath.Join(dir, "ns1", "ca_certs_dir", "ca.crt"))
	assert.Equal(t, caPEM, testutil.ReadFile(t, filepath.Join(dir, "ns1", "client_certs_dir", "ca.crt")))
	assert.Equal(t, caPEM, testutil.ReadFile(t, filepath.Join(dir, "ns1", "node_certs_dir", "ca.crt")))
	assert.Equal(t,
		testutil.ReadFile(t, filepath.Join(dir, "ns1", "client_certs_dir", "client.root.key")),
		testutil.ReadFile(t, filepath.Join(dir, "ns1", "node_certs_dir", "client.root.key")))
}

func TestIssuer_AggregatesAddressesAcrossClusters(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	joinCA := testutil.WriteFile(t, t.TempDir(), "ca.crt", "REMOTE\n")
	cfg := testutil.NewConfigBuilder().
		WithArtifactsDir(dir).
		WithCreate("ns1", "10.0.0.1", "10.0.0.2").
		WithCreate("ns2", "10.0.1.1").
		WithJoin("", joinCA, "192.168.0.5", "10.0.0.1").
		Build()
	tool := testutil.NewFakeTool()
	ctx := provisionedContext(t, cfg, tool)

	require.NoError(t, NewIssuer().Provision(ctx))

	var nodeCalls []testutil.ToolCall
	for _, c := range tool.Calls() {
		if c.Op == certtool.OpCreateNode {
			nodeCalls = append(nodeCalls, c)
		}
	}
	require.Len(t, nodeCalls, 2)

	want := []string{"localhost", "10.0.0.1", "10.0.0.2", "10.0.1.1", "192.168.0.5", "127.0.0.1"}
	assert.Equal(t, want, nodeCalls[0].Hosts[:6])
	assert.Equal(t, want, nodeCalls[1].Hosts[:6])
	assert.Contains(t, nodeCalls[0].Hosts, "cockroachdb.ns1")
	assert.Contains(t, nodeCalls[1].Hosts, "cockroachdb.ns2")
	assert.NotContains(t, nodeCalls[1].Hosts, "cockroachdb.ns1")
}

func TestIssuer_CustomServiceName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testutil.NewConfigBuilder().
		WithArtifactsDir(dir).
		WithServiceName("crdb").
		WithCreate("ns1", "10.0.0.1").
		Build()
	ctx := provisionedContext(t, cfg, testutil.NewFakeTool())

	require.NoError(t, NewIssuer().Provision(ctx))

	assert.Contains(t, ctx.State.Clusters["ns1"].SANs, "crdb-public.ns1.svc.cluster.local")
	assert.Contains(t, ctx.State.Clusters["ns1"].SANs, "*.crdb.ns1")
}

func TestIssuer_MissingCA(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := testutil.NewFakeTool()
	ctx := provisioning.NewContext(testutil.TestContext(t), testutil.MinimalConfig(dir), tool)

	err := NewIssuer().Provision(ctx)

	var copyErr *fsutil.CopyError
	require.True(t, errors.As(err, &copyErr))
	assert.Empty(t, tool.Calls())
}

func TestIssuer_NodeFailureLeavesClientCerts(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := testutil.NewFakeTool()
	ctx := provisionedContext(t, testutil.MinimalConfig(dir), tool)
	tool.FailOn(certtool.OpCreateNode, "bad host")

	err := NewIssuer().Provision(ctx)

	var toolErr *certtool.ExternalToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, certtool.OpCreateNode, toolErr.Operation)
	assert.Contains(t, err.Error(), "bad host")
	assert.FileExists(t, filepath.Join(dir, "ns1", "client_certs_dir", "client.root.crt"))
	assert.NoFileExists(t, filepath.Join(dir, "ns1", "node_certs_dir", "node.crt"))
	assert.Empty(t, ctx.State.Clusters["ns1"].SANs)
}

func TestIssuer_RerunReplacesStaleFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := provisionedContext(t, testutil.MinimalConfig(dir), testutil.NewFakeTool())
	testutil.WriteFile(t, filepath.Join(dir, "ns1", "node_certs_dir"), "stale.crt", "old")

	require.NoError(t, NewIssuer().Provision(ctx))

	assert.NoFileExists(t, filepath.Join(dir, "ns1", "node_certs_dir", "stale.crt"))
}
