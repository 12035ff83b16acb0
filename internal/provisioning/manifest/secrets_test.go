package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/layout"
	"github.com/imamik/crdbcerts/internal/provisioning"
	testutil "github.com/imamik/crdbcerts/internal/testing"
	"github.com/imamik/crdbcerts/internal/util/labels"
)

func writeCerts(t *testing.T, paths layout.Paths) {
	t.Helper()
	for _, f := range []string{"ca.crt", "client.root.crt", "client.root.key"} {
		testutil.WriteFile(t, paths.ClientCertsDir, f, "client:"+f)
		testutil.WriteFile(t, paths.NodeCertsDir, f, "client:"+f)
	}
	testutil.WriteFile(t, paths.NodeCertsDir, "node.crt", "node-cert")
	testutil.WriteFile(t, paths.NodeCertsDir, "node.key", "node-key")
}

func decode(t *testing.T, data []byte) []corev1.Secret {
	t.Helper()
	var out []corev1.Secret
	for _, doc := range strings.Split(string(data), "---\n") {
		var s corev1.Secret
		require.NoError(t, sigsyaml.Unmarshal([]byte(doc), &s))
		out = append(out, s)
	}
	return out
}

func TestBuildSecrets(t *testing.T) {
	t.Parallel()
	paths := layout.Resolve(t.TempDir(), "ns1")
	writeCerts(t, paths)

	secrets, err := BuildSecrets("cockroachdb", "ns1", paths)

	require.NoError(t, err)
	require.Len(t, secrets, 2)

	client := secrets[0]
	assert.Equal(t, "cockroachdb.client.root", client.Name)
	assert.Equal(t, "ns1", client.Namespace)
	assert.Equal(t, corev1.SecretTypeOpaque, client.Type)
	assert.Len(t, client.Data, 3)
	assert.Equal(t, []byte("client:client.root.key"), client.Data["client.root.key"])

	node := secrets[1]
	assert.Equal(t, "cockroachdb.node", node.Name)
	assert.Len(t, node.Data, 5)
	assert.Equal(t, []byte("node-key"), node.Data["node.key"])
}

func TestBuildSecrets_MissingDir(t *testing.T) {
	t.Parallel()
	paths := layout.Resolve(t.TempDir(), "ns1")

	_, err := BuildSecrets("cockroachdb", "ns1", paths)

	var fsErr *fsutil.FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, paths.ClientCertsDir, fsErr.Path)
}

func TestRender_RoundTrip(t *testing.T) {
	t.Parallel()
	paths := layout.Resolve(t.TempDir(), "ns1")
	writeCerts(t, paths)
	secrets, err := BuildSecrets("crdb", "ns1", paths)
	require.NoError(t, err)

	data, err := Render(secrets...)
	require.NoError(t, err)

	decoded := decode(t, data)
	require.Len(t, decoded, 2)
	assert.Equal(t, "v1", decoded[0].APIVersion)
	assert.Equal(t, "Secret", decoded[0].Kind)
	assert.Equal(t, "crdb.client.root", decoded[0].Name)
	assert.Equal(t, "crdb.node", decoded[1].Name)
	assert.Equal(t, "crdbcerts", decoded[1].Labels[labels.KeyManagedBy])
	assert.Equal(t, labels.ComponentClientCerts, decoded[0].Labels[labels.KeyComponent])
	assert.Equal(t, labels.ComponentNodeCerts, decoded[1].Labels[labels.KeyComponent])
	assert.Equal(t, "ns1", decoded[1].Labels[labels.KeyCluster])
	assert.Equal(t, []byte("node-cert"), decoded[1].Data["node.crt"])
}

func TestRenderer_Provision(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testutil.NewConfigBuilder().
		WithArtifactsDir(dir).
		WithCreate("ns1", "10.0.0.1").
		WithSecrets(true).
		Build()
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, testutil.NewFakeTool())
	writeCerts(t, ctx.Paths("ns1"))

	require.NoError(t, NewRenderer().Provision(ctx))

	path := filepath.Join(dir, "ns1", "secrets.yaml")
	assert.Equal(t, path, ctx.State.Clusters["ns1"].Manifest)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	decoded := decode(t, []byte(testutil.ReadFile(t, path)))
	require.Len(t, decoded, 2)
	assert.Equal(t, "cockroachdb.client.root", decoded[0].Name)
	assert.Equal(t, "ns1", decoded[1].Namespace)
}
