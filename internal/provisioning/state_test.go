package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/layout"
)

func TestState_ClusterGetOrCreate(t *testing.T) {
	t.Parallel()
	s := NewState()

	a := s.Cluster("ns1", layout.Resolve("out", "ns1"))
	a.CAProvisioned = true
	b := s.Cluster("ns1", layout.Resolve("other", "ns1"))

	assert.Same(t, a, b)
	assert.Equal(t, "out/ns1", b.Paths.Directory)
}

func TestState_Ordered(t *testing.T) {
	t.Parallel()
	s := NewState()
	s.Cluster("b", layout.Resolve("out", "b"))
	s.Cluster("a", layout.Resolve("out", "a"))
	s.Cluster("b", layout.Resolve("out", "b"))

	ordered := s.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "b", ordered[0].Namespace)
	assert.Equal(t, "a", ordered[1].Namespace)
}

func TestNewContext(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{ArtifactsDir: "out"}

	ctx := NewContext(context.Background(), cfg, nil)

	require.NotNil(t, ctx.State)
	require.NotNil(t, ctx.Observer)
	assert.Equal(t, "out/ns1/ca_certs_dir", ctx.Paths("ns1").CACertsDir)

	cs := ctx.ClusterState(config.ClusterSpec{Namespace: "ns1"})
	assert.Equal(t, "ns1", cs.Namespace)
	assert.Equal(t, "out/ns1", cs.Paths.Directory)
}
