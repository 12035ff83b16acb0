package testing

import (
	"github.com/imamik/crdbcerts/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with defaults applied and no
// clusters.
func NewConfigBuilder() *ConfigBuilder {
	cfg := config.Config{}
	cfg.ApplyDefaults()
	return &ConfigBuilder{cfg: cfg}
}

// WithArtifactsDir sets the artifacts root.
func (b *ConfigBuilder) WithArtifactsDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ArtifactsDir = dir
	return newBuilder
}

// WithServiceName sets the service name.
func (b *ConfigBuilder) WithServiceName(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ServiceName = name
	return newBuilder
}

// WithCreate adds a cluster that gets a fresh CA.
func (b *ConfigBuilder) WithCreate(namespace string, addrs ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Create = append(newBuilder.cfg.Create, config.ClusterSpec{
		Namespace: namespace,
		NodeAddrs: cloneStringSlice(addrs),
	})
	return newBuilder
}

// WithJoin adds a cluster whose CA bundle already exists at caFile.
func (b *ConfigBuilder) WithJoin(namespace, caFile string, addrs ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Join = append(newBuilder.cfg.Join, config.ClusterSpec{
		Namespace:   namespace,
		NodeAddrs:   cloneStringSlice(addrs),
		CACertsFile: caFile,
	})
	return newBuilder
}

// WithBundleJoinCAs toggles CA bundling.
func (b *ConfigBuilder) WithBundleJoinCAs(enabled bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.BundleJoinCAs = enabled
	return newBuilder
}

// WithSecrets toggles Secret manifest rendering.
func (b *ConfigBuilder) WithSecrets(enabled bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Manifests.Secrets = enabled
	return newBuilder
}

// WithPublish sets the publish target.
func (b *ConfigBuilder) WithPublish(endpoint, bucket, prefix string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Publish = &config.PublishConfig{
		Endpoint: endpoint,
		Region:   "us-east-1",
		Bucket:   bucket,
		Prefix:   prefix,
	}
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	return b.clone().cfgPtr()
}

func (b *ConfigBuilder) cfgPtr() *config.Config {
	cfg := b.cfg
	return &cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	newCfg := b.cfg
	newCfg.Create = cloneClusters(b.cfg.Create)
	newCfg.Join = cloneClusters(b.cfg.Join)
	newCfg.Tool.ExtraArgs = cloneStringSlice(b.cfg.Tool.ExtraArgs)
	if b.cfg.Publish != nil {
		p := *b.cfg.Publish
		newCfg.Publish = &p
	}
	return &ConfigBuilder{cfg: newCfg}
}

func cloneClusters(in []config.ClusterSpec) []config.ClusterSpec {
	if in == nil {
		return nil
	}
	out := make([]config.ClusterSpec, len(in))
	for i, cs := range in {
		out[i] = cs
		out[i].NodeAddrs = cloneStringSlice(cs.NodeAddrs)
	}
	return out
}

// cloneStringSlice creates a copy of a string slice.
func cloneStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}

// MinimalConfig returns a minimal valid config with one create cluster
// rooted at dir.
func MinimalConfig(dir string) *config.Config {
	return NewConfigBuilder().
		WithArtifactsDir(dir).
		WithCreate("ns1", "10.0.0.1").
		Build()
}
