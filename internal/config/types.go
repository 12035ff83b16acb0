package config

import "time"

// Default values applied by LoadFile and ApplyDefaults.
const (
	DefaultArtifactsDir = "generated"
	DefaultServiceName  = "cockroachdb"
	DefaultToolBinary   = "cockroach"
	DefaultToolTimeout  = 2 * time.Minute
	DefaultSecretPrefix = "cockroachdb"
	DefaultConfigFile   = "crdbcerts.yaml"
)

// Config is the desired state of one provisioning run.
type Config struct {
	// ArtifactsDir is the root under which one directory per namespace is laid out.
	ArtifactsDir string `yaml:"artifacts_dir,omitempty"`

	// ServiceName is the internal service name of the database in the
	// orchestration layer. It seeds the service-derived SAN entries.
	ServiceName string `yaml:"service_name,omitempty" validate:"required,dns_label"`

	Tool ToolConfig `yaml:"tool,omitempty"`

	// Create lists the clusters that get a new CA and new certificates.
	Create []ClusterSpec `yaml:"create" validate:"dive"`

	// Join lists clusters whose certificates already exist elsewhere.
	Join []ClusterSpec `yaml:"join,omitempty" validate:"dive"`

	// BundleJoinCAs appends the CA certificates of every other cluster in the
	// run to each created cluster's ca.crt so nodes trust their peers.
	BundleJoinCAs bool `yaml:"bundle_join_cas,omitempty"`

	Manifests ManifestConfig `yaml:"manifests,omitempty"`

	Publish *PublishConfig `yaml:"publish,omitempty"`
}

// ClusterSpec describes one logical cluster.
type ClusterSpec struct {
	// Namespace is used both as a directory name and as a DNS suffix.
	// Join clusters may leave it empty.
	Namespace string `yaml:"namespace,omitempty"`

	// NodeAddrs are the externally reachable IPs or hostnames of the nodes.
	NodeAddrs []string `yaml:"node_addrs,omitempty" validate:"dive,required,ip|hostname_rfc1123"`

	// CACertsFile points at an existing CA bundle. Join clusters only.
	CACertsFile string `yaml:"ca_certs_file,omitempty"`
}

// ToolConfig configures the external certificate tool.
type ToolConfig struct {
	Binary    string        `yaml:"binary,omitempty" validate:"required"`
	ExtraArgs []string      `yaml:"extra_args,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

// ManifestConfig controls rendering of Kubernetes Secret manifests.
type ManifestConfig struct {
	Secrets      bool   `yaml:"secrets,omitempty"`
	SecretPrefix string `yaml:"secret_prefix,omitempty"`
}

// PublishConfig describes the S3-compatible bucket CA certificates are
// published to. Credentials come from the environment.
type PublishConfig struct {
	Endpoint string `yaml:"endpoint" validate:"required,url"`
	Region   string `yaml:"region" validate:"required"`
	Bucket   string `yaml:"bucket" validate:"required"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.ArtifactsDir == "" {
		c.ArtifactsDir = DefaultArtifactsDir
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.Tool.Binary == "" {
		c.Tool.Binary = DefaultToolBinary
	}
	if c.Tool.Timeout == 0 {
		c.Tool.Timeout = DefaultToolTimeout
	}
	if c.Manifests.SecretPrefix == "" {
		c.Manifests.SecretPrefix = DefaultSecretPrefix
	}
}

// AllNodeAddrs returns the union of node addresses across create and join
// clusters in first-seen order. Empty entries are dropped.
func (c *Config) AllNodeAddrs() []string {
	seen := make(map[string]bool)
	var addrs []string
	for _, group := range [][]ClusterSpec{c.Create, c.Join} {
		for _, cs := range group {
			for _, addr := range cs.NodeAddrs {
				if addr == "" || seen[addr] {
					continue
				}
				seen[addr] = true
				addrs = append(addrs, addr)
			}
		}
	}
	return addrs
}

// Namespaces returns the namespaces of the create clusters in order.
func (c *Config) Namespaces() []string {
	names := make([]string, 0, len(c.Create))
	for _, cs := range c.Create {
		names = append(names, cs.Namespace)
	}
	return names
}

// Cluster returns the create cluster with the given namespace.
func (c *Config) Cluster(namespace string) (ClusterSpec, bool) {
	for _, cs := range c.Create {
		if cs.Namespace == namespace {
			return cs, true
		}
	}
	return ClusterSpec{}, false
}
