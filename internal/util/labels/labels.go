package labels

// Label keys.
const (
	KeyName      = "app.kubernetes.io/name"
	KeyComponent = "app.kubernetes.io/component"
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyCluster holds the namespace of the cluster the object belongs to.
	KeyCluster = "crdbcerts.io/cluster"
)

// ManagedBy is the value of KeyManagedBy on everything crdbcerts renders.
const ManagedBy = "crdbcerts"

// Component values.
const (
	ComponentClientCerts = "client-certs"
	ComponentNodeCerts   = "node-certs"
)

// Builder accumulates labels for one object.
type Builder struct {
	labels map[string]string
}

// NewBuilder starts the labels of an object of app in cluster.
func NewBuilder(app, cluster string) *Builder {
	return &Builder{
		labels: map[string]string{
			KeyName:      app,
			KeyCluster:   cluster,
			KeyManagedBy: ManagedBy,
		},
	}
}

// WithComponent sets the component label.
func (b *Builder) WithComponent(component string) *Builder {
	b.labels[KeyComponent] = component
	return b
}

// Merge adds all labels from extra, overriding existing keys.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		b.labels[k] = v
	}
	return b
}

// Build returns a copy of the labels.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		result[k] = v
	}
	return result
}

// SelectorForCluster returns a label selector matching every object of
// cluster.
func SelectorForCluster(cluster string) string {
	return KeyManagedBy + "=" + ManagedBy + "," + KeyCluster + "=" + cluster
}
