// Package manifest renders the certificate directories of each created
// cluster as Kubernetes Secret manifests. Applying them is left to the
// operator of the cluster.
package manifest
