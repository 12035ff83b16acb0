// Package provisioning provides the shared types and the sequential pipeline
// for a certificate provisioning run.
//
// # Subpackages
//
//   - ca/: CA creation and CA bundling of joined clusters
//   - issue/: root client and node certificate issuance
//   - manifest/: Kubernetes Secret manifests for the issued material
//   - publish/: publishing CA certificates to object storage
//
// # Core Types
//
// Context carries configuration, state, the certificate tool and the observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates per-cluster results (paths, SANs, manifests, objects).
package provisioning
