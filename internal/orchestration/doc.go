// Package orchestration provides high-level workflow coordination for a
// certificate provisioning run.
//
// The Orchestrator validates the configuration, takes an exclusive lock on
// the artifacts root and runs the provisioning phases in order:
//
//	ca -> [ca-bundle] -> certs -> [manifests] -> [publish]
//
// Every cluster in the create list gets its CA before any certificate is
// issued, and node certificates of every created cluster are valid for the
// node addresses of all clusters, created and joined. The first failure
// aborts the run. Artifacts written up to that point are left in place.
package orchestration
