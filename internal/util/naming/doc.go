// Package naming builds the names a cluster's certificates and manifests
// must carry.
//
// Node certificates list every hostname and IP a client may use to reach a
// node: the loopback names, every node address across the whole run, and the
// in-cluster service names derived from the database's service and the
// namespace being issued for.
package naming
