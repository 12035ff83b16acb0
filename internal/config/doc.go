// Package config defines the configuration model for a certificate
// provisioning run.
//
// A [Config] lists the clusters to create (which receive a fresh CA, a root
// client certificate and a node certificate) and the clusters to join (which
// only contribute node addresses and an existing CA bundle). It is loaded from
// YAML by [LoadFile] or assembled from command-line flags, and is immutable
// once validated.
package config
