// Package ca provides the certificate authority phases.
//
// The "ca" phase recreates each created cluster's CA directory and asks the
// certificate tool for a fresh root CA. The optional "ca-bundle" phase then
// appends every other cluster's CA certificate to each created cluster's
// ca.crt so that nodes of separate clusters trust one another.
package ca
