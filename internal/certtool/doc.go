// Package certtool drives the external certificate authority tool.
//
// The tool is treated as an opaque command with three operations, create-ca,
// create-client and create-node, each taking a certificates directory and the
// CA key path. [Runner] invokes the cockroach binary's "cert" subcommands;
// tests substitute their own [Tool].
package certtool
