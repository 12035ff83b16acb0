// Package handlers implements the business logic for CLI commands.
//
// This package contains the actual implementation of each CLI command,
// separated from the command definitions in the commands package. Handlers
// load configuration, wire the certificate tool, the orchestrator and the
// metrics recorder, and render results for the terminal.
//
// Collaborators are created through package-level factory variables so tests
// can replace them.
package handlers
