// Package issue provides the certificate issuance phase.
//
// For every created cluster it lays out the client and node directories,
// issues the root client certificate and a node certificate whose subject
// alternative names cover every node address in the run plus the names the
// database service is reachable under inside the orchestration layer.
package issue
