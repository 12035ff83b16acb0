package certtool

import (
	"context"
	"fmt"
	"strings"
)

// Operation names an external tool operation.
type Operation string

const (
	OpCreateCA     Operation = "create-ca"
	OpCreateClient Operation = "create-client"
	OpCreateNode   Operation = "create-node"
)

// Tool is the contract of the external certificate authority tool.
type Tool interface {
	// CreateCA writes ca.crt into certsDir and the CA private key to caKey.
	CreateCA(ctx context.Context, certsDir, caKey string) error

	// CreateClient writes client.<user>.crt/.key into certsDir, signed by
	// the CA whose certificate is already in certsDir.
	CreateClient(ctx context.Context, certsDir, caKey, user string) error

	// CreateNode writes node.crt/.key into certsDir, valid for hosts.
	CreateNode(ctx context.Context, certsDir, caKey string, hosts []string) error
}

// ExternalToolError reports a failed tool invocation. Stderr holds the
// tool's diagnostics verbatim.
type ExternalToolError struct {
	Operation Operation
	Args      []string
	ExitCode  int
	Stderr    string
	Err       error
}

func (e *ExternalToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Operation)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " with exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimRight(e.Stderr, "\n"); stderr != "" {
		fmt.Fprintf(&b, "\n%s", stderr)
	}
	return b.String()
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// Recorder observes every tool invocation.
type Recorder interface {
	ObserveToolInvocation(op Operation, err error)
}
