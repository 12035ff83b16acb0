package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/imamik/crdbcerts/internal/certtool"
	"github.com/imamik/crdbcerts/internal/layout"
)

// ToolCall records one invocation of FakeTool.
type ToolCall struct {
	Op       certtool.Operation
	CertsDir string
	CAKey    string
	User     string
	Hosts    []string
}

// FakeTool implements certtool.Tool without cryptography. It writes
// placeholder PEM files where the real tool would, and refuses to sign
// when the CA certificate or key is missing, as the real tool does.
type FakeTool struct {
	mu     sync.Mutex
	calls  []ToolCall
	fail   map[certtool.Operation]string
	block  map[certtool.Operation]chan struct{}
	serial int
}

// NewFakeTool creates a FakeTool that succeeds on every operation.
func NewFakeTool() *FakeTool {
	return &FakeTool{
		fail:  make(map[certtool.Operation]string),
		block: make(map[certtool.Operation]chan struct{}),
	}
}

// BlockOn makes the next invocation of op wait until its context is done,
// then fail the way an interrupted tool process does. The returned channel
// is closed when that invocation starts.
func (f *FakeTool) BlockOn(op certtool.Operation) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	started := make(chan struct{})
	f.block[op] = started
	return started
}

// FailOn makes every invocation of op fail with stderr as tool output.
func (f *FakeTool) FailOn(op certtool.Operation, stderr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = stderr
}

// Calls returns a copy of the recorded invocations.
func (f *FakeTool) Calls() []ToolCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ToolCall(nil), f.calls...)
}

// Ops returns the recorded operations in order.
func (f *FakeTool) Ops() []certtool.Operation {
	calls := f.Calls()
	ops := make([]certtool.Operation, 0, len(calls))
	for _, c := range calls {
		ops = append(ops, c.Op)
	}
	return ops
}

// CreateCA implements certtool.Tool.
func (f *FakeTool) CreateCA(ctx context.Context, certsDir, caKey string) error {
	if err := f.record(ToolCall{Op: certtool.OpCreateCA, CertsDir: certsDir, CAKey: caKey}); err != nil {
		return err
	}
	if err := f.wait(ctx, certtool.OpCreateCA); err != nil {
		return err
	}
	n := f.next()
	if err := writePEM(filepath.Join(certsDir, layout.CACertFile), "CERTIFICATE", fmt.Sprintf("ca-%d", n)); err != nil {
		return f.toolError(certtool.OpCreateCA, err)
	}
	if err := writePEM(caKey, "RSA PRIVATE KEY", fmt.Sprintf("ca-key-%d", n)); err != nil {
		return f.toolError(certtool.OpCreateCA, err)
	}
	return nil
}

// CreateClient implements certtool.Tool.
func (f *FakeTool) CreateClient(ctx context.Context, certsDir, caKey, user string) error {
	if err := f.record(ToolCall{Op: certtool.OpCreateClient, CertsDir: certsDir, CAKey: caKey, User: user}); err != nil {
		return err
	}
	if err := f.wait(ctx, certtool.OpCreateClient); err != nil {
		return err
	}
	if err := requireCA(certsDir, caKey); err != nil {
		return f.toolError(certtool.OpCreateClient, err)
	}
	n := f.next()
	if err := writePEM(filepath.Join(certsDir, layout.ClientCert(user)), "CERTIFICATE", fmt.Sprintf("client-%s-%d", user, n)); err != nil {
		return f.toolError(certtool.OpCreateClient, err)
	}
	if err := writePEM(filepath.Join(certsDir, layout.ClientKey(user)), "RSA PRIVATE KEY", fmt.Sprintf("client-key-%d", n)); err != nil {
		return f.toolError(certtool.OpCreateClient, err)
	}
	return nil
}

// CreateNode implements certtool.Tool.
func (f *FakeTool) CreateNode(ctx context.Context, certsDir, caKey string, hosts []string) error {
	call := ToolCall{Op: certtool.OpCreateNode, CertsDir: certsDir, CAKey: caKey, Hosts: append([]string(nil), hosts...)}
	if err := f.record(call); err != nil {
		return err
	}
	if err := f.wait(ctx, certtool.OpCreateNode); err != nil {
		return err
	}
	if len(hosts) == 0 {
		return f.toolError(certtool.OpCreateNode, errors.New("no hosts given"))
	}
	if err := requireCA(certsDir, caKey); err != nil {
		return f.toolError(certtool.OpCreateNode, err)
	}
	n := f.next()
	if err := writePEM(filepath.Join(certsDir, layout.NodeCert), "CERTIFICATE", fmt.Sprintf("node-%d", n)); err != nil {
		return f.toolError(certtool.OpCreateNode, err)
	}
	if err := writePEM(filepath.Join(certsDir, layout.NodeKey), "RSA PRIVATE KEY", fmt.Sprintf("node-key-%d", n)); err != nil {
		return f.toolError(certtool.OpCreateNode, err)
	}
	return nil
}

func (f *FakeTool) record(call ToolCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if stderr, ok := f.fail[call.Op]; ok {
		return &certtool.ExternalToolError{Operation: call.Op, ExitCode: 1, Stderr: stderr}
	}
	return nil
}

func (f *FakeTool) wait(ctx context.Context, op certtool.Operation) error {
	f.mu.Lock()
	started, ok := f.block[op]
	delete(f.block, op)
	f.mu.Unlock()
	if !ok {
		return nil
	}
	close(started)
	<-ctx.Done()
	return &certtool.ExternalToolError{Operation: op, ExitCode: -1, Err: ctx.Err()}
}

func (f *FakeTool) next() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serial++
	return f.serial
}

func (f *FakeTool) toolError(op certtool.Operation, err error) error {
	return &certtool.ExternalToolError{Operation: op, ExitCode: 1, Stderr: err.Error()}
}

func requireCA(certsDir, caKey string) error {
	if _, err := os.Stat(filepath.Join(certsDir, layout.CACertFile)); err != nil {
		return fmt.Errorf("could not read CA certificate: %w", err)
	}
	if _, err := os.Stat(caKey); err != nil {
		return fmt.Errorf("could not read CA key: %w", err)
	}
	return nil
}

func writePEM(path, blockType, body string) error {
	content := fmt.Sprintf("-----BEGIN %s-----\n%s\n-----END %s-----\n", blockType, body, blockType)
	return os.WriteFile(path, []byte(content), 0o600)
}
