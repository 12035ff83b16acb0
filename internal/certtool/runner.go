package certtool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/go-logr/logr"
)

// Runner invokes the cockroach binary's "cert" subcommands.
type Runner struct {
	Binary    string
	ExtraArgs []string
	Timeout   time.Duration
	Recorder  Recorder
	Log       logr.Logger
}

var _ Tool = (*Runner)(nil)

// NewRunner returns a Runner for binary. A zero timeout disables the
// per-invocation deadline.
func NewRunner(binary string, extraArgs []string, timeout time.Duration) *Runner {
	return &Runner{
		Binary:    binary,
		ExtraArgs: extraArgs,
		Timeout:   timeout,
		Log:       logr.Discard(),
	}
}

// CreateCA implements Tool.
func (r *Runner) CreateCA(ctx context.Context, certsDir, caKey string) error {
	return r.run(ctx, OpCreateCA, r.args(OpCreateCA, nil, certsDir, caKey, nil))
}

// CreateClient implements Tool.
func (r *Runner) CreateClient(ctx context.Context, certsDir, caKey, user string) error {
	return r.run(ctx, OpCreateClient, r.args(OpCreateClient, []string{user}, certsDir, caKey, nil))
}

// CreateNode implements Tool.
func (r *Runner) CreateNode(ctx context.Context, certsDir, caKey string, hosts []string) error {
	return r.run(ctx, OpCreateNode, r.args(OpCreateNode, nil, certsDir, caKey, hosts))
}

// args builds: cert <op> [positional...] --certs-dir D --ca-key K [extra...] [hosts...]
func (r *Runner) args(op Operation, positional []string, certsDir, caKey string, hosts []string) []string {
	args := make([]string, 0, 6+len(positional)+len(r.ExtraArgs)+len(hosts))
	args = append(args, "cert", string(op))
	args = append(args, positional...)
	args = append(args, "--certs-dir", certsDir, "--ca-key", caKey)
	args = append(args, r.ExtraArgs...)
	args = append(args, hosts...)
	return args
}

func (r *Runner) run(ctx context.Context, op Operation, args []string) (err error) {
	if r.Recorder != nil {
		defer func() { r.Recorder.ObserveToolInvocation(op, err) }()
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	log := r.Log.WithValues("operation", op)
	log.V(1).Info("invoking certificate tool", "binary", r.Binary, "args", args)

	// #nosec G204 - binary and arguments come from validated configuration, no shell is involved
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of the tool may hold the output pipes open after it is killed.
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	log.V(1).Info("certificate tool finished", "duration", time.Since(start).Round(time.Millisecond))

	if runErr == nil {
		return nil
	}

	toolErr := &ExternalToolError{
		Operation: op,
		Args:      args,
		ExitCode:  -1,
		Stderr:    stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		toolErr.Err = ctx.Err()
	case errors.As(runErr, &exitErr):
		toolErr.ExitCode = exitErr.ExitCode()
	default:
		toolErr.Err = runErr
	}
	return toolErr
}
