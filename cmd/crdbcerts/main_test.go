package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/crdbcerts/internal/fsutil"
)

// runMainEnv makes the test binary behave as crdbcerts itself.
const runMainEnv = "CRDBCERTS_TEST_RUN_MAIN"

func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func crdbcerts(t *testing.T, dir string, args ...string) *exec.Cmd {
	t.Helper()
	self, err := os.Executable()
	require.NoError(t, err)

	// #nosec G204
	cmd := exec.Command(self, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), runMainEnv+"=1")
	return cmd
}

// writeTool creates a stand-in for the certificate tool that writes the files
// the real one would. While the block file exists it touches the started file
// and sleeps instead.
func writeTool(t *testing.T, dir, block, started string) string {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
[ "$1" = cert ] || { echo "cockroach test build"; exit 0; }
if [ -f %[1]q ]; then
	touch %[2]q
	exec sleep 30
fi
op="$2"
shift 2
user=""
while [ $# -gt 0 ]; do
	case "$1" in
	--certs-dir) dir="$2"; shift 2 ;;
	--ca-key) key="$2"; shift 2 ;;
	*) [ -z "$user" ] && user="$1"; shift ;;
	esac
done
case "$op" in
create-ca) echo ca > "$dir/ca.crt"; echo key > "$key" ;;
create-client) echo client > "$dir/client.$user.crt"; echo key > "$dir/client.$user.key" ;;
create-node) echo node > "$dir/node.crt"; echo key > "$dir/node.key" ;;
esac
`, block, started)

	path := filepath.Join(dir, "cockroach")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700)) // #nosec G306
	return path
}

func TestGenerate_RerunAfterInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell and SIGINT")
	}
	dir := t.TempDir()
	block := filepath.Join(dir, "block")
	started := filepath.Join(dir, "started")
	require.NoError(t, os.WriteFile(block, nil, 0o600))
	tool := writeTool(t, dir, block, started)
	artifacts := filepath.Join(dir, "generated")

	args := []string{"generate", "-n", "ns1", "--node-address", "10.0.0.1", "--tool", tool, "--artifacts-dir", artifacts}

	first := crdbcerts(t, dir, args...)
	var out bytes.Buffer
	first.Stdout = &out
	first.Stderr = &out
	require.NoError(t, first.Start())

	require.Eventually(t, func() bool {
		_, err := os.Stat(started)
		return err == nil
	}, 10*time.Second, 20*time.Millisecond, "tool was never invoked")
	require.NoError(t, first.Process.Signal(os.Interrupt))

	done := make(chan error, 1)
	go func() { done <- first.Wait() }()
	select {
	case err := <-done:
		require.Error(t, err, out.String())
	case <-time.After(15 * time.Second):
		_ = first.Process.Kill()
		t.Fatalf("generate did not stop after SIGINT:\n%s", out.String())
	}
	assert.NoFileExists(t, filepath.Join(artifacts, fsutil.LockFileName))

	require.NoError(t, os.Remove(block))
	output, err := crdbcerts(t, dir, args...).CombinedOutput()
	require.NoError(t, err, string(output))

	assert.FileExists(t, filepath.Join(artifacts, "ns1", "node_certs_dir", "node.crt"))
	assert.FileExists(t, filepath.Join(artifacts, "ns1", "node_certs_dir", "client.root.key"))
	assert.NoFileExists(t, filepath.Join(artifacts, fsutil.LockFileName))
}
