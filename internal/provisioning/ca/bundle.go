package ca

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/provisioning"
)

const (
	bundlePhase = "ca-bundle"

	snapshotPrefix = ".ca-snapshot-"
)

// Bundler appends the CA certificates of every other cluster in the run to
// each created cluster's ca.crt.
type Bundler struct{}

// NewBundler creates a new CA bundler.
func NewBundler() *Bundler {
	return &Bundler{}
}

// Name implements the provisioning.Phase interface.
func (b *Bundler) Name() string {
	return bundlePhase
}

type caSource struct {
	namespace string
	path      string
}

// Provision implements the provisioning.Phase interface.
//
// The original certificates are snapshotted before anything is appended, so
// a bundle never contains another cluster's bundle.
func (b *Bundler) Provision(ctx *provisioning.Context) error {
	var sources []caSource
	for _, cs := range ctx.Config.Create {
		sources = append(sources, caSource{namespace: cs.Namespace, path: ctx.Paths(cs.Namespace).CACertsFile})
	}
	for _, cs := range ctx.Config.Join {
		sources = append(sources, caSource{namespace: cs.Namespace, path: cs.CACertsFile})
	}

	if err := removeSnapshots(ctx.Config.ArtifactsDir); err != nil {
		return err
	}

	snapshotDir, err := os.MkdirTemp(ctx.Config.ArtifactsDir, snapshotPrefix)
	if err != nil {
		return &fsutil.FilesystemError{Op: "mkdir", Path: ctx.Config.ArtifactsDir, Err: err}
	}
	defer os.RemoveAll(snapshotDir)

	originals := make([]string, len(sources))
	for i, src := range sources {
		dir := filepath.Join(snapshotDir, strconv.Itoa(i))
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
		if err := fsutil.CopyFile(src.path, dir); err != nil {
			return fmt.Errorf("failed to snapshot CA certificate of %s: %w", label(src), err)
		}
		originals[i] = filepath.Join(dir, filepath.Base(src.path))
	}

	for i, cs := range ctx.Config.Create {
		var others []string
		var names []string
		for j, src := range sources {
			if j == i {
				continue
			}
			others = append(others, originals[j])
			names = append(names, label(src))
		}
		if len(others) == 0 {
			continue
		}

		state := ctx.ClusterState(cs)
		if err := fsutil.AppendFiles(state.Paths.CACertsFile, others...); err != nil {
			return fmt.Errorf("failed to bundle CA certificates into %s: %w", cs.Namespace, err)
		}
		state.BundledCAs = names
		ctx.Observer.Printf("[%s] Bundled %d CA certificate(s) into %s", bundlePhase, len(others), state.Paths.CACertsFile)
	}
	return nil
}

// removeSnapshots deletes snapshot directories a killed run left behind.
// Only one run holds the artifacts root, so none of them are in use.
func removeSnapshots(root string) error {
	leftovers, err := filepath.Glob(filepath.Join(root, snapshotPrefix+"*"))
	if err != nil {
		return err
	}
	for _, dir := range leftovers {
		if _, err := fsutil.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}

func label(src caSource) string {
	if src.namespace != "" {
		return src.namespace
	}
	return src.path
}
