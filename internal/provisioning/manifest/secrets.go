package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/layout"
	"github.com/imamik/crdbcerts/internal/provisioning"
	"github.com/imamik/crdbcerts/internal/util/labels"
	"github.com/imamik/crdbcerts/internal/util/naming"
)

const phase = "manifests"

// FileName is the manifest written into each cluster directory.
const FileName = "secrets.yaml"

// Renderer writes one secrets.yaml per created cluster.
type Renderer struct{}

// NewRenderer creates a new manifest renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Name implements the provisioning.Phase interface.
func (r *Renderer) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (r *Renderer) Provision(ctx *provisioning.Context) error {
	prefix := ctx.Config.Manifests.SecretPrefix
	for _, cs := range ctx.Config.Create {
		state := ctx.ClusterState(cs)
		paths := state.Paths

		secrets, err := BuildSecrets(prefix, cs.Namespace, paths)
		if err != nil {
			return err
		}
		data, err := Render(secrets...)
		if err != nil {
			return fmt.Errorf("failed to render secrets for %s: %w", cs.Namespace, err)
		}

		path := filepath.Join(paths.Directory, FileName)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return &fsutil.FilesystemError{Op: "write", Path: path, Err: err}
		}
		state.Manifest = path
		provisioning.LogResourceCreated(ctx.Observer, phase, "secret manifest", path)
	}
	return nil
}

// BuildSecrets returns the client and node Secrets of one cluster, with one
// data key per file of the respective directory.
func BuildSecrets(prefix, namespace string, paths layout.Paths) ([]*corev1.Secret, error) {
	clientLabels := labels.NewBuilder(prefix, namespace).WithComponent(labels.ComponentClientCerts).Build()
	client, err := secretFromDir(naming.ClientSecret(prefix, layout.RootUser), namespace, paths.ClientCertsDir, clientLabels)
	if err != nil {
		return nil, err
	}
	nodeLabels := labels.NewBuilder(prefix, namespace).WithComponent(labels.ComponentNodeCerts).Build()
	node, err := secretFromDir(naming.NodeSecret(prefix), namespace, paths.NodeCertsDir, nodeLabels)
	if err != nil {
		return nil, err
	}
	return []*corev1.Secret{client, node}, nil
}

func secretFromDir(name, namespace, dir string, objLabels map[string]string) (*corev1.Secret, error) {
	files, err := fsutil.ListFiles(dir)
	if err != nil {
		return nil, &fsutil.FilesystemError{Op: "read", Path: dir, Err: err}
	}

	data := make(map[string][]byte, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f)
		// #nosec G304
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &fsutil.FilesystemError{Op: "read", Path: path, Err: err}
		}
		data[f] = content
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    objLabels,
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}, nil
}

// Render serializes secrets as a multi-document YAML stream.
func Render(secrets ...*corev1.Secret) ([]byte, error) {
	var buf bytes.Buffer
	for i, s := range secrets {
		if i > 0 {
			buf.WriteString("---\n")
		}
		out, err := sigsyaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal secret %s: %w", s.Name, err)
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}
