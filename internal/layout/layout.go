// Package layout derives the on-disk directory layout of a cluster's
// certificate material.
//
// Every cluster gets one directory under the artifacts root, named after its
// namespace:
//
//	<root>/<namespace>/
//	  ca_certs_dir/      ca.crt, ca.key
//	  client_certs_dir/  ca.crt, client.root.crt, client.root.key
//	  node_certs_dir/    ca.crt, client.root.crt, client.root.key, node.crt, node.key
package layout

import "path/filepath"

// Directory and file names of the layout.
const (
	CACertsDirName     = "ca_certs_dir"
	ClientCertsDirName = "client_certs_dir"
	NodeCertsDirName   = "node_certs_dir"

	CACertFile = "ca.crt"
	CAKeyFile  = "ca.key"
	NodeCert   = "node.crt"
	NodeKey    = "node.key"
)

// RootUser is the identity of the client certificate issued for every cluster.
const RootUser = "root"

// ClientCert returns the certificate file name for a client identity.
func ClientCert(user string) string { return "client." + user + ".crt" }

// ClientKey returns the key file name for a client identity.
func ClientKey(user string) string { return "client." + user + ".key" }

// Paths is the resolved layout of one cluster.
type Paths struct {
	Directory      string `json:"directory"`
	CACertsDir     string `json:"caCertsDir"`
	CACertsFile    string `json:"caCertsFile"`
	CAKey          string `json:"caKey"`
	ClientCertsDir string `json:"clientCertsDir"`
	NodeCertsDir   string `json:"nodeCertsDir"`
}

// Resolve computes the layout for namespace under root. It has no side
// effects.
func Resolve(root, namespace string) Paths {
	dir := filepath.Join(root, namespace)
	caDir := filepath.Join(dir, CACertsDirName)
	return Paths{
		Directory:      dir,
		CACertsDir:     caDir,
		CACertsFile:    filepath.Join(caDir, CACertFile),
		CAKey:          filepath.Join(caDir, CAKeyFile),
		ClientCertsDir: filepath.Join(dir, ClientCertsDirName),
		NodeCertsDir:   filepath.Join(dir, NodeCertsDirName),
	}
}

// Dirs returns the three certificate directories, CA first.
func (p Paths) Dirs() []string {
	return []string{p.CACertsDir, p.ClientCertsDir, p.NodeCertsDir}
}

// ExpectedFiles lists the files each certificate directory holds once a
// cluster is fully provisioned, keyed by directory.
func (p Paths) ExpectedFiles() map[string][]string {
	client := []string{CACertFile, ClientCert(RootUser), ClientKey(RootUser)}
	node := append(append([]string{}, client...), NodeCert, NodeKey)
	return map[string][]string{
		p.CACertsDir:     {CACertFile, CAKeyFile},
		p.ClientCertsDir: client,
		p.NodeCertsDir:   node,
	}
}
