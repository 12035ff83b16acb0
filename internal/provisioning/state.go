package provisioning

import "github.com/imamik/crdbcerts/internal/layout"

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// NodeAddrs is the union of node addresses across create and join clusters.
	NodeAddrs []string

	// Clusters holds per-cluster results keyed by namespace.
	Clusters map[string]*ClusterState

	order []string
}

// ClusterState is what the run produced for one created cluster.
type ClusterState struct {
	Namespace string       `json:"namespace"`
	Paths     layout.Paths `json:"paths"`

	CAProvisioned bool     `json:"caProvisioned"`
	BundledCAs    []string `json:"bundledCAs,omitempty"`
	SANs          []string `json:"sans,omitempty"`
	Manifest      string   `json:"manifest,omitempty"`
	Published     []string `json:"published,omitempty"`
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		Clusters: make(map[string]*ClusterState),
	}
}

// Cluster returns the state for namespace, creating it on first use.
func (s *State) Cluster(namespace string, paths layout.Paths) *ClusterState {
	if cs, ok := s.Clusters[namespace]; ok {
		return cs
	}
	cs := &ClusterState{Namespace: namespace, Paths: paths}
	s.Clusters[namespace] = cs
	s.order = append(s.order, namespace)
	return cs
}

// Ordered returns cluster states in the order they were first touched.
func (s *State) Ordered() []*ClusterState {
	out := make([]*ClusterState, 0, len(s.order))
	for _, ns := range s.order {
		out = append(out, s.Clusters[ns])
	}
	return out
}
