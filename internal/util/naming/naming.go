package naming

import "fmt"

// Fixed names every node certificate carries.
const (
	Localhost     = "localhost"
	LoopbackIPv4  = "127.0.0.1"
	ClusterDomain = "svc.cluster.local"
)

// NodeSANs returns the subject alternative names for a node certificate of
// the cluster in namespace, in this order:
//
//	localhost, <addrs...>, 127.0.0.1,
//	<svc>-public, <svc>-public.default, <svc>-public.<ns>,
//	<svc>-public.<ns>.svc.cluster.local, *.<svc>, *.<svc>.<ns>,
//	<svc>.<ns>, *.<svc>.<ns>.svc.cluster.local
//
// addrs are deduplicated keeping their first occurrence. The order is stable
// so repeated runs produce identical tool invocations.
func NodeSANs(service, namespace string, addrs []string) []string {
	names := make([]string, 0, len(addrs)+11)
	names = append(names, Localhost)
	names = append(names, Dedupe(addrs)...)
	names = append(names, LoopbackIPv4)
	names = append(names, ServiceNames(service, namespace)...)
	return names
}

// ServiceNames returns the service-derived names of NodeSANs.
func ServiceNames(service, namespace string) []string {
	public := PublicService(service)
	return []string{
		public,
		fmt.Sprintf("%s.default", public),
		fmt.Sprintf("%s.%s", public, namespace),
		fmt.Sprintf("%s.%s.%s", public, namespace, ClusterDomain),
		fmt.Sprintf("*.%s", service),
		fmt.Sprintf("*.%s.%s", service, namespace),
		fmt.Sprintf("%s.%s", service, namespace),
		fmt.Sprintf("*.%s.%s.%s", service, namespace, ClusterDomain),
	}
}

// PublicService is the name of the client-facing service.
func PublicService(service string) string {
	return fmt.Sprintf("%s-public", service)
}

// ClientSecret is the name of the Secret holding the root client certificate.
func ClientSecret(prefix, user string) string {
	return fmt.Sprintf("%s.client.%s", prefix, user)
}

// NodeSecret is the name of the Secret holding the node certificate.
func NodeSecret(prefix string) string {
	return fmt.Sprintf("%s.node", prefix)
}

// CAObjectKey is the object storage key a cluster's CA certificate is
// published under.
func CAObjectKey(prefix, namespace, file string) string {
	if prefix == "" {
		return fmt.Sprintf("%s/%s", namespace, file)
	}
	return fmt.Sprintf("%s/%s/%s", prefix, namespace, file)
}

// Dedupe returns values without empties or repeats, keeping first
// occurrences in order.
func Dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
