package config

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/huh"
	"k8s.io/apimachinery/pkg/util/validation"
)

// WizardResult holds the answers collected by RunWizard.
type WizardResult struct {
	Namespace     string
	NodeAddrs     string
	ServiceName   string
	JoinCAFile    string
	JoinAddrs     string
	RenderSecrets bool
}

// RunWizard asks for the minimum needed to provision one cluster.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		ServiceName:   DefaultServiceName,
		RenderSecrets: true,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Description("Namespace of the cluster to create (DNS-1123 label)").
				Placeholder("us-central1-a").
				Value(&result.Namespace).
				Validate(validateNamespace),
			huh.NewInput().
				Title("Node addresses").
				Description("Externally reachable IPs or hostnames, comma separated").
				Placeholder("10.0.0.1, 10.0.0.2").
				Value(&result.NodeAddrs).
				Validate(validateAddrList),
			huh.NewInput().
				Title("Service name").
				Description("Internal service name of the database").
				Value(&result.ServiceName).
				Validate(validateNamespace),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Join CA bundle (optional)").
				Description("Path to the ca.crt of an existing cluster to join. Leave empty to skip.").
				Value(&result.JoinCAFile),
			huh.NewInput().
				Title("Join node addresses (optional)").
				Description("Addresses of the existing cluster's nodes, comma separated").
				Value(&result.JoinAddrs).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validateAddrList(s)
				}),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Render Kubernetes Secret manifests?").
				Description("Writes secrets.yaml next to the certificates").
				Value(&result.RenderSecrets),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard answers into a defaulted Config.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		ServiceName: r.ServiceName,
		Create: []ClusterSpec{{
			Namespace: strings.TrimSpace(r.Namespace),
			NodeAddrs: SplitList(r.NodeAddrs),
		}},
		Manifests: ManifestConfig{Secrets: r.RenderSecrets},
	}

	if ca := strings.TrimSpace(r.JoinCAFile); ca != "" {
		cfg.Join = []ClusterSpec{{
			CACertsFile: ca,
			NodeAddrs:   SplitList(r.JoinAddrs),
		}}
		cfg.BundleJoinCAs = true
	}

	cfg.ApplyDefaults()
	return cfg
}

// SplitList splits a comma or whitespace separated list, dropping empties.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func validateNamespace(s string) error {
	if s == "" {
		return fmt.Errorf("value is required")
	}
	if errs := validation.IsDNS1123Label(s); len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAddrList(s string) error {
	addrs := SplitList(s)
	if len(addrs) == 0 {
		return fmt.Errorf("at least one address is required")
	}
	for _, addr := range addrs {
		if net.ParseIP(addr) != nil {
			continue
		}
		if errs := validation.IsDNS1123Subdomain(addr); len(errs) > 0 {
			return fmt.Errorf("%q is neither an IP address nor a hostname", addr)
		}
	}
	return nil
}
