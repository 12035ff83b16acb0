package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/crdbcerts/internal/orchestration"
	"github.com/imamik/crdbcerts/internal/util/labels"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// styler renders with lipgloss on a terminal and as plain text otherwise.
type styler struct {
	styled bool
}

func (s styler) render(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return style.Render(text)
}

func (s styler) mark(ok bool) string {
	if ok {
		return s.render(okStyle, "ok")
	}
	return s.render(failStyle, "missing")
}

func rule(n int) string {
	return "  " + strings.Repeat("─", n)
}

// renderGenerateResult produces the summary of a successful run.
func renderGenerateResult(result *orchestration.Result, styled bool) string {
	s := styler{styled: styled}
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.render(titleStyle, fmt.Sprintf("  crdbcerts: %d cluster(s) provisioned", len(result.Clusters))))
	b.WriteString("\n")
	b.WriteString(s.render(dimStyle, rule(40)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Artifacts:  %s\n", result.ArtifactsDir)
	fmt.Fprintf(&b, "  Phases:     %s\n", strings.Join(result.Phases, " -> "))
	fmt.Fprintf(&b, "  Addresses:  %s\n", strings.Join(result.NodeAddrs, ", "))
	fmt.Fprintf(&b, "  Duration:   %v\n", result.Duration.Round(time.Millisecond))

	for _, cs := range result.Clusters {
		b.WriteString("\n")
		b.WriteString(s.render(sectionStyle, "  "+cs.Namespace))
		b.WriteString("\n")
		fmt.Fprintf(&b, "    CA:       %s\n", cs.Paths.CACertsDir)
		fmt.Fprintf(&b, "    Client:   %s\n", cs.Paths.ClientCertsDir)
		fmt.Fprintf(&b, "    Node:     %s\n", cs.Paths.NodeCertsDir)
		fmt.Fprintf(&b, "    SANs:     %d names\n", len(cs.SANs))
		if len(cs.BundledCAs) > 0 {
			fmt.Fprintf(&b, "    Bundled:  %s\n", strings.Join(cs.BundledCAs, ", "))
		}
		if cs.Manifest != "" {
			fmt.Fprintf(&b, "    Secrets:  %s\n", cs.Manifest)
			b.WriteString(s.render(dimStyle, fmt.Sprintf("              kubectl apply -f %s && kubectl get secrets -n %s -l %s",
				cs.Manifest, cs.Namespace, labels.SelectorForCluster(cs.Namespace))))
			b.WriteString("\n")
		}
		for _, key := range cs.Published {
			fmt.Fprintf(&b, "    Published: %s\n", key)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func printGenerateResult(result *orchestration.Result, styled bool) {
	fmt.Print(renderGenerateResult(result, styled))
}

// renderPlans lists the node certificate names of each cluster.
func renderPlans(plans []orchestration.Plan, styled bool) string {
	s := styler{styled: styled}
	var b strings.Builder
	for i, p := range plans {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.render(sectionStyle, p.Namespace))
		b.WriteString(s.render(dimStyle, " ("+p.Directory+")"))
		b.WriteString("\n")
		for _, san := range p.SANs {
			fmt.Fprintf(&b, "  %s\n", san)
		}
	}
	return b.String()
}
