package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/imamik/crdbcerts/internal/config"
	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/layout"
	"github.com/imamik/crdbcerts/internal/util/prerequisites"
)

// ErrDoctorFailed is returned when at least one check fails.
var ErrDoctorFailed = errors.New("doctor found problems")

// checkTools runs the tool checks - can be replaced in tests.
var checkTools = prerequisites.CheckAll

// DoctorCheck is one line of the doctor report.
type DoctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// DoctorReport is the outcome of Doctor.
type DoctorReport struct {
	Config   string         `json:"config"`
	Checks   []DoctorCheck  `json:"checks"`
	Clusters []ClusterFiles `json:"clusters,omitempty"`
}

// ClusterFiles lists the certificate files missing from one cluster.
type ClusterFiles struct {
	Namespace string   `json:"namespace"`
	Missing   []string `json:"missing,omitempty"`
}

// OK reports whether every check passed.
func (r *DoctorReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Doctor checks the configuration, the installed tools and the artifacts
// already on disk.
func Doctor(opts Options, asJSON bool) error {
	report := diagnose(opts)

	if asJSON {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		fmt.Print(renderDoctor(report, isInteractiveTTY()))
	}

	if !report.OK() {
		return ErrDoctorFailed
	}
	return nil
}

func diagnose(opts Options) *DoctorReport {
	report := &DoctorReport{Config: describeConfig(opts)}

	// Join CA files get their own check below.
	cfg, err := loadConfigWith(opts, readConfigFile)
	if err != nil {
		report.Checks = append(report.Checks, DoctorCheck{Name: "config", Detail: err.Error()})
		// Without a configuration only the default tool can be checked.
		cfg = &config.Config{}
		cfg.ApplyDefaults()
		applyOverrides(cfg, opts)
	} else {
		report.Checks = append(report.Checks, DoctorCheck{Name: "config", OK: true})
		if err := cfg.CheckFiles(); err != nil {
			report.Checks = append(report.Checks, DoctorCheck{Name: "join CA files", Detail: err.Error()})
		} else if len(cfg.Join) > 0 {
			report.Checks = append(report.Checks, DoctorCheck{Name: "join CA files", OK: true})
		}
	}

	tools := checkTools(cfg.Tool.Binary)
	for _, r := range tools.Results {
		check := DoctorCheck{Name: r.Tool.Name, OK: r.Found || !r.Tool.Required}
		switch {
		case r.Found:
			check.Detail = r.Version
		case r.Tool.Required:
			check.Detail = "not found in PATH"
		default:
			check.Detail = "not found (optional)"
		}
		report.Checks = append(report.Checks, check)
	}

	lockPath := filepath.Join(cfg.ArtifactsDir, fsutil.LockFileName)
	if fileExists(lockPath) {
		report.Checks = append(report.Checks, DoctorCheck{
			Name:   "lock",
			Detail: fmt.Sprintf("%s exists; another run is active or a previous run crashed", lockPath),
		})
	}

	for _, cs := range cfg.Create {
		report.Clusters = append(report.Clusters, ClusterFiles{
			Namespace: cs.Namespace,
			Missing:   missingFiles(layout.Resolve(cfg.ArtifactsDir, cs.Namespace)),
		})
	}
	return report
}

func missingFiles(paths layout.Paths) []string {
	expected := paths.ExpectedFiles()
	var missing []string
	for _, dir := range paths.Dirs() {
		for _, f := range expected[dir] {
			p := filepath.Join(dir, f)
			if !fileExists(p) {
				missing = append(missing, p)
			}
		}
	}
	return missing
}

func renderDoctor(report *DoctorReport, styled bool) string {
	s := styler{styled: styled}
	var b strings.Builder

	b.WriteString(s.render(titleStyle, "crdbcerts doctor"))
	b.WriteString(s.render(dimStyle, " ("+report.Config+")"))
	b.WriteString("\n\n")

	for _, c := range report.Checks {
		mark := s.render(okStyle, "✓")
		if !c.OK {
			mark = s.render(failStyle, "✗")
		}
		fmt.Fprintf(&b, "  %s %s", mark, c.Name)
		if c.Detail != "" {
			b.WriteString(s.render(dimStyle, "  "+c.Detail))
		}
		b.WriteString("\n")
	}

	if len(report.Clusters) > 0 {
		b.WriteString("\n")
		b.WriteString(s.render(sectionStyle, "Artifacts"))
		b.WriteString("\n")
		for _, c := range report.Clusters {
			fmt.Fprintf(&b, "  %-20s %s\n", c.Namespace, s.mark(len(c.Missing) == 0))
			for _, m := range c.Missing {
				b.WriteString(s.render(dimStyle, "    "+m))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
