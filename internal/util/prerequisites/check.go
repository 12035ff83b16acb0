// Package prerequisites checks that the client tools a provisioning run
// shells out to are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH, or a path to it.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// CertTool returns the certificate authority tool definition for binary.
func CertTool(binary string) Tool {
	return Tool{
		Name:        binary,
		Required:    true,
		Description: "Creates the CA, client and node certificates",
		InstallURL:  "https://www.cockroachlabs.com/docs/stable/install-cockroachdb",
	}
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "kubectl",
			Required:    false,
			Description: "Applies the rendered Secret manifests",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available. Versions are only
// probed when withVersion is set since that runs each tool.
func Check(tools []Tool, withVersion bool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			if withVersion {
				result.Version = getToolVersion(path)
			}
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckCertTool checks only the certificate tool.
func CheckCertTool(binary string) *CheckResults {
	return Check([]Tool{CertTool(binary)}, false)
}

// CheckAll checks the certificate tool and the optional tools, with versions.
func CheckAll(binary string) *CheckResults {
	optional := OptionalTools()
	all := make([]Tool, 0, 1+len(optional))
	all = append(all, CertTool(binary))
	all = append(all, optional...)
	return Check(all, true)
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(path string) string {
	versionFlags := []string{"version", "--version", "-v"}

	for _, flag := range versionFlags {
		// #nosec G204 - path comes from LookPath on a configured tool name
		cmd := exec.Command(path, flag)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
