// Package deps resolves the external binaries autosub shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names a binary and why autosub needs it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after lookup. Command holds the resolved path when
// Available is true.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check resolves one requirement on PATH.
func Check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// CheckBinaries resolves each requirement, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = Check(req)
	}
	return results
}
