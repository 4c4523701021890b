// Package doctor checks that the environment the panel depends on is
// actually in place: the shell, the probe tools, the O2 workspace and
// its script whitelist, and the external registry.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/radlabs/radcontrol/internal/o2"
	"github.com/radlabs/radcontrol/internal/registry"
)

// Check is one health check result.
type Check struct {
	Name string
	OK   bool
	// Detail describes what was found (a path, a version, an error).
	Detail string
	// Hint says how to fix a failed check. Empty when OK.
	Hint string
}

// Diagnosis contains the full health check results for one workspace.
type Diagnosis struct {
	Root    string
	Checks  []Check
	Healthy bool
}

// Diagnose runs every check against the runner's workspace root.
func Diagnose(runner *o2.Runner) Diagnosis {
	d := Diagnosis{Root: runner.Root, Healthy: true}

	d.add(checkTool("bash", "required to run every whitelisted script"))
	d.add(checkTool("lsof", "required by the kill-port action"))
	d.add(checkRoot(runner.Root))
	d.add(checkScripts(runner.Root))
	d.add(checkRegistry(runner))

	return d
}

func (d *Diagnosis) add(c Check) {
	d.Checks = append(d.Checks, c)
	if !c.OK {
		d.Healthy = false
	}
}

func checkTool(name, why string) Check {
	path, err := exec.LookPath(name)
	if err != nil {
		return Check{
			Name: name,
			Hint: fmt.Sprintf("%s not found on PATH; %s", name, why),
		}
	}
	return Check{Name: name, OK: true, Detail: path}
}

func checkRoot(root string) Check {
	info, err := os.Stat(root)
	if err != nil {
		return Check{
			Name: "workspace",
			Hint: fmt.Sprintf("workspace root %s does not exist; set $%s or create it", root, o2.RootEnv),
		}
	}
	if !info.IsDir() {
		return Check{
			Name: "workspace",
			Hint: fmt.Sprintf("%s exists but is not a directory", root),
		}
	}
	return Check{Name: "workspace", OK: true, Detail: root}
}

// checkScripts verifies the whitelisted scripts are present. A missing
// script is not fatal for the panel as a whole, but the matching action
// will fail, so it is reported as unhealthy here.
func checkScripts(root string) Check {
	var missing []string
	for _, script := range o2.Scripts() {
		if _, err := os.Stat(filepath.Join(root, "scripts", script)); err != nil {
			missing = append(missing, script)
		}
	}
	if len(missing) > 0 {
		return Check{
			Name:   "scripts",
			Detail: fmt.Sprintf("%d missing", len(missing)),
			Hint:   "missing scripts: " + strings.Join(missing, ", "),
		}
	}
	return Check{Name: "scripts", OK: true, Detail: fmt.Sprintf("%d present", len(o2.Scripts()))}
}

func checkRegistry(runner *o2.Runner) Check {
	raw, err := runner.ListProjects()
	if err != nil {
		return Check{
			Name: "registry",
			Hint: fmt.Sprintf("%v (the panel will fall back to the baseline)", err),
		}
	}
	merged, err := registry.Reconcile(nil, raw)
	if err != nil {
		return Check{
			Name:   "registry",
			Detail: "unreadable",
			Hint:   err.Error(),
		}
	}
	return Check{Name: "registry", OK: true, Detail: fmt.Sprintf("%d project(s)", len(merged))}
}
