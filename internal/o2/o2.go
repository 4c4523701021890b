// Package o2 is the whitelisted command channel. Every external action the
// panel can take goes through a symbolic run key that resolves to one
// pre-approved script under the O2 workspace; free-form shell input never
// crosses this boundary.
package o2

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RootEnv overrides the O2 workspace location.
const RootEnv = "O2_ROOT"

// portStatusScript answers "is this port listening" probes.
const portStatusScript = "o2_port_status_verb.sh"

// verbScripts is the whitelist: the only scripts a run key can reach.
var verbScripts = map[string]string{
	"dev":        "o2_dev.sh",
	"dev_strict": "o2_dev_strict.sh",
	"snapshot":   "o2_snapshot.sh",
	"commit":     "o2_commit.sh",
	"map":        "o2_map.sh",
	"proofpack":  "o2_proofpack.sh",
	"truth_map":  "o2_truth_map.sh",
}

// Verbs returns the whitelisted verbs, sorted.
func Verbs() []string {
	out := make([]string, 0, len(verbScripts))
	for v := range verbScripts {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Scripts returns every script name the whitelist can reach, sorted,
// including the port-status probe.
func Scripts() []string {
	out := make([]string, 0, len(verbScripts)+1)
	for _, s := range verbScripts {
		out = append(out, s)
	}
	out = append(out, portStatusScript)
	sort.Strings(out)
	return out
}

// invocation is a parsed run key: either a project verb or a port probe.
type invocation struct {
	project string
	verb    string
	port    string
}

func isSafeToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

func isPortToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseKey validates a run key. The grammar is exactly one dot:
// "port_status.<port>" with an all-digit port, or "<project>.<verb>" with
// both tokens limited to [a-z0-9_-]. Anything else is rejected here, at the
// boundary, before a shell is anywhere in sight.
func parseKey(key string) (invocation, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return invocation{}, fmt.Errorf("invalid key %q: expected '<project>.<verb>' or 'port_status.<port>' (one dot)", key)
	}

	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])

	if left == "port_status" {
		if !isPortToken(right) {
			return invocation{}, fmt.Errorf("invalid port token %q", right)
		}
		return invocation{port: right}, nil
	}

	if !isSafeToken(left) {
		return invocation{}, fmt.Errorf("unsafe project token %q", left)
	}
	if !isSafeToken(right) {
		return invocation{}, fmt.Errorf("unsafe verb token %q", right)
	}
	return invocation{project: left, verb: right}, nil
}

// Runner invokes whitelisted scripts under the O2 workspace root.
type Runner struct {
	Root string
}

// NewRunner resolves the workspace root from $O2_ROOT, defaulting to
// ~/dev/o2.
func NewRunner() *Runner {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		root = filepath.Join(home, "dev", "o2")
	}
	return &Runner{Root: root}
}

// Run resolves a run key and executes the matching script, returning the
// combined output. Port probes route to the port-status script with the
// port as the only argument.
func (r *Runner) Run(key string) (string, error) {
	inv, err := parseKey(key)
	if err != nil {
		return "", err
	}

	if inv.port != "" {
		return r.script(portStatusScript, inv.port)
	}

	script, ok := verbScripts[inv.verb]
	if !ok {
		return "", fmt.Errorf("unknown verb %q (not wired in verb map)", inv.verb)
	}
	return r.script(script, inv.project)
}

// shellQuote single-quotes a string for bash. Inside single quotes nothing
// expands ($, backtick, backslash included); embedded single quotes are
// closed, escaped, and reopened.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// command builds the shell line for one script invocation.
func (r *Runner) command(name, arg string) string {
	return fmt.Sprintf("set -euo pipefail\ncd %s\nbash %s %s\n",
		shellQuote(r.Root), shellQuote("scripts/"+name), shellQuote(arg))
}

func (r *Runner) script(name, arg string) (string, error) {
	return runShell(r.command(name, arg))
}

// ListProjects returns the raw registry text from the workspace. A missing
// registry is an error; callers fall back to the compiled-in baseline.
func (r *Runner) ListProjects() (string, error) {
	path := filepath.Join(r.Root, "registry", "projects.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("registry missing at %s: %w", path, err)
	}
	return string(data), nil
}
