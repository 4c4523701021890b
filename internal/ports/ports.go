// Package ports maintains best-effort liveness state for the TCP ports of
// the project fleet. Sweeps query every tracked port concurrently; the
// Monitor serializes sweeps and coalesces redundant refresh requests.
package ports

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Status is one point-in-time observation of a port. Err records a probe
// failure, which must stay distinguishable from "nothing is listening".
type Status struct {
	Port      int
	Listening bool
	PID       int
	Command   string
	Err       string
}

// Querier answers a point query for one port. Implementations never return
// an error: a failed probe becomes a Status with Err set, so one bad port
// cannot abort the rest of a sweep.
type Querier interface {
	Query(port int) Status
}

// Sweep queries all ports concurrently and aggregates the results into a
// fresh map keyed by port. Results are never applied incrementally; callers
// swap in the whole map at once.
func Sweep(q Querier, ports []int) map[int]Status {
	results := make([]Status, len(ports))

	var wg sync.WaitGroup
	for i, port := range ports {
		wg.Add(1)
		go func(i, port int) {
			defer wg.Done()
			results[i] = q.Query(port)
		}(i, port)
	}
	wg.Wait()

	statuses := make(map[int]Status, len(results))
	for _, st := range results {
		statuses[st.Port] = st
	}
	return statuses
}

// CommandFunc invokes a whitelisted run key and returns its output.
type CommandFunc func(key string) (string, error)

// ShellQuerier probes ports through the command channel's
// "port_status.<port>" key, which wraps `ss -ltnp` on the host.
type ShellQuerier struct {
	Run CommandFunc
}

func (q ShellQuerier) Query(port int) Status {
	out, err := q.Run(fmt.Sprintf("port_status.%d", port))
	if err != nil {
		return Status{Port: port, Err: err.Error()}
	}

	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return Status{Port: port}
	}
	if strings.Contains(trimmed, "not found") || strings.Contains(trimmed, "ERROR:") {
		return Status{Port: port, Err: trimmed}
	}

	st := Status{Port: port, Listening: hasListenLine(trimmed)}
	st.PID, st.Command = parseSSProcess(trimmed)
	return st
}

func hasListenLine(out string) bool {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "LISTEN") {
			return true
		}
	}
	return false
}

// parseSSProcess extracts the PID and process name from ss process info,
// e.g. users:(("node",pid=12345,fd=20)).
func parseSSProcess(out string) (int, string) {
	pid := 0
	if _, rest, ok := strings.Cut(out, "pid="); ok {
		digits := rest
		for i, c := range rest {
			if c < '0' || c > '9' {
				digits = rest[:i]
				break
			}
		}
		pid, _ = strconv.Atoi(digits)
	}

	command := ""
	if parts := strings.Split(out, `"`); len(parts) >= 2 {
		command = strings.TrimSpace(parts[1])
	}
	return pid, command
}

// LocalQuerier probes the local TCP table directly, for hosts where the
// command channel (and its ss wrapper) is unavailable.
type LocalQuerier struct{}

func (LocalQuerier) Query(port int) Status {
	conns, err := gnet.Connections("tcp")
	if err != nil {
		return Status{Port: port, Err: err.Error()}
	}

	for _, conn := range conns {
		if conn.Status != "LISTEN" || int(conn.Laddr.Port) != port {
			continue
		}
		st := Status{Port: port, Listening: true, PID: int(conn.Pid)}
		if conn.Pid > 0 {
			if proc, err := process.NewProcess(conn.Pid); err == nil {
				if name, err := proc.Name(); err == nil {
					st.Command = name
				}
			}
		}
		return st
	}
	return Status{Port: port}
}
