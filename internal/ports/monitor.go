package ports

import (
	"sort"
	"sync"
	"time"

	"github.com/radlabs/radcontrol/internal/registry"
)

// SelfPort is the panel's own dev port, always tracked alongside the fleet.
const SelfPort = 1420

// DefaultBurstDelays spaces the follow-up sweeps of a Burst. A freshly
// spawned dev server takes a variable, usually-short time to start
// listening, so a single immediate poll would often report a false negative.
var DefaultBurstDelays = []time.Duration{900 * time.Millisecond, 2500 * time.Millisecond}

// refreshState is the monitor's sweep gate: at most one sweep in flight,
// at most one follow-up queued.
type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
	stateRefreshQueued
)

// Monitor owns the latest-known status map for the tracked port set.
// Request coalesces: any number of refresh requests arriving while a sweep
// is outstanding collapse into a single follow-up sweep. In-flight sweeps
// always run to completion; there is no cancellation.
type Monitor struct {
	querier     Querier
	burstDelays []time.Duration

	mu       sync.Mutex
	state    refreshState
	tracked  []int
	statuses map[int]Status
	onSweep  func(map[int]Status)
}

// NewMonitor creates a monitor with no tracked ports.
func NewMonitor(querier Querier) *Monitor {
	return &Monitor{
		querier:     querier,
		burstDelays: DefaultBurstDelays,
		statuses:    make(map[int]Status),
	}
}

// SetBurstDelays overrides the follow-up sweep schedule. Timings are a
// tuning parameter; the contract is at least len(delays)+1 sweeps spread
// over a few seconds.
func (m *Monitor) SetBurstDelays(delays []time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(delays) > 0 {
		m.burstDelays = delays
	}
}

// SetOnSweep registers a callback fired once per completed sweep with the
// aggregated status map.
func (m *Monitor) SetOnSweep(fn func(map[int]Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSweep = fn
}

// SetTracked replaces the tracked port set. Statuses for dropped ports
// disappear on the next sweep because aggregation replaces the whole map.
func (m *Monitor) SetTracked(ports []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = append([]int(nil), ports...)
}

// Tracked returns a copy of the tracked port set.
func (m *Monitor) Tracked() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.tracked...)
}

// Statuses returns a copy of the latest-known status map.
func (m *Monitor) Statuses() map[int]Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]Status, len(m.statuses))
	for port, st := range m.statuses {
		out[port] = st
	}
	return out
}

// Request asks for a refresh sweep. Idle starts one immediately; while a
// sweep is outstanding the request only sets the queued flag, and exactly
// one follow-up sweep runs when the current one completes.
func (m *Monitor) Request() {
	m.mu.Lock()
	if m.state != stateIdle {
		m.state = stateRefreshQueued
		m.mu.Unlock()
		return
	}
	m.state = stateRefreshing
	ports := append([]int(nil), m.tracked...)
	m.mu.Unlock()

	go m.sweep(ports)
}

func (m *Monitor) sweep(ports []int) {
	statuses := Sweep(m.querier, ports)

	m.mu.Lock()
	m.statuses = statuses
	queued := m.state == stateRefreshQueued
	m.state = stateIdle
	onSweep := m.onSweep
	notify := make(map[int]Status, len(statuses))
	for port, st := range statuses {
		notify[port] = st
	}
	m.mu.Unlock()

	if onSweep != nil {
		onSweep(notify)
	}
	if queued {
		m.Request()
	}
}

// Burst sweeps now and schedules follow-up sweeps, for actions whose
// observable effect (a server starting to listen) lags the action itself.
func (m *Monitor) Burst() {
	m.mu.Lock()
	delays := append([]time.Duration(nil), m.burstDelays...)
	m.mu.Unlock()

	m.Request()
	for _, d := range delays {
		time.AfterFunc(d, m.Request)
	}
}

// Tracked derives the port set for a project list: every project port plus
// the panel's own port, deduplicated and sorted.
func Tracked(projects []registry.Project) []int {
	seen := map[int]bool{SelfPort: true}
	out := []int{SelfPort}
	for _, p := range projects {
		if p.Port > 0 && !seen[p.Port] {
			seen[p.Port] = true
			out = append(out, p.Port)
		}
	}
	sort.Ints(out)
	return out
}
