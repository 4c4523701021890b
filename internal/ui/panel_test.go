package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/radlabs/radcontrol/internal/ports"
	"github.com/radlabs/radcontrol/internal/registry"
	"github.com/radlabs/radcontrol/internal/scratch"
)

type fakeRunner struct {
	mu          sync.Mutex
	calls       []string
	output      string
	err         error
	registry    string
	registryErr error
}

func (f *fakeRunner) Run(key string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	return f.output, f.err
}

func (f *fakeRunner) ListProjects() (string, error) {
	return f.registry, f.registryErr
}

type stubQuerier struct{}

func (stubQuerier) Query(port int) ports.Status {
	return ports.Status{Port: port, Listening: true}
}

func testProjects() []registry.Project {
	return []registry.Project{
		{Key: "dqotd", Label: "DQOTD", Port: 3000, Start: "dqotd.dev"},
		{Key: "tbis", Label: "TBIS", Port: 3001, URL: "http://localhost:3001",
			Start: "tbis.dev", Snapshot: "tbis.snapshot", Commit: "tbis.commit"},
	}
}

func newTestPanel(t *testing.T, runner *fakeRunner) *Model {
	t.Helper()

	monitor := ports.NewMonitor(stubQuerier{})
	monitor.SetBurstDelays([]time.Duration{time.Millisecond})
	projects := testProjects()
	monitor.SetTracked(ports.Tracked(projects))

	return NewPanel(PanelConfig{
		Projects: projects,
		Baseline: projects,
		Runner:   runner,
		Monitor:  monitor,
		Scratch:  scratch.NewStore(t.TempDir()),
	})
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewPanelDefaults(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
	if m.busy {
		t.Error("panel should not start busy")
	}
	if len(m.projects) != 2 {
		t.Errorf("projects = %d, want 2", len(m.projects))
	}
}

func TestActionKeySetsBusy(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{output: "server started"})

	_, cmd := m.Update(keyPress('s'))
	if cmd == nil {
		t.Fatal("expected a command for the start action")
	}
	if !m.busy {
		t.Error("busy flag should be set while the action is outstanding")
	}
	if m.busyKey != "dqotd.dev" {
		t.Errorf("busyKey = %q, want dqotd.dev", m.busyKey)
	}
}

func TestBusyIgnoresOtherActions(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	m.Update(keyPress('s'))
	if !m.busy {
		t.Fatal("expected busy after first action")
	}

	_, cmd := m.Update(keyPress('n'))
	if cmd != nil {
		t.Error("second action while busy should be a no-op")
	}
	if m.busyKey != "dqotd.dev" {
		t.Errorf("busyKey changed to %q while busy", m.busyKey)
	}
}

func TestActionWithoutKeyIsNoop(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	// dqotd defines no snapshot action.
	_, cmd := m.Update(keyPress('n'))
	if cmd != nil {
		t.Error("undefined action should not produce a command")
	}
	if m.busy {
		t.Error("undefined action must not set the busy flag")
	}
}

func TestActionDoneClearsBusyAndLogs(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})
	m.busy = true
	m.busyKey = "tbis.dev"

	m.Update(actionDoneMsg{key: "tbis.dev", output: "ready on :3001"})

	if m.busy {
		t.Error("busy flag should clear when the action completes")
	}
	logs := strings.Join(m.logs.GetAll(), "\n")
	if !strings.Contains(logs, "✓ tbis.dev") {
		t.Errorf("log missing completion marker: %q", logs)
	}
	if !strings.Contains(logs, "ready on :3001") {
		t.Errorf("log missing command output: %q", logs)
	}
}

func TestActionFailureLogsError(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	err := errors.New("command failed (exit 1):\nsnapshot: disk full at step 3\nretry aborted")
	m.Update(actionDoneMsg{key: "tbis.snapshot", err: err})

	logs := strings.Join(m.logs.GetAll(), "\n")
	if !strings.Contains(logs, "✗ tbis.snapshot") {
		t.Errorf("log missing failure marker: %q", logs)
	}
	if !strings.Contains(logs, "command failed (exit 1)") {
		t.Errorf("log missing exit status: %q", logs)
	}
	// The script's own output is the part worth reading on failure.
	if !strings.Contains(logs, "disk full at step 3") {
		t.Errorf("log lost the failing command's output: %q", logs)
	}
	if !strings.Contains(logs, "retry aborted") {
		t.Errorf("log truncated the failing command's output: %q", logs)
	}
}

func TestSnapshotCompletionReloadsRegistry(t *testing.T) {
	runner := &fakeRunner{
		registry: `[{"key":"atlas","label":"Atlas","port":4000}]`,
	}
	m := newTestPanel(t, runner)

	_, cmd := m.Update(actionDoneMsg{key: "tbis.snapshot"})
	if cmd == nil {
		t.Fatal("snapshot completion should schedule a registry reload")
	}

	msg := cmd()
	reload, ok := msg.(registryReloadedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want registryReloadedMsg", msg)
	}
	if reload.err != nil {
		t.Fatalf("reload error = %v", reload.err)
	}

	m.Update(reload)
	if len(m.projects) != 3 {
		t.Errorf("projects after reload = %d, want 3", len(m.projects))
	}

	tracked := m.monitor.Tracked()
	found := false
	for _, port := range tracked {
		if port == 4000 {
			found = true
		}
	}
	if !found {
		t.Errorf("tracked ports %v missing the new project's 4000", tracked)
	}
}

func TestStartCompletionDoesNotReloadRegistry(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	_, cmd := m.Update(actionDoneMsg{key: "tbis.dev"})
	if cmd != nil {
		t.Error("a dev start cannot add a project; no reload expected")
	}
}

func TestRegistryErrorIsLoggedNotFatal(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	m.Update(registryReloadedMsg{projects: testProjects(), err: errors.New("registry missing")})

	logs := strings.Join(m.logs.GetAll(), "\n")
	if !strings.Contains(logs, "registry") {
		t.Errorf("registry failure should be logged, got %q", logs)
	}
	if len(m.projects) != 2 {
		t.Errorf("fallback project list lost: %d projects", len(m.projects))
	}
}

func TestPortStatusMsgReplacesStatuses(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	statuses := map[int]ports.Status{
		3001: {Port: 3001, Listening: true, PID: 42, Command: "node"},
	}
	_, cmd := m.Update(portStatusMsg(statuses))

	if cmd == nil {
		t.Error("expected the update listener to re-arm")
	}
	if st := m.statuses[3001]; !st.Listening || st.PID != 42 {
		t.Errorf("statuses not replaced: %+v", m.statuses)
	}
	if _, ok := m.statuses[3000]; ok {
		t.Error("stale statuses should be replaced wholesale, not merged")
	}
}

func TestTabSwitchPersistsNote(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	m.note.SetValue("dqotd ideas")
	m.Update(keyPress('l'))

	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}
	if got := m.scratch.Get("scratch.dqotd"); got != "dqotd ideas" {
		t.Errorf("note not persisted on tab switch: %q", got)
	}
	if m.note.Value() != "" {
		t.Errorf("note for tbis should start empty, got %q", m.note.Value())
	}

	m.Update(keyPress('h'))
	if m.note.Value() != "dqotd ideas" {
		t.Errorf("note not restored on return: %q", m.note.Value())
	}
}

func TestNoteEditorCapturesKeys(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})

	m.Update(keyPress('e'))
	if !m.editingNote {
		t.Fatal("expected note editing mode")
	}

	// 's' must go to the textarea, not launch the start action.
	m.Update(keyPress('s'))
	if m.busy {
		t.Error("action key leaked through the note editor")
	}
	if !strings.Contains(m.note.Value(), "s") {
		t.Errorf("textarea did not receive the key, value %q", m.note.Value())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editingNote {
		t.Error("esc should leave note editing mode")
	}
	if got := m.scratch.Get("scratch.dqotd"); !strings.Contains(got, "s") {
		t.Errorf("esc should persist the note, got %q", got)
	}
}

func TestProjectURL(t *testing.T) {
	tests := []struct {
		name    string
		project registry.Project
		want    string
	}{
		{"explicit url wins", registry.Project{URL: "http://localhost:9/x", Port: 3000}, "http://localhost:9/x"},
		{"port fallback", registry.Project{Port: 3000}, "http://localhost:3000"},
		{"nothing", registry.Project{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projectURL(tt.project); got != tt.want {
				t.Errorf("projectURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTailLines(t *testing.T) {
	out := "one\n\ntwo\nthree\n"

	got := tailLines(out, 2)
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Errorf("tailLines() = %v", got)
	}

	if got := tailLines("", 5); len(got) != 0 {
		t.Errorf("tailLines(empty) = %v", got)
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestPanel(t, &fakeRunner{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	out := m.View()
	if !strings.Contains(out, "RadControl") {
		t.Error("view missing title")
	}
	if !strings.Contains(out, "DQOTD") {
		t.Error("view missing selected project label")
	}
}

func TestLogBufferBounded(t *testing.T) {
	lb := NewLogBuffer(3)
	for i := 0; i < 5; i++ {
		lb.Append("line")
	}
	if lb.Len() != 3 {
		t.Errorf("Len() = %d, want 3", lb.Len())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{500, "500 B"},
		{1024, "1.0 KB"},
		{1024 * 1024, "1.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
