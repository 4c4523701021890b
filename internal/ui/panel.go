package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/radlabs/radcontrol/internal/ports"
	"github.com/radlabs/radcontrol/internal/registry"
	"github.com/radlabs/radcontrol/internal/scratch"
)

// CommandRunner is the whitelisted command channel as the panel sees it.
type CommandRunner interface {
	Run(key string) (string, error)
	ListProjects() (string, error)
}

// refreshEvery is how many ticks pass between background refresh sweeps.
const refreshEvery = 5

// maxActionOutputLines bounds how much of a command's output lands in the
// log area.
const maxActionOutputLines = 12

// PanelConfig wires the panel's collaborators.
type PanelConfig struct {
	Projects   []registry.Project
	Baseline   []registry.Project
	Runner     CommandRunner
	Monitor    *ports.Monitor
	Scratch    *scratch.Store
	OpenURL    func(url string) error
	InitialLog []string
}

// Messages for bubbletea
type tickMsg time.Time
type resourceUpdateMsg ResourceStats
type portStatusMsg map[int]ports.Status
type actionDoneMsg struct {
	key    string
	output string
	err    error
}
type registryReloadedMsg struct {
	projects []registry.Project
	err      error
}
type killDoneMsg struct {
	port int
	err  error
}

// keyMap defines the key bindings for the panel.
type keyMap struct {
	PrevTab   key.Binding
	NextTab   key.Binding
	Up        key.Binding
	Down      key.Binding
	Refresh   key.Binding
	Burst     key.Binding
	Start     key.Binding
	Snapshot  key.Binding
	Commit    key.Binding
	MapAction key.Binding
	ProofPack key.Binding
	Kill      key.Binding
	OpenURL   key.Binding
	CopyURL   key.Binding
	Note      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevTab: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev project"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next project"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll log"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll log"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh ports"),
		),
		Burst: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "burst refresh"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start dev server"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "snapshot"),
		),
		Commit: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "commit"),
		),
		MapAction: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "map"),
		),
		ProofPack: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "proof pack"),
		),
		Kill: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "kill port"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy URL"),
		),
		Note: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit note"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the bubbletea model for the control panel.
type Model struct {
	projects []registry.Project
	baseline []registry.Project
	runner   CommandRunner
	monitor  *ports.Monitor
	scratch  *scratch.Store
	openURL  func(url string) error

	statuses map[int]ports.Status
	selected int

	// Action serialization: while one whitelisted command is outstanding,
	// every other action control is disabled.
	busy    bool
	busyKey string

	logs        *LogBuffer
	logView     viewport.Model
	note        textarea.Model
	editingNote bool

	resources ResourceStats
	width     int
	height    int
	showHelp  bool
	quitting  bool
	ticks     int

	// Channel for updates pushed from outside the event loop (sweeps).
	updateChan chan tea.Msg

	keys   keyMap
	styles *Styles
}

// NewPanel creates the panel model and hooks the monitor's sweep results
// into the bubbletea event loop.
func NewPanel(cfg PanelConfig) *Model {
	logView := viewport.New(80, 12)
	logView.MouseWheelEnabled = true

	note := textarea.New()
	note.Placeholder = "notes for this project..."
	note.SetHeight(3)
	note.CharLimit = 0

	m := &Model{
		projects:   cfg.Projects,
		baseline:   cfg.Baseline,
		runner:     cfg.Runner,
		monitor:    cfg.Monitor,
		scratch:    cfg.Scratch,
		openURL:    cfg.OpenURL,
		statuses:   make(map[int]ports.Status),
		logs:       NewLogBuffer(500),
		logView:    logView,
		note:       note,
		updateChan: make(chan tea.Msg, 100),
		keys:       defaultKeyMap(),
		styles:     DefaultStyles(),
	}

	if m.monitor != nil {
		m.statuses = m.monitor.Statuses()
		m.monitor.SetOnSweep(func(statuses map[int]ports.Status) {
			select {
			case m.updateChan <- portStatusMsg(statuses):
			default:
				// Channel full, drop; the next sweep replaces it anyway.
			}
		})
	}

	for _, line := range cfg.InitialLog {
		m.logs.Append(line)
	}
	m.loadNote()
	m.refreshLogView()

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.listenForUpdates(),
		m.fetchResourceStats(),
		m.startupBurst(),
	)
}

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenForUpdates pumps externally pushed messages into the event loop.
func (m *Model) listenForUpdates() tea.Cmd {
	return func() tea.Msg {
		return <-m.updateChan
	}
}

func (m *Model) startupBurst() tea.Cmd {
	return func() tea.Msg {
		m.monitor.Burst()
		return nil
	}
}

func (m *Model) fetchResourceStats() tea.Cmd {
	return func() tea.Msg {
		return resourceUpdateMsg(GetResourceStats())
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// ctrl+c quits from anywhere, including the note editor.
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.saveNote()
			return m, tea.Quit
		}

		if m.editingNote {
			return m.updateNoteEditor(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.saveNote()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp

		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(m.selected - 1)

		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(m.selected + 1)

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			cmds = append(cmds, cmd)

		case key.Matches(msg, m.keys.Refresh):
			m.monitor.Request()
			m.logf("refreshing port status")

		case key.Matches(msg, m.keys.Burst):
			m.monitor.Burst()
			m.logf("burst refresh scheduled")

		case key.Matches(msg, m.keys.Note):
			m.editingNote = true
			cmds = append(cmds, m.note.Focus())

		case key.Matches(msg, m.keys.OpenURL):
			m.handleOpenURL()

		case key.Matches(msg, m.keys.CopyURL):
			m.handleCopyURL()

		case key.Matches(msg, m.keys.Kill):
			cmds = append(cmds, m.startKill())

		case key.Matches(msg, m.keys.Start):
			cmds = append(cmds, m.startAction(m.selectedAction(func(p registry.Project) string { return p.Start })))

		case key.Matches(msg, m.keys.Snapshot):
			cmds = append(cmds, m.startAction(m.selectedAction(func(p registry.Project) string { return p.Snapshot })))

		case key.Matches(msg, m.keys.Commit):
			cmds = append(cmds, m.startAction(m.selectedAction(func(p registry.Project) string { return p.Commit })))

		case key.Matches(msg, m.keys.MapAction):
			cmds = append(cmds, m.startAction(m.selectedAction(func(p registry.Project) string { return p.Map })))

		case key.Matches(msg, m.keys.ProofPack):
			cmds = append(cmds, m.startAction(m.selectedAction(func(p registry.Project) string { return p.ProofPack })))
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tickMsg:
		m.ticks++
		cmds = append(cmds, tickCmd(), m.fetchResourceStats())
		if m.ticks%refreshEvery == 0 {
			m.monitor.Request()
		}

	case resourceUpdateMsg:
		m.resources = ResourceStats(msg)

	case portStatusMsg:
		m.statuses = map[int]ports.Status(msg)
		cmds = append(cmds, m.listenForUpdates())

	case actionDoneMsg:
		cmds = append(cmds, m.finishAction(msg)...)

	case killDoneMsg:
		if msg.err != nil {
			m.logf("kill port %d failed: %v", msg.port, msg.err)
		} else {
			m.logf("killed listeners on port %d", msg.port)
		}
		m.monitor.Burst()

	case registryReloadedMsg:
		if msg.err != nil {
			m.logf("registry: %v", msg.err)
		}
		m.projects = msg.projects
		m.monitor.SetTracked(ports.Tracked(m.projects))
		if m.selected >= len(m.projects) {
			m.selected = 0
		}
		m.loadNote()
	}

	return m, tea.Batch(cmds...)
}

// updateNoteEditor routes keys to the textarea while the note is focused.
func (m *Model) updateNoteEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.editingNote = false
		m.note.Blur()
		m.saveNote()
		return m, nil
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

// selectedAction resolves an action key on the selected project; empty means
// the project doesn't define the action.
func (m *Model) selectedAction(pick func(registry.Project) string) string {
	p, ok := m.selectedProject()
	if !ok {
		return ""
	}
	return pick(p)
}

// startAction launches one whitelisted command asynchronously. The busy flag
// serializes the channel: while a command is outstanding every action key is
// a no-op.
func (m *Model) startAction(runKey string) tea.Cmd {
	if runKey == "" || m.busy {
		return nil
	}

	m.busy = true
	m.busyKey = runKey
	m.logf("▶ %s", runKey)

	runner := m.runner
	return func() tea.Msg {
		out, err := runner.Run(runKey)
		return actionDoneMsg{key: runKey, output: out, err: err}
	}
}

// finishAction logs the result, bursts the monitor (a spawned server takes a
// moment to start listening), and reloads the registry after actions that
// can add a project.
func (m *Model) finishAction(msg actionDoneMsg) []tea.Cmd {
	m.busy = false
	m.busyKey = ""

	if msg.err != nil {
		errText := msg.err.Error()
		m.logf("✗ %s: %v", msg.key, firstLine(errText))
		// The diagnostic output rides inside the error text, after the
		// exit-status line. Losing it would leave the operator blind.
		if _, rest, ok := strings.Cut(errText, "\n"); ok {
			for _, line := range tailLines(rest, maxActionOutputLines) {
				m.logs.Append("  " + line)
			}
		}
		m.refreshLogView()
	} else {
		m.logf("✓ %s", msg.key)
		for _, line := range tailLines(msg.output, maxActionOutputLines) {
			m.logs.Append("  " + line)
		}
		m.refreshLogView()
	}

	m.monitor.Burst()

	if m.mayAddProject(msg.key) {
		return []tea.Cmd{m.reloadRegistry()}
	}
	return nil
}

// mayAddProject reports whether a finished action key is a snapshot or
// commit action of any known project.
func (m *Model) mayAddProject(runKey string) bool {
	for _, p := range m.projects {
		if runKey != "" && (runKey == p.Snapshot || runKey == p.Commit) {
			return true
		}
	}
	return false
}

func (m *Model) reloadRegistry() tea.Cmd {
	baseline := m.baseline
	runner := m.runner
	return func() tea.Msg {
		projects, err := registry.Load(baseline, runner)
		return registryReloadedMsg{projects: projects, err: err}
	}
}

func (m *Model) startKill() tea.Cmd {
	if m.busy {
		return nil
	}
	p, ok := m.selectedProject()
	if !ok || p.Port <= 0 {
		return nil
	}

	port := p.Port
	m.logf("killing listeners on port %d", port)
	return func() tea.Msg {
		return killDoneMsg{port: port, err: ports.Kill(port)}
	}
}

func (m *Model) handleOpenURL() {
	p, ok := m.selectedProject()
	if !ok {
		return
	}
	url := projectURL(p)
	if url == "" {
		return
	}
	if m.openURL == nil {
		m.logf("no browser opener configured, URL: %s", url)
		return
	}
	if err := m.openURL(url); err != nil {
		m.logf("open %s failed: %v", url, err)
	}
}

// handleCopyURL copies the project URL; when the clipboard is unavailable
// the URL lands in the log so the operator can copy it by hand.
func (m *Model) handleCopyURL() {
	p, ok := m.selectedProject()
	if !ok {
		return
	}
	url := projectURL(p)
	if url == "" {
		return
	}
	if err := clipboard.WriteAll(url); err != nil {
		m.logf("clipboard unavailable, URL: %s", url)
		return
	}
	m.logf("copied %s", url)
}

func projectURL(p registry.Project) string {
	if p.URL != "" {
		return p.URL
	}
	if p.Port > 0 {
		return fmt.Sprintf("http://localhost:%d", p.Port)
	}
	return ""
}

func (m *Model) switchTab(index int) {
	if len(m.projects) == 0 {
		return
	}
	m.saveNote()
	m.selected = (index + len(m.projects)) % len(m.projects)
	m.loadNote()
}

func (m *Model) selectedProject() (registry.Project, bool) {
	if m.selected < 0 || m.selected >= len(m.projects) {
		return registry.Project{}, false
	}
	return m.projects[m.selected], true
}

func (m *Model) noteKey() (string, bool) {
	p, ok := m.selectedProject()
	if !ok {
		return "", false
	}
	return "scratch." + p.Key, true
}

func (m *Model) loadNote() {
	if m.scratch == nil {
		return
	}
	if key, ok := m.noteKey(); ok {
		m.note.SetValue(m.scratch.Get(key))
	}
}

func (m *Model) saveNote() {
	if m.scratch == nil {
		return
	}
	if key, ok := m.noteKey(); ok {
		m.scratch.Set(key, m.note.Value())
	}
}

// logf appends a formatted line to the log area.
func (m *Model) logf(format string, args ...any) {
	m.logs.Append(fmt.Sprintf(format, args...))
	m.refreshLogView()
}

// refreshLogView rewrites the viewport content, keeping the scroll pinned
// to the bottom only if the operator was already there.
func (m *Model) refreshLogView() {
	atBottom := m.logView.AtBottom()
	m.logView.SetContent(strings.Join(m.logs.GetAll(), "\n"))
	if atBottom {
		m.logView.GotoBottom()
	}
}

func (m *Model) resize() {
	width := m.width - 6
	if width < 60 {
		width = 60
	}
	m.logView.Width = width

	logHeight := m.height - 22
	if logHeight < 4 {
		logHeight = 4
	}
	m.logView.Height = logHeight

	noteWidth := m.width - 10
	if noteWidth < 40 {
		noteWidth = 40
	}
	m.note.SetWidth(noteWidth)
	m.refreshLogView()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// tailLines returns up to n trailing non-empty lines of s.
func tailLines(s string, n int) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
