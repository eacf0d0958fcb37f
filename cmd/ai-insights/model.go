package main

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/Menatic/AI-insights/pkg/config"
	"github.com/Menatic/AI-insights/pkg/mockdata"
	"github.com/Menatic/AI-insights/pkg/runlog"
	"github.com/Menatic/AI-insights/pkg/sim"
	"github.com/Menatic/AI-insights/pkg/sysstats"
)

const (
	tabDashboard = iota
	tabTraining
	tabExplainer
	tabNetwork
	tabPipeline
	tabSettings
	tabLogs
)

var tabNames = []string{"Dashboard", "Training", "Explainer", "Network", "Pipeline", "Settings", "Logs"}

const (
	maxLogLines    = 3500
	seriesCap      = 600
	noticeTTL      = 3 * time.Second
	logoutDuration = 2 * time.Second
)

const (
	settingDarkMode = iota
	settingAnimations
	settingGPU
	settingAccent
)

type styles struct {
	title      lipgloss.Style
	tab        lipgloss.Style
	tabActive  lipgloss.Style
	panel      lipgloss.Style
	panelTitle lipgloss.Style
	selected   lipgloss.Style
	dim        lipgloss.Style
	ok         lipgloss.Style
	warn       lipgloss.Style
	bad        lipgloss.Style
	graphAcc   lipgloss.Style
	graphVal   lipgloss.Style
	graphLoss  lipgloss.Style
	graphCPU   lipgloss.Style
	graphMem   lipgloss.Style
	overlay    lipgloss.Style
	overlayTxt lipgloss.Style
}

type keyMap struct {
	Toggle   key.Binding
	Speed    key.Binding
	Reset    key.Binding
	Quit     key.Binding
	TabNext  key.Binding
	TabPrev  key.Binding
	Jump     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Flip     key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	ZoomZero key.Binding
	SpinDown key.Binding
	SpinUp   key.Binding
	ClearLog key.Binding
	Edit     key.Binding
	Logout   key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Speed, k.Reset, k.TabNext, k.Logout, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Speed, k.Reset, k.Quit},
		{k.TabNext, k.TabPrev, k.Jump, k.Logout, k.Help},
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Back, k.Flip, k.Edit},
		{k.ZoomIn, k.ZoomOut, k.ZoomZero, k.SpinDown, k.SpinUp, k.ClearLog},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/pause")),
		Speed:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "speed 1x/2x/4x")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset run")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		TabNext:  key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab/l", "next view")),
		TabPrev:  key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab/h", "prev view")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "jump to view")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("left", "previous color")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("right", "next color")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Flip:     key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "toggle")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomZero: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		SpinDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "rotation -1")),
		SpinUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "rotation +1")),
		ClearLog: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear logs")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "custom color")),
		Logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

func defaultStyles(accent string) styles {
	brand := lipgloss.Color(accent)
	subtle := lipgloss.AdaptiveColor{Light: "245", Dark: "244"}
	border := lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(brand),
		tab:        lipgloss.NewStyle().Padding(0, 1).Foreground(subtle),
		tabActive:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(brand),
		panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Bold(true).Foreground(brand),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(brand),
		dim:        lipgloss.NewStyle().Foreground(subtle),
		ok:         lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warn:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		bad:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		graphAcc:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		graphVal:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		graphLoss:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		graphCPU:   lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		graphMem:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		overlay:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(brand).Padding(1, 3),
		overlayTxt: lipgloss.NewStyle().Bold(true).Foreground(brand),
	}
}

// springValue is one spring-smoothed display value.
type springValue struct {
	pos, vel float64
	primed   bool
}

func (v *springValue) update(sp harmonica.Spring, target float64, animate bool) {
	if !animate || !v.primed {
		v.pos, v.vel, v.primed = target, 0, true
		return
	}
	v.pos, v.vel = sp.Update(v.pos, v.vel, target)
}

// eventQueue collects simulator events between update passes. The simulator
// is owned by the update loop, so no locking is needed.
type eventQueue struct {
	pending []sim.Event
	ticks   []tickRecord
}

// tickRecord is the state right after one tick and the time it was due.
type tickRecord struct {
	due time.Time
	st  sim.State
}

func (q *eventQueue) push(ev sim.Event) { q.pending = append(q.pending, ev) }

func (q *eventQueue) pushTick(due time.Time, st sim.State) {
	q.ticks = append(q.ticks, tickRecord{due: due, st: st})
}

func (q *eventQueue) drain() []sim.Event {
	out := q.pending
	q.pending = nil
	return out
}

func (q *eventQueue) drainTicks() []tickRecord {
	out := q.ticks
	q.ticks = nil
	return out
}

type notice struct {
	text    string
	success bool
	expires time.Time
}

type logoutState struct {
	active   bool
	started  time.Time
	progress float64
	vel      float64
}

type model struct {
	cfg    config.Config
	width  int
	height int
	styles styles
	keys   keyMap
	help   help.Model
	spin   spinner.Model
	tabIdx int

	// notFound holds an unknown view name requested at startup.
	notFound string

	clock  sim.Clock
	sched  *sim.Scheduler
	events *eventQueue
	runLog *runlog.Writer

	// runLogFor is the run ID the open run log belongs to.
	runLogFor string

	logs    []string
	logView viewport.Model
	notice  notice
	logout  logoutState

	sys       sysstats.Stats
	cpuSeries []float64
	ramSeries []float64
	rssSeries []float64

	frame       int
	graphSpring harmonica.Spring
	fadeSpring  harmonica.Spring
	progAnim    springValue
	ringAnim    springValue
	accAnim     springValue
	gaugeAnim   [4]springValue

	modelIdx     int
	featureIdx   int
	stepIdx      int
	zoom         float64
	rotation     int
	settingIdx   int
	darkMode     bool
	animations   bool
	gpuAccel     bool
	accentIdx    int
	customAccent string

	// editing is true while the custom accent editor has focus.
	editing bool
	editor  textinput.Model
}

func newModel(cfg config.Config, src sim.Source, clock sim.Clock) model {
	if clock == nil {
		clock = sim.SystemClock{}
	}
	s := sim.New(cfg.Sim(), src)
	q := &eventQueue{}
	s.Subscribe(q.push)
	sched := sim.NewScheduler(s, clock)
	sched.OnTick(q.pushTick)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Accent))

	logVP := viewport.New(100, 16)
	logVP.SetContent("logs will appear here")

	ed := textinput.New()
	ed.Prompt = "> "
	ed.CharLimit = 7
	ed.Width = 24
	ed.Placeholder = "0-255 or #rrggbb"

	m := model{
		cfg:         cfg,
		styles:      defaultStyles(cfg.Accent),
		keys:        defaultKeys(),
		help:        help.New(),
		spin:        sp,
		clock:       clock,
		sched:       sched,
		events:      q,
		logView:     logVP,
		editor:      ed,
		graphSpring: harmonica.NewSpring(harmonica.FPS(30), 6.0, 1.0),
		fadeSpring:  harmonica.NewSpring(harmonica.FPS(30), 8.0, 0.72),
		zoom:        1,
		rotation:    3,
		darkMode:    lipgloss.HasDarkBackground(),
		animations:  cfg.Animations,
		gpuAccel:    true,
		accentIdx:   -1,
	}
	for i, c := range mockdata.Palette {
		if strings.EqualFold(c, cfg.Accent) {
			m.accentIdx = i
		}
	}
	if m.accentIdx < 0 {
		m.customAccent = cfg.Accent
	}
	if idx, ok := viewIndex(cfg.View); ok {
		m.tabIdx = idx
	} else {
		m.notFound = cfg.View
	}
	m.appendLog("[system] dashboard ready, run " + runlog.ShortID(s.RunID()))
	if m.notFound != "" {
		m.appendLog("[system] unknown view requested: " + m.notFound)
	}
	return m
}

// viewIndex resolves a view name (case-insensitive, optional leading slash).
func viewIndex(name string) (int, bool) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "/")
	if name == "" || name == "home" {
		return tabDashboard, true
	}
	for i, t := range tabNames {
		if strings.ToLower(t) == name {
			return i, true
		}
	}
	return 0, false
}

type sysTickMsg struct {
	stats sysstats.Stats
	ts    time.Time
}

type animTickMsg struct{ ts time.Time }

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, sysTickCmd(m.cfg.SysInterval), animTickCmd())
}

func sysTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(now time.Time) tea.Msg {
		return sysTickMsg{stats: sysstats.Sample(0), ts: now}
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(ts time.Time) tea.Msg { return animTickMsg{ts: ts} })
}

func (m *model) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.logView.SetContent(strings.Join(m.logs, "\n"))
	m.logView.GotoBottom()
	m.runLog.Line(line)
	log.Print(line)
}

func (m *model) setNotice(text string, success bool) {
	m.notice = notice{text: text, success: success, expires: m.clock.Now().Add(noticeTTL)}
}

// drainEvents turns queued simulator events into log lines and notices and
// opens or closes the per-run artifacts.
func (m *model) drainEvents() {
	for _, ev := range m.events.drain() {
		switch ev.Kind {
		case sim.EventStarted:
			m.openRunLog(ev.RunID)
		case sim.EventReset:
			m.closeRunLog()
		}
		m.appendLog(runlog.EventLine(ev))
		m.setNotice(ev.Message(), ev.Success())
		if ev.Kind == sim.EventCompleted {
			m.writeCurves()
			m.closeRunLog()
		}
	}
}

func (m *model) openRunLog(runID string) {
	if m.cfg.RunLogDir == "" || m.runLogFor == runID {
		return
	}
	m.closeRunLog()
	w, err := runlog.Open(m.cfg.RunLogDir, runID, m.clock.Now())
	if err != nil {
		m.appendLog("[system] run log unavailable: " + err.Error())
		return
	}
	m.runLog = w
	m.runLogFor = runID
	m.appendLog("[system] run log: " + w.LogPath)
}

func (m *model) writeCurves() {
	if m.runLog == nil {
		return
	}
	if err := m.runLog.Curves(m.sched.Simulator().State()); err != nil {
		m.appendLog("[system] curves unavailable: " + err.Error())
		return
	}
	m.appendLog("[system] curves: " + m.runLog.CurvesPath)
}

func (m *model) closeRunLog() {
	if m.runLog == nil {
		return
	}
	if err := m.runLog.Close(); err != nil {
		m.appendLog("[system] run log close: " + err.Error())
	}
	m.runLog = nil
	m.runLogFor = ""
}

// onEpochs records every tick of the last step, one CSV row each.
func (m *model) onEpochs(n int) {
	for _, t := range m.events.drainTicks() {
		m.runLog.Epoch(t.due, t.st)
		if m.cfg.Debug() {
			m.appendLog(runlog.EpochLine(t.st))
		}
	}
	if !m.cfg.Debug() && n > 1 {
		m.appendLog("[system] caught up " + strconv.Itoa(n) + " epochs")
	}
}

func (m *model) animate() {
	st := m.sched.Simulator().State()
	anim := m.animations
	m.progAnim.update(m.graphSpring, st.Progress(), anim)
	m.ringAnim.update(m.graphSpring, 1-st.Elapsed(), anim)
	m.accAnim.update(m.graphSpring, st.LatestAccuracy().Training, anim)
	for i, g := range sysstats.Accelerator(st.Running) {
		if i < len(m.gaugeAnim) {
			m.gaugeAnim[i].update(m.graphSpring, g.Fill, anim)
		}
	}
}

// beginLogout pauses a running simulation, then starts the overlay.
func (m *model) beginLogout() {
	m.sched.Pause()
	m.drainEvents()
	m.logout = logoutState{active: true, started: m.clock.Now()}
	m.appendLog("[system] logging out")
}

func (m *model) advanceLogout() {
	if !m.logout.active {
		return
	}
	elapsed := m.clock.Now().Sub(m.logout.started)
	target := clamp01(float64(elapsed) / float64(logoutDuration))
	if m.animations {
		m.logout.progress, m.logout.vel = m.fadeSpring.Update(m.logout.progress, m.logout.vel, target)
	} else {
		m.logout.progress = target
	}
	if elapsed < logoutDuration {
		return
	}
	m.logout = logoutState{}
	m.tabIdx = tabDashboard
	m.appendLog("[system] logged out")
	m.setNotice("Successfully logged out", true)
}

func (m *model) shutdown() {
	m.sched.Pause()
	m.drainEvents()
	m.closeRunLog()
}

func (m model) accent() string {
	if m.accentIdx >= 0 && m.accentIdx < len(mockdata.Palette) {
		return mockdata.Palette[m.accentIdx]
	}
	return m.customAccent
}

func (m *model) applyAccent() {
	m.styles = defaultStyles(m.accent())
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.accent()))
}
