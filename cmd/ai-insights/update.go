package main

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Menatic/AI-insights/pkg/mockdata"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.spin, cmd = m.spin.Update(msg)
	cmds = append(cmds, cmd)

	if m.tabIdx == tabLogs && !m.logout.active {
		m.logView, cmd = m.logView.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.editing {
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logView.Width = max(40, m.width-10)
		m.logView.Height = max(6, m.height-14)
		m.help.Width = max(20, m.width-8)
		m.editor.Width = max(16, min(40, m.width/3))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.editing && key.Matches(msg, m.keys.Quit)) {
			m.shutdown()
			return m, tea.Quit
		}
		if m.editing {
			m.editKey(msg)
			break
		}
		m.handleKey(msg)
		m.drainEvents()

	case sysTickMsg:
		m.sys = msg.stats
		m.cpuSeries = appendSeries(m.cpuSeries, m.sys.CPUPercent, seriesCap)
		m.ramSeries = appendSeries(m.ramSeries, float64(m.sys.MemUsedMB), seriesCap)
		m.rssSeries = appendSeries(m.rssSeries, float64(m.sys.ProcRSSKB)/1024.0, seriesCap)
		cmds = append(cmds, sysTickCmd(m.cfg.SysInterval))

	case animTickMsg:
		m.frame++
		if n := m.sched.Step(); n > 0 {
			m.onEpochs(n)
		}
		m.drainEvents()
		m.animate()
		m.advanceLogout()
		if m.notice.text != "" && !m.clock.Now().Before(m.notice.expires) {
			m.notice = notice{}
		}
		cmds = append(cmds, animTickCmd())
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) {
	if m.logout.active {
		return
	}
	if m.notFound != "" {
		switch {
		case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Back),
			key.Matches(msg, m.keys.TabNext), key.Matches(msg, m.keys.TabPrev):
			m.appendLog("[system] returning to dashboard")
			m.notFound = ""
			m.tabIdx = tabDashboard
		}
		return
	}

	switch {
	case key.Matches(msg, m.keys.TabNext):
		m.tabIdx = (m.tabIdx + 1) % len(tabNames)
		return
	case key.Matches(msg, m.keys.TabPrev):
		m.tabIdx = (m.tabIdx - 1 + len(tabNames)) % len(tabNames)
		return
	case key.Matches(msg, m.keys.Jump):
		m.tabIdx = int(msg.String()[0] - '1')
		return
	case key.Matches(msg, m.keys.Logout):
		m.beginLogout()
		return
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return
	case key.Matches(msg, m.keys.Toggle):
		m.sched.Toggle()
		return
	case key.Matches(msg, m.keys.Speed):
		m.sched.CycleSpeed()
		return
	case key.Matches(msg, m.keys.Reset):
		m.sched.Reset()
		return
	}

	switch m.tabIdx {
	case tabDashboard:
		m.dashboardKey(msg)
	case tabTraining:
		if key.Matches(msg, m.keys.Flip) {
			m.sched.Toggle()
		}
	case tabExplainer:
		m.featureIdx = moveIndex(msg, m.keys, m.featureIdx, len(mockdata.Features))
		if key.Matches(msg, m.keys.Select) {
			f := mockdata.Features[m.featureIdx]
			m.setNotice(fmt.Sprintf("%s importance %.2f", f.Name, f.Value), false)
		}
	case tabNetwork:
		m.networkKey(msg)
	case tabPipeline:
		m.stepIdx = moveIndex(msg, m.keys, m.stepIdx, len(mockdata.PipelineSteps))
	case tabSettings:
		m.settingsKey(msg)
	case tabLogs:
		if key.Matches(msg, m.keys.ClearLog) {
			m.logs = nil
			m.logView.SetContent("")
		}
	}
}

func moveIndex(msg tea.KeyMsg, k keyMap, idx, n int) int {
	switch {
	case key.Matches(msg, k.Up):
		return max(0, idx-1)
	case key.Matches(msg, k.Down):
		return min(n-1, idx+1)
	}
	return idx
}

func (m *model) dashboardKey(msg tea.KeyMsg) {
	m.modelIdx = moveIndex(msg, m.keys, m.modelIdx, len(mockdata.Models))
	if key.Matches(msg, m.keys.Select) {
		name := mockdata.Models[m.modelIdx].Name
		m.setNotice("Viewing details for "+name, false)
		m.appendLog("[system] viewing details for " + name)
	}
}

const (
	minZoom  = 0.5
	maxZoom  = 2.0
	zoomStep = 0.25
	maxSpin  = 10
)

func (m *model) networkKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom = math.Min(maxZoom, m.zoom+zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom = math.Max(minZoom, m.zoom-zoomStep)
	case key.Matches(msg, m.keys.ZoomZero):
		m.zoom = 1
	case key.Matches(msg, m.keys.SpinUp):
		m.rotation = min(maxSpin, m.rotation+1)
	case key.Matches(msg, m.keys.SpinDown):
		m.rotation = max(0, m.rotation-1)
	}
}

func (m *model) settingsKey(msg tea.KeyMsg) {
	m.settingIdx = moveIndex(msg, m.keys, m.settingIdx, settingAccent+1)
	switch {
	case key.Matches(msg, m.keys.Flip), key.Matches(msg, m.keys.Select):
		switch m.settingIdx {
		case settingDarkMode:
			m.darkMode = !m.darkMode
			lipgloss.SetHasDarkBackground(m.darkMode)
			m.appendLog(fmt.Sprintf("[system] dark mode %s", onOff(m.darkMode)))
		case settingAnimations:
			m.animations = !m.animations
			m.appendLog(fmt.Sprintf("[system] animations %s", onOff(m.animations)))
		case settingGPU:
			m.gpuAccel = !m.gpuAccel
			m.appendLog(fmt.Sprintf("[system] gpu acceleration %s", onOff(m.gpuAccel)))
		case settingAccent:
			m.cycleAccent(1)
		}
	case m.settingIdx == settingAccent && key.Matches(msg, m.keys.Right):
		m.cycleAccent(1)
	case m.settingIdx == settingAccent && key.Matches(msg, m.keys.Left):
		m.cycleAccent(-1)
	case m.settingIdx == settingAccent && key.Matches(msg, m.keys.Edit):
		m.startEdit()
	}
}

func (m *model) startEdit() {
	m.editing = true
	m.editor.SetValue(m.customAccent)
	m.editor.CursorEnd()
	m.editor.Focus()
}

func (m *model) editKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Select):
		m.applyEdit()
	case key.Matches(msg, m.keys.Back):
		m.cancelEdit()
	}
}

func (m *model) applyEdit() {
	v := strings.ToLower(strings.TrimSpace(m.editor.Value()))
	m.cancelEdit()
	if !validAccent(v) {
		m.setNotice(fmt.Sprintf("Invalid color %q", v), false)
		m.appendLog(fmt.Sprintf("[system] rejected accent color %q", v))
		return
	}
	m.accentIdx = -1
	for i, c := range mockdata.Palette {
		if strings.EqualFold(c, v) {
			m.accentIdx = i
		}
	}
	if m.accentIdx < 0 {
		m.customAccent = v
	}
	m.applyAccent()
	m.appendLog("[system] accent color " + m.accent())
}

func (m *model) cancelEdit() {
	m.editing = false
	m.editor.Blur()
}

var hexColor = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6})$`)

// validAccent accepts an ANSI 256 index or a #rgb / #rrggbb hex color.
func validAccent(v string) bool {
	if hexColor.MatchString(v) {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 0 && n <= 255
}

func (m *model) cycleAccent(delta int) {
	n := len(mockdata.Palette)
	if m.accentIdx < 0 {
		m.accentIdx = 0
	} else {
		m.accentIdx = (m.accentIdx + delta + n) % n
	}
	m.applyAccent()
	m.appendLog("[system] accent color " + m.accent())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
