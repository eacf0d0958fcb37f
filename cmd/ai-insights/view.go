package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Menatic/AI-insights/pkg/mockdata"
	"github.com/Menatic/AI-insights/pkg/runlog"
	"github.com/Menatic/AI-insights/pkg/sim"
	"github.com/Menatic/AI-insights/pkg/sysstats"
)

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.logout.active {
		return m.viewLogout()
	}
	header := m.viewHeader()
	contentW := max(70, m.width-4)
	footer := m.viewFooter(contentW)
	contentH := max(8, m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2)

	var content string
	switch {
	case m.notFound != "":
		content = m.viewNotFound(contentW)
	case m.tabIdx == tabDashboard:
		content = m.viewDashboard(contentW)
	case m.tabIdx == tabTraining:
		content = m.viewTraining(contentW)
	case m.tabIdx == tabExplainer:
		content = m.viewExplainer(contentW)
	case m.tabIdx == tabNetwork:
		content = m.viewNetwork(contentW)
	case m.tabIdx == tabPipeline:
		content = m.viewPipeline(contentW)
	case m.tabIdx == tabSettings:
		content = m.viewSettings(contentW)
	default:
		content = m.viewLogs(contentW, contentH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", fitHeight(content, contentH), footer)
}

func (m model) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, t := range tabNames {
		if i == m.tabIdx && m.notFound == "" {
			parts[i] = m.styles.tabActive.Render(t)
		} else {
			parts[i] = m.styles.tab.Render(t)
		}
	}
	return strings.Join(parts, " ")
}

func (m model) viewHeader() string {
	line := m.styles.title.Render("AI Insights") + "  " + m.renderTabs()
	if m.notice.text != "" {
		st := m.styles.dim
		if m.notice.success {
			st = m.styles.ok
		}
		line += "  " + st.Render(m.notice.text)
	}
	return truncate(line, max(20, m.width-2))
}

func (m model) panel(title string, lines []string, w int) string {
	inner := panelInnerWidth(w)
	for i, ln := range lines {
		lines[i] = truncate(ln, inner)
	}
	return m.styles.panel.Width(inner).Render(m.styles.panelTitle.Render(title) + "\n" + strings.Join(lines, "\n"))
}

func panelInnerWidth(total int) int {
	// Rounded border (2 cols) plus horizontal padding (2 cols).
	return max(8, total-4)
}

// columns splits w into n side-by-side widths separated by one space.
func columns(w, n int) int {
	return max(20, (w-(n-1))/n)
}

func (m model) viewDashboard(w int) string {
	cardW := columns(w, len(mockdata.Metrics))
	cards := make([]string, 0, len(mockdata.Metrics))
	for _, mt := range mockdata.Metrics {
		arrow, st := "↑", m.styles.ok
		if mt.Trend == mockdata.TrendDown {
			arrow, st = "↓", m.styles.bad
		}
		cards = append(cards, m.panel(mt.Title, []string{
			m.styles.title.Render(mt.Value),
			st.Render(fmt.Sprintf("%s %d%%", arrow, mt.Change)) + m.styles.dim.Render(" vs last month"),
		}, cardW))
	}
	metricRow := lipgloss.JoinHorizontal(lipgloss.Top, interleave(cards, " ")...)

	counts := mockdata.CountByStatus(mockdata.Models)
	modelLines := []string{m.styles.dim.Render(fmt.Sprintf("%d complete, %d training, %d error",
		counts[mockdata.StatusComplete], counts[mockdata.StatusTraining], counts[mockdata.StatusError]))}
	for i, md := range mockdata.Models {
		line := fmt.Sprintf("  %-22s %-14s %5.1f%%  %s", md.Name, md.Type, md.Accuracy, m.statusStyle(string(md.Status)).Render(string(md.Status)))
		if i == m.modelIdx {
			line = m.styles.selected.Render("> " + strings.TrimPrefix(line, "  "))
		}
		modelLines = append(modelLines, line, m.styles.dim.Render("    "+md.Description+" · "+md.LastUpdated))
	}
	halfW := columns(w, 2)
	modelsPanel := m.panel("Models", modelLines, halfW)

	train := make([]float64, len(mockdata.AccuracyHistory))
	val := make([]float64, len(mockdata.AccuracyHistory))
	for i, p := range mockdata.AccuracyHistory {
		train[i], val[i] = p.Training, p.Validation
	}
	chartLines := []string{}
	for _, ln := range lineChart(train, max(10, halfW-18), 5, "%.0f%%") {
		chartLines = append(chartLines, m.styles.graphAcc.Render(ln))
	}
	chartLines = append(chartLines,
		m.styles.graphVal.Render("validation "+sparkline(val, max(8, halfW-20))),
		m.styles.dim.Render(fmt.Sprintf("%s to %s", mockdata.AccuracyHistory[0].Name, mockdata.AccuracyHistory[len(mockdata.AccuracyHistory)-1].Name)),
	)
	gpu := make([]float64, len(mockdata.GPUMemory))
	for i, u := range mockdata.GPUMemory {
		gpu[i] = u.Usage
	}
	latest, lo, hi, _ := seriesStats(gpu)
	chartLines = append(chartLines, "",
		m.styles.panelTitle.Render("GPU memory (GB)"),
		m.styles.graphMem.Render(sparkline(gpu, max(8, halfW-8))),
		m.styles.dim.Render(fmt.Sprintf("now %.1f | min %.1f | max %.1f", latest, lo, hi)),
	)
	chartsPanel := m.panel("Model Accuracy Over Time", chartLines, halfW)

	runLines := []string{m.styles.dim.Render(fmt.Sprintf("%-22s %-20s %-8s %-10s %6s %6s", "Model", "Started", "Duration", "Status", "Acc", "Loss"))}
	for _, r := range mockdata.RecentRuns {
		runLines = append(runLines, fmt.Sprintf("%-22s %-20s %-8s %s %6.1f %6.2f",
			r.Model, r.StartTime, r.Duration, m.statusStyle(r.Status).Render(fmt.Sprintf("%-10s", r.Status)), r.Accuracy, r.Loss))
	}
	runsPanel := m.panel("Recent Training Runs", runLines, w)

	return lipgloss.JoinVertical(lipgloss.Left,
		metricRow,
		lipgloss.JoinHorizontal(lipgloss.Top, modelsPanel, " ", chartsPanel),
		runsPanel,
	)
}

func (m model) statusStyle(status string) lipgloss.Style {
	switch status {
	case "complete", "completed":
		return m.styles.ok
	case "training", "running":
		return m.styles.warn
	case "error", "failed":
		return m.styles.bad
	default:
		return m.styles.dim
	}
}

func interleave(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

func (m model) viewTraining(w int) string {
	st := m.sched.Simulator().State()
	status := m.styles.dim.Render(strings.ToUpper(st.Status().String()))
	switch st.Status() {
	case sim.StatusRunning:
		status = m.styles.warn.Render(m.spin.View() + " RUNNING")
	case sim.StatusCompleted:
		status = m.styles.ok.Render("COMPLETED")
	}
	acc, loss := st.LatestAccuracy(), st.LatestLoss()
	leftW := columns(w, 3)
	action := "start"
	if st.Running {
		action = "pause"
	}
	control := m.panel("Training Control", []string{
		"Status: " + status,
		fmt.Sprintf("Run %s | speed %dx", runlog.ShortID(st.RunID), st.Speed),
		fmt.Sprintf("Epoch %d/%d", st.Epoch, st.MaxEpochs),
		m.styles.selected.Render(bar(m.progAnim.pos, max(10, leftW-12))) + fmt.Sprintf(" %3.0f%%", st.Progress()*100),
		fmt.Sprintf("Accuracy %.1f%% (val %.1f%%)", m.accAnim.pos, acc.Validation),
		fmt.Sprintf("Loss %.4f (val %.4f)", loss.Training, loss.Validation),
		m.styles.dim.Render(fmt.Sprintf("[s] %s  [f] speed  [r] reset", action)),
	}, leftW)

	hp := sim.DefaultHyperparameters()
	hyper := m.panel("Hyperparameters", []string{
		fmt.Sprintf("Batch size      %d", hp.BatchSize),
		fmt.Sprintf("Learning rate   %g", hp.LearningRate),
		fmt.Sprintf("Optimizer       %s", hp.Optimizer),
		fmt.Sprintf("Regularization  %s", hp.Regularization),
		fmt.Sprintf("Momentum        %g", hp.Momentum),
	}, leftW)

	ringLines := ring(m.ringAnim.pos, sim.FormatRemaining(st.TimeRemaining))
	for i := range ringLines {
		ringLines[i] = m.styles.selected.Render(ringLines[i])
	}
	ringLines = append(ringLines, m.styles.dim.Render(fmt.Sprintf("budget %s", sim.FormatRemaining(st.TimeBudget))))
	timer := m.panel("Time Remaining", ringLines, leftW)
	top := lipgloss.JoinHorizontal(lipgloss.Top, control, " ", hyper, " ", timer)

	halfW := columns(w, 2)
	accTrain, accVal := pointSeries(st.Accuracy)
	lossTrain, lossVal := pointSeries(st.Loss)
	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		m.seriesPanel("Accuracy (%)", accTrain, accVal, "%.1f", halfW),
		" ",
		m.seriesPanel("Loss", lossTrain, lossVal, "%.3f", halfW),
	)

	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.systemPanel(st.Running, halfW),
		" ",
		m.confusionPanel(st.Confusion, halfW),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, charts, bottom)
}

func pointSeries(points []sim.Point) (train, val []float64) {
	train = make([]float64, len(points))
	val = make([]float64, len(points))
	for i, p := range points {
		train[i], val[i] = p.Training, p.Validation
	}
	return train, val
}

func (m model) seriesPanel(title string, train, val []float64, labelFmt string, w int) string {
	lines := []string{}
	for _, ln := range lineChart(train, max(10, w-18), 5, labelFmt) {
		lines = append(lines, m.styles.graphAcc.Render(ln))
	}
	lines = append(lines, m.styles.graphVal.Render("val "+sparkline(val, max(8, w-12))))
	if latest, lo, hi, ok := seriesStats(train); ok {
		lines = append(lines, m.styles.dim.Render(fmt.Sprintf("latest "+labelFmt+" | min "+labelFmt+" | max "+labelFmt+" | n=%d", latest, lo, hi, len(train))))
	}
	return m.panel(title, lines, w)
}

func (m model) systemPanel(running bool, w int) string {
	lines := []string{}
	gauges := sysstats.Accelerator(running)
	if !m.gpuAccel {
		lines = append(lines, m.styles.dim.Render("GPU acceleration disabled in settings"))
	}
	for i, g := range gauges {
		fill := g.Fill
		if i < len(m.gaugeAnim) {
			fill = m.gaugeAnim[i].pos
		}
		b := bar(fill, max(8, w-40))
		if !m.gpuAccel {
			b = m.styles.dim.Render(b)
		}
		lines = append(lines, fmt.Sprintf("%-16s %s %s", g.Name, b, g.Value))
	}
	lines = append(lines, "")
	if m.sys.Available {
		lines = append(lines,
			fmt.Sprintf("Host CPU %.1f%% %s", m.sys.CPUPercent, m.styles.graphCPU.Render(sparkline(m.cpuSeries, 16))),
			fmt.Sprintf("Host RAM %d/%dMB (%.0f%%) %s", m.sys.MemUsedMB, m.sys.MemTotalMB, m.sys.MemUsedPct, m.styles.graphMem.Render(sparkline(m.ramSeries, 12))),
			fmt.Sprintf("PID %d | RSS %.1fMB", m.sys.PID, float64(m.sys.ProcRSSKB)/1024.0),
		)
	} else {
		lines = append(lines, m.styles.dim.Render("host metrics unavailable"))
	}
	return m.panel("System Metrics", lines, w)
}

func (m model) confusionPanel(cm sim.Matrix, w int) string {
	head := fmt.Sprintf("%-10s", "actual")
	for c := 0; c < sim.Classes; c++ {
		head += fmt.Sprintf(" %8s", sim.ClassName(c))
	}
	lines := []string{m.styles.dim.Render(head)}
	for r := 0; r < sim.Classes; r++ {
		row := fmt.Sprintf("%-10s", sim.ClassName(r))
		for c := 0; c < sim.Classes; c++ {
			cell := fmt.Sprintf(" %7d%%", cm[r][c])
			if r == c {
				cell = m.styles.ok.Render(cell)
			}
			row += cell
		}
		lines = append(lines, row)
	}
	sc := cm.Scores()
	recall, precision := fmt.Sprintf("%-10s", "recall"), fmt.Sprintf("%-10s", "precision")
	for c := 0; c < sim.Classes; c++ {
		recall += fmt.Sprintf(" %7.1f%%", sc.Recall[c]*100)
		precision += fmt.Sprintf(" %7.1f%%", sc.Precision[c]*100)
	}
	lines = append(lines,
		m.styles.dim.Render(recall),
		m.styles.dim.Render(precision),
		m.styles.dim.Render(fmt.Sprintf("overall %.1f%% | rows: actual, columns: predicted", sc.Accuracy*100)),
	)
	return m.panel("Confusion Matrix", lines, w)
}

// spotlight is the feature highlighted by the rotating animation.
func (m model) spotlight() int {
	if !m.animations {
		return -1
	}
	return (m.frame / 45) % len(mockdata.Features)
}

func (m model) viewExplainer(w int) string {
	shares := mockdata.FeatureShares(mockdata.Features)
	spot := m.spotlight()
	lines := []string{m.styles.dim.Render("Relative importance of input features for the selected model")}
	for i, f := range mockdata.Features {
		name := fmt.Sprintf("  %-10s", f.Name)
		if i == m.featureIdx {
			name = m.styles.selected.Render(fmt.Sprintf("> %-10s", f.Name))
		}
		b := lipgloss.NewStyle().Foreground(lipgloss.Color(f.Color)).Render(bar(f.Value, max(10, w-40)))
		line := fmt.Sprintf("%s %s %.2f  %4.1f%%", name, b, f.Value, shares[i]*100)
		if i == spot {
			line += m.styles.warn.Render(" ◆")
		}
		lines = append(lines, line)
	}
	sel := mockdata.Features[m.featureIdx]
	detail := m.panel("Active Feature", []string{
		m.styles.title.Render(sel.Name),
		fmt.Sprintf("Importance %.2f", sel.Value),
		fmt.Sprintf("Share of total %.1f%%", shares[m.featureIdx]*100),
		fmt.Sprintf("Rank %d of %d", m.featureIdx+1, len(mockdata.Features)),
	}, w)
	return lipgloss.JoinVertical(lipgloss.Left, m.panel("Feature Importance", lines, w), detail)
}

func (m model) viewNetwork(w int) string {
	layers := mockdata.NetworkLayers
	maxNodes := 0
	for _, l := range layers {
		maxNodes = max(maxNodes, l.Nodes)
	}
	gap := max(2, int(math.Round(6*m.zoom)))
	pulse := -1
	if m.animations && m.rotation > 0 {
		pulse = (m.frame * m.rotation / 30) % len(layers)
	}
	rows := make([]string, maxNodes)
	for r := 0; r < maxNodes; r++ {
		var b strings.Builder
		for i, l := range layers {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			off := (maxNodes - l.Nodes) / 2
			cell := " "
			if r >= off && r < off+l.Nodes {
				cell = "●"
				if i == pulse {
					cell = "◉"
				}
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render(cell))
		}
		rows[r] = b.String()
	}
	legend := []string{}
	for _, l := range layers {
		legend = append(legend, fmt.Sprintf("%s (%d)", l.Name, l.Nodes))
	}
	lines := append(rows, "",
		m.styles.dim.Render(strings.Join(legend, " → ")),
		fmt.Sprintf("Connections %d | zoom %.2fx | rotation %d", mockdata.Connections(layers), m.zoom, m.rotation),
	)
	return m.panel("Neural Network", lines, w)
}

func (m model) viewPipeline(w int) string {
	steps := mockdata.PipelineSteps
	flow := make([]string, 0, len(steps))
	for i, s := range steps {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		label := fmt.Sprintf("%d. %s", i+1, s.Title)
		if i == m.stepIdx {
			label = st.Bold(true).Underline(true).Render(label)
		} else {
			label = st.Render(label)
		}
		flow = append(flow, label)
	}
	sel := steps[m.stepIdx]
	detail := []string{
		strings.Join(flow, m.styles.dim.Render(" → ")),
		"",
		m.styles.title.Render(sel.Title),
	}
	detail = append(detail, wrapText(sel.Description, max(20, w-8))...)
	detail = append(detail, "",
		fmt.Sprintf("Data quality  %s %3.0f%%", bar(sel.Quality, max(10, w-34)), sel.Quality*100),
		fmt.Sprintf("Completeness  %s %3.0f%%", bar(sel.Completeness, max(10, w-34)), sel.Completeness*100),
	)
	return m.panel("Data Pipeline", detail, w)
}

func (m model) viewSettings(w int) string {
	check := func(v bool) string {
		if v {
			return "[x]"
		}
		return "[ ]"
	}
	rows := []string{
		fmt.Sprintf("%s Dark mode", check(m.darkMode)),
		fmt.Sprintf("%s Animations", check(m.animations)),
		fmt.Sprintf("%s GPU acceleration", check(m.gpuAccel)),
		"Accent color " + m.accentSwatches(),
	}
	for i := range rows {
		if i == m.settingIdx {
			rows[i] = m.styles.selected.Render("> ") + rows[i]
		} else {
			rows[i] = "  " + rows[i]
		}
	}
	if m.editing {
		rows = append(rows, "", "Custom accent "+m.editor.View(), m.styles.dim.Render("enter=apply esc=cancel"))
	} else if m.settingIdx == settingAccent {
		rows = append(rows, "", m.styles.dim.Render("left/right cycles colors, e sets a custom one"))
	}
	rows = append(rows, "",
		m.styles.dim.Render(fmt.Sprintf("Epochs %d | time budget %s | seed %d | log level %s",
			m.cfg.MaxEpochs, sim.FormatRemaining(m.cfg.TimeBudget), m.cfg.Seed, m.cfg.LogLevel)),
		m.styles.dim.Render("Run logs: "+pathOr(m.cfg.RunLogDir, "disabled")),
	)
	return m.panel("Settings", rows, w)
}

func (m model) accentSwatches() string {
	parts := make([]string, 0, len(mockdata.Palette)+1)
	for i, c := range mockdata.Palette {
		mark := "■"
		if i == m.accentIdx {
			mark = "[■]"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(mark))
	}
	if m.accentIdx < 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(m.customAccent)).Render("[■]"))
	}
	return strings.Join(parts, " ")
}

func pathOr(p, fallback string) string {
	if strings.TrimSpace(p) == "" {
		return fallback
	}
	return p
}

func (m model) viewLogs(w, h int) string {
	lv := m.logView
	innerW := max(20, panelInnerWidth(w)-2)
	lv.Width = innerW
	lv.Height = max(4, h-3)

	// Pre-wrap so long lines do not push the header off-screen.
	wrapped := make([]string, 0, len(m.logs))
	for _, ln := range m.logs {
		wrapped = append(wrapped, wrapText(ln, innerW)...)
	}
	lv.SetContent(strings.Join(wrapped, "\n"))
	lv.GotoBottom()
	return m.styles.panel.Width(panelInnerWidth(w)).Render(m.styles.panelTitle.Render("Live Logs") + "\n" + lv.View())
}

func (m model) viewNotFound(w int) string {
	return m.panel("404", []string{
		m.styles.bad.Render("Page not found"),
		fmt.Sprintf("There is no view named %q.", m.notFound),
		"",
		m.styles.dim.Render("Press enter to return to the dashboard"),
	}, w)
}

func (m model) viewLogout() string {
	barW := max(24, min(56, m.width-20))
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		m.styles.overlayTxt.Render("Logging out..."),
		"",
		"["+bar(m.logout.progress, barW)+"]",
		m.styles.dim.Render("Ending session"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.overlay.Render(body))
}

func (m model) viewFooter(w int) string {
	base := []string{"[tab/h/l] switch views", "[1-7] jump", "[s] start/pause", "[f] speed", "[r] reset", "[o] log out", "[q] quit"}
	var context []string
	switch {
	case m.notFound != "":
		context = []string{"[enter/esc] back to dashboard"}
	case m.tabIdx == tabDashboard:
		context = []string{"[j/k] select model", "[enter] view details"}
	case m.tabIdx == tabTraining:
		context = []string{"[space] start/pause", "Confusion cells drift every 5 epochs"}
	case m.tabIdx == tabExplainer:
		context = []string{"[j/k] select feature", "[enter] show importance"}
	case m.tabIdx == tabNetwork:
		context = []string{"[+/-] zoom", "[0] reset zoom", "[[ / ]] rotation speed"}
	case m.tabIdx == tabPipeline:
		context = []string{"[j/k] select step"}
	case m.tabIdx == tabSettings:
		context = []string{"[j/k] select", "[space/enter] toggle", "[left/right] accent color"}
	default:
		context = []string{"[pgup/pgdown/home/end] scroll logs", "[c] clear logs"}
	}
	body := []string{}
	for _, ln := range []string{
		"Global: " + strings.Join(base, "  "),
		"Context: " + strings.Join(context, "  "),
	} {
		body = append(body, wrapText(ln, max(20, w-8))...)
	}
	if m.help.ShowAll {
		body = append(body, m.help.View(m.keys))
	}
	return m.styles.panel.Copy().Padding(0, 1).Width(panelInnerWidth(w)).Render(strings.Join(body, "\n"))
}
