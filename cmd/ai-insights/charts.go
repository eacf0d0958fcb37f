package main

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

func appendSeries(series []float64, v float64, capN int) []float64 {
	series = append(series, v)
	if len(series) > capN {
		series = series[len(series)-capN:]
	}
	return series
}

func seriesStats(series []float64) (latest, minV, maxV float64, ok bool) {
	if len(series) == 0 {
		return 0, 0, 0, false
	}
	latest = series[len(series)-1]
	minV, maxV = series[0], series[0]
	for _, v := range series[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return latest, minV, maxV, true
}

// resample picks at most width evenly spaced values from series.
func resample(series []float64, width int) []float64 {
	if len(series) <= width {
		return append([]float64(nil), series...)
	}
	out := make([]float64, 0, width)
	step := float64(len(series)-1) / float64(width-1)
	for i := 0; i < width; i++ {
		idx := int(math.Round(float64(i) * step))
		idx = max(0, min(len(series)-1, idx))
		out = append(out, series[idx])
	}
	return out
}

// lineChart draws series as a dot plot of the given size with the min and max
// printed on the axis using labelFmt.
func lineChart(series []float64, width, height int, labelFmt string) []string {
	width = max(8, width)
	height = max(3, height)
	if len(series) == 0 {
		return []string{strings.Repeat(".", width)}
	}
	sampled := resample(series, width)
	_, minV, maxV, _ := seriesStats(sampled)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	rowOf := func(v float64) int {
		if maxV <= minV {
			return height / 2
		}
		ratio := (v - minV) / (maxV - minV)
		return max(0, min(height-1, height-1-int(math.Round(ratio*float64(height-1)))))
	}
	last := rowOf(sampled[0])
	for x, v := range sampled {
		row := rowOf(v)
		grid[row][x] = '●'
		if x > 0 {
			lo, hi := min(row, last), max(row, last)
			for rr := lo + 1; rr < hi; rr++ {
				if grid[rr][x-1] == ' ' {
					grid[rr][x-1] = '│'
				}
			}
		}
		last = row
	}

	labelW := len(fmt.Sprintf(labelFmt, maxV))
	labelW = max(labelW, len(fmt.Sprintf(labelFmt, minV)))
	blank := strings.Repeat(" ", labelW) + " │"
	lines := make([]string, 0, height)
	for r := 0; r < height; r++ {
		label := blank
		switch r {
		case 0:
			label = fmt.Sprintf("%*s ┤", labelW, fmt.Sprintf(labelFmt, maxV))
		case height - 1:
			label = fmt.Sprintf("%*s ┤", labelW, fmt.Sprintf(labelFmt, minV))
		}
		lines = append(lines, label+string(grid[r]))
	}
	return lines
}

var sparkChars = []rune("▁▂▃▄▅▆▇█")

func sparkline(series []float64, width int) string {
	width = max(4, width)
	if len(series) == 0 {
		return strings.Repeat(".", width)
	}
	sampled := resample(series, width)
	_, minV, maxV, _ := seriesStats(sampled)
	if maxV == minV {
		return strings.Repeat(string(sparkChars[len(sparkChars)-2]), width)
	}
	var b strings.Builder
	b.Grow(width * 3)
	for _, v := range sampled {
		pos := int(math.Round((v - minV) / (maxV - minV) * float64(len(sparkChars)-1)))
		b.WriteRune(sparkChars[max(0, min(len(sparkChars)-1, pos))])
	}
	for i := len(sampled); i < width; i++ {
		b.WriteRune(sparkChars[0])
	}
	return b.String()
}

// bar renders ratio as a filled bar of w cells.
func bar(ratio float64, w int) string {
	w = max(4, w)
	done := int(math.Round(clamp01(ratio) * float64(w)))
	return strings.Repeat("█", done) + strings.Repeat("░", w-done)
}

// ringCells are the 12 clock positions of the countdown ring on a 5x11 grid,
// starting at twelve o'clock and running clockwise.
var ringCells = [12][2]int{
	{5, 0}, {8, 0}, {9, 1}, {10, 2}, {9, 3}, {8, 4},
	{5, 4}, {2, 4}, {1, 3}, {0, 2}, {1, 1}, {2, 0},
}

// ring draws a circular gauge with fill fraction filled clockwise and label
// centred inside.
func ring(fill float64, label string) []string {
	grid := make([][]rune, 5)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", 11))
	}
	lit := int(math.Round(clamp01(fill) * float64(len(ringCells))))
	for i, c := range ringCells {
		ch := '○'
		if i < lit {
			ch = '●'
		}
		grid[c[1]][c[0]] = ch
	}
	lr := []rune(label)
	if len(lr) > 7 {
		lr = lr[:7]
	}
	start := (11 - len(lr)) / 2
	for i, r := range lr {
		grid[2][start+i] = r
	}
	out := make([]string, len(grid))
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func fitHeight(s string, h int) string {
	if h <= 0 {
		return s
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) []string {
	if width <= 1 {
		return []string{s}
	}
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.FieldsFunc(p, unicode.IsSpace)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := ""
		for _, w := range words {
			rs := []rune(w)
			for len(rs) > width {
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				out = append(out, string(rs[:width]))
				rs = rs[width:]
			}
			if len(rs) == 0 {
				continue
			}
			w = string(rs)
			switch {
			case cur == "":
				cur = w
			case len([]rune(cur))+1+len(rs) <= width:
				cur += " " + w
			default:
				out = append(out, cur)
				cur = w
			}
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// truncate cuts s to w terminal cells, keeping escape sequences intact.
func truncate(s string, w int) string {
	if ansi.StringWidth(s) <= w {
		return s
	}
	return ansi.Truncate(s, max(1, w), "…")
}
