package main

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

func TestAppendSeriesCaps(t *testing.T) {
	t.Parallel()
	var s []float64
	for i := 1; i <= 5; i++ {
		s = appendSeries(s, float64(i), 3)
	}
	if !reflect.DeepEqual(s, []float64{3, 4, 5}) {
		t.Fatalf("series = %v", s)
	}
}

func TestSeriesStats(t *testing.T) {
	t.Parallel()
	if _, _, _, ok := seriesStats(nil); ok {
		t.Fatal("empty series reported ok")
	}
	latest, lo, hi, ok := seriesStats([]float64{4, 1, 9, 2})
	if !ok || latest != 2 || lo != 1 || hi != 9 {
		t.Fatalf("stats = %v %v %v %v", latest, lo, hi, ok)
	}
}

func TestLineChart(t *testing.T) {
	t.Parallel()
	lines := lineChart([]float64{1, 2, 3}, 8, 3, "%.1f")
	if len(lines) != 3 {
		t.Fatalf("height = %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "3.0 ┤") || !strings.HasPrefix(lines[2], "1.0 ┤") {
		t.Fatalf("axis labels:\n%s", strings.Join(lines, "\n"))
	}
	if n := strings.Count(strings.Join(lines, ""), "●"); n != 3 {
		t.Fatalf("plotted %d points", n)
	}
	if got := lineChart(nil, 10, 4, "%.1f"); len(got) != 1 || got[0] != strings.Repeat(".", 10) {
		t.Fatalf("empty chart = %q", got)
	}
}

func TestSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		series []float64
		width  int
		want   string
	}{
		{"empty", nil, 4, "...."},
		{"flat", []float64{2, 2, 2}, 4, "▇▇▇▇"},
		{"rise padded", []float64{0, 1}, 4, "▁█▁▁"},
	}
	for _, tc := range tests {
		if got := sparkline(tc.series, tc.width); got != tc.want {
			t.Errorf("%s: sparkline = %q, want %q", tc.name, got, tc.want)
		}
	}
	long := make([]float64, 500)
	for i := range long {
		long[i] = float64(i)
	}
	if got := sparkline(long, 20); utf8.RuneCountInString(got) != 20 {
		t.Fatalf("resampled width = %d", utf8.RuneCountInString(got))
	}
}

func TestRing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		fill float64
		lit  int
	}{
		{0, 0},
		{0.5, 6},
		{1, 12},
		{1.7, 12},
	}
	for _, tc := range tests {
		out := strings.Join(ring(tc.fill, "15:00"), "\n")
		if got := strings.Count(out, "●"); got != tc.lit {
			t.Errorf("fill %.2f lit %d cells, want %d", tc.fill, got, tc.lit)
		}
		if got := strings.Count(out, "○"); got != 12-tc.lit {
			t.Errorf("fill %.2f left %d empty cells", tc.fill, got)
		}
		if !strings.Contains(out, "15:00") {
			t.Errorf("label missing:\n%s", out)
		}
	}
}

func TestBar(t *testing.T) {
	t.Parallel()
	if got := bar(0.5, 10); got != "█████░░░░░" {
		t.Fatalf("bar = %q", got)
	}
	if got := bar(-1, 4); got != "░░░░" {
		t.Fatalf("bar below zero = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"one\n\ntwo", 10, []string{"one", "", "two"}},
	}
	for _, tc := range tests {
		if got := wrapText(tc.in, tc.width); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("short string changed: %q", got)
	}
	got := truncate("hello world", 5)
	if ansi.StringWidth(got) > 5 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate = %q", got)
	}
	styled := "\x1b[1mhello world\x1b[0m"
	if w := ansi.StringWidth(truncate(styled, 6)); w > 6 {
		t.Fatalf("styled width = %d", w)
	}
}
