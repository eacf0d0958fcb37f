// Package runlog writes per-run artifacts: a plain log of tagged lines, a
// CSV with one row per epoch and, once a run finishes, a PNG of its curves.
// A nil *Writer accepts every call and does nothing, so callers can leave
// logging disabled without branching.
package runlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Menatic/AI-insights/pkg/sim"
)

var csvHeader = []string{
	"timestamp", "run_id", "epoch", "max_epochs", "speed", "time_remaining",
	"train_acc", "val_acc", "train_loss", "val_loss",
}

type Writer struct {
	Tag         string
	LogPath     string
	LatestPath  string
	MetricsPath string
	MetaPath    string
	CurvesPath  string

	logFile     *os.File
	latestFile  *os.File
	metricsFile *os.File
	metrics     *csv.Writer
}

// Open creates the run's files under root (train/, metrics/, runs/ and a
// rolling train_latest.log).
func Open(root, runID string, now time.Time) (*Writer, error) {
	trainDir := filepath.Join(root, "train")
	metricsDir := filepath.Join(root, "metrics")
	runsDir := filepath.Join(root, "runs")
	for _, d := range []string{trainDir, metricsDir, runsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("runlog: %w", err)
		}
	}
	w := &Writer{Tag: fmt.Sprintf("%s_%s", now.Format("20060102_150405"), ShortID(runID))}
	w.LogPath = filepath.Join(trainDir, fmt.Sprintf("train_%s.log", w.Tag))
	w.MetricsPath = filepath.Join(metricsDir, fmt.Sprintf("metrics_%s.csv", w.Tag))
	w.MetaPath = filepath.Join(runsDir, fmt.Sprintf("run_%s.txt", w.Tag))
	w.CurvesPath = filepath.Join(metricsDir, fmt.Sprintf("curves_%s.png", w.Tag))
	w.LatestPath = filepath.Join(root, "train_latest.log")

	var err error
	if w.logFile, err = openAppend(w.LogPath); err != nil {
		return nil, err
	}
	if w.latestFile, err = openAppend(w.LatestPath); err != nil {
		w.Close()
		return nil, err
	}
	if w.metricsFile, err = openAppend(w.MetricsPath); err != nil {
		w.Close()
		return nil, err
	}
	w.metrics = csv.NewWriter(w.metricsFile)
	if err := w.metrics.Write(csvHeader); err != nil {
		w.Close()
		return nil, fmt.Errorf("runlog: %w", err)
	}
	w.metrics.Flush()
	meta := fmt.Sprintf("run_tag=%s\nrun_id=%s\nstarted=%s\n", w.Tag, runID, now.Format(time.RFC3339))
	if err := os.WriteFile(w.MetaPath, []byte(meta), 0o644); err != nil {
		w.Close()
		return nil, fmt.Errorf("runlog: %w", err)
	}
	return w, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("runlog: %w", err)
	}
	return f, nil
}

func (w *Writer) Line(line string) {
	if w == nil {
		return
	}
	if w.logFile != nil {
		_, _ = w.logFile.WriteString(line + "\n")
	}
	if w.latestFile != nil {
		_, _ = w.latestFile.WriteString(line + "\n")
	}
}

// Epoch appends the latest point of st as one CSV row. Call it once per
// tick so catch-up batches keep every epoch.
func (w *Writer) Epoch(ts time.Time, st sim.State) {
	if w == nil || w.metrics == nil {
		return
	}
	acc, loss := st.LatestAccuracy(), st.LatestLoss()
	_ = w.metrics.Write([]string{
		ts.Format("2006-01-02T15:04:05"),
		st.RunID,
		strconv.Itoa(st.Epoch),
		strconv.Itoa(st.MaxEpochs),
		strconv.Itoa(st.Speed),
		strconv.Itoa(st.TimeRemaining),
		strconv.FormatFloat(acc.Training, 'f', 4, 64),
		strconv.FormatFloat(acc.Validation, 'f', 4, 64),
		strconv.FormatFloat(loss.Training, 'f', 6, 64),
		strconv.FormatFloat(loss.Validation, 'f', 6, 64),
	})
	w.metrics.Flush()
}

func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	var first error
	if w.metrics != nil {
		w.metrics.Flush()
		first = w.metrics.Error()
		w.metrics = nil
	}
	for _, f := range []**os.File{&w.logFile, &w.latestFile, &w.metricsFile} {
		if *f == nil {
			continue
		}
		if err := (*f).Close(); err != nil && first == nil {
			first = err
		}
		*f = nil
	}
	return first
}
