package runlog

import (
	"errors"
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Menatic/AI-insights/pkg/sim"
)

// ErrTooFewPoints is returned by Curves when the run has fewer than two
// points; the chart library cannot scale a single x value.
var ErrTooFewPoints = errors.New("runlog: need at least two epochs to chart")

const (
	curvesWidth  = 1024
	curvesHeight = 480
)

// Curves renders accuracy (left axis, percent) and loss (right axis) for
// every epoch of st into CurvesPath as a PNG.
func (w *Writer) Curves(st sim.State) error {
	if w == nil {
		return nil
	}
	if len(st.Accuracy) < 2 || len(st.Loss) < 2 {
		return ErrTooFewPoints
	}
	ch := curvesChart(st)
	f, err := os.Create(w.CurvesPath)
	if err != nil {
		return fmt.Errorf("runlog: %w", err)
	}
	if err := ch.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("runlog: render curves: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("runlog: %w", err)
	}
	return nil
}

func curvesChart(st sim.State) chart.Chart {
	epochs := func(n int) []float64 {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
		return xs
	}
	accX, lossX := epochs(len(st.Accuracy)), epochs(len(st.Loss))
	accTrain, accVal := make([]float64, len(st.Accuracy)), make([]float64, len(st.Accuracy))
	for i, p := range st.Accuracy {
		accTrain[i], accVal[i] = p.Training, p.Validation
	}
	lossTrain, lossVal := make([]float64, len(st.Loss)), make([]float64, len(st.Loss))
	lossMax := 0.0
	for i, p := range st.Loss {
		lossTrain[i], lossVal[i] = p.Training, p.Validation
		lossMax = max(lossMax, p.Training, p.Validation)
	}
	if lossMax <= 0 {
		lossMax = 1
	}

	dashed := []float64{5, 3}
	ch := chart.Chart{
		Title:      fmt.Sprintf("Run %s (%d/%d epochs)", ShortID(st.RunID), st.Epoch, st.MaxEpochs),
		Width:      curvesWidth,
		Height:     curvesHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "epoch"},
		YAxis:      chart.YAxis{Name: "accuracy %", Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		YAxisSecondary: chart.YAxis{
			Name:  "loss",
			Range: &chart.ContinuousRange{Min: 0, Max: lossMax * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "train acc", XValues: accX, YValues: accTrain,
				Style: chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}},
			chart.ContinuousSeries{Name: "val acc", XValues: accX, YValues: accVal,
				Style: chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2, StrokeDashArray: dashed}},
			chart.ContinuousSeries{Name: "train loss", XValues: lossX, YValues: lossTrain, YAxis: chart.YAxisSecondary,
				Style: chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2}},
			chart.ContinuousSeries{Name: "val loss", XValues: lossX, YValues: lossVal, YAxis: chart.YAxisSecondary,
				Style: chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2, StrokeDashArray: dashed}},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}
