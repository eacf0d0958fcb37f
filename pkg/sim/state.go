package sim

import "fmt"

const (
	DefaultMaxEpochs  = 100
	DefaultTimeBudget = 1800
	Classes           = 4
	perturbEvery      = 5
)

// Status is the coarse lifecycle of a run.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	default:
		return "idle"
	}
}

type Point struct {
	Label      string
	Training   float64
	Validation float64
}

// Matrix is a confusion matrix of integer percentages, rows = actual class.
type Matrix [Classes][Classes]int

func DefaultMatrix() Matrix {
	return Matrix{
		{85, 5, 3, 2},
		{6, 90, 2, 4},
		{4, 3, 88, 2},
		{5, 2, 7, 92},
	}
}

func ClassName(i int) string {
	return fmt.Sprintf("Class %c", 'A'+rune(i))
}

type Hyperparameters struct {
	BatchSize      int
	LearningRate   float64
	Optimizer      string
	Regularization string
	Momentum       float64
}

func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		BatchSize:      64,
		LearningRate:   0.001,
		Optimizer:      "Adam",
		Regularization: "L2",
		Momentum:       0.9,
	}
}

// State is a detached copy of the simulator's state, safe to hand to renderers.
type State struct {
	RunID         string
	Epoch         int
	MaxEpochs     int
	Running       bool
	Speed         int
	TimeRemaining int
	TimeBudget    int
	Accuracy      []Point
	Loss          []Point
	Confusion     Matrix
}

func (s State) Status() Status {
	switch {
	case s.Running:
		return StatusRunning
	case s.Epoch >= s.MaxEpochs:
		return StatusCompleted
	default:
		return StatusIdle
	}
}

// Progress is the completed fraction of the run in [0,1].
func (s State) Progress() float64 {
	if s.MaxEpochs <= 0 {
		return 0
	}
	return float64(s.Epoch) / float64(s.MaxEpochs)
}

// Elapsed is the fraction of the time budget already consumed in [0,1].
func (s State) Elapsed() float64 {
	if s.TimeBudget <= 0 {
		return 1
	}
	return float64(s.TimeBudget-s.TimeRemaining) / float64(s.TimeBudget)
}

func (s State) LatestAccuracy() Point {
	if len(s.Accuracy) == 0 {
		return Point{}
	}
	return s.Accuracy[len(s.Accuracy)-1]
}

func (s State) LatestLoss() Point {
	if len(s.Loss) == 0 {
		return Point{}
	}
	return s.Loss[len(s.Loss)-1]
}

func seedAccuracy() []Point {
	return []Point{{Label: "E0", Training: 50, Validation: 48}}
}

func seedLoss() []Point {
	return []Point{{Label: "E0", Training: 0.5, Validation: 0.55}}
}

// FormatRemaining renders seconds as m:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
