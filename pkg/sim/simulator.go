// Package sim implements the synthetic training run behind the Training view:
// an epoch counter that advances once per tick, plausible accuracy and loss
// curves derived from it, and a slowly improving confusion matrix.
//
// A Simulator is not safe for concurrent use. It is owned by a single
// goroutine (the TUI update loop or Scheduler.Run) and renderers receive
// copies through State.
package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// BaseInterval is the tick period at speed 1.
const BaseInterval = time.Second

// ErrUnsupportedSpeed is returned for multipliers other than 1, 2 and 4.
var ErrUnsupportedSpeed = errors.New("unsupported speed multiplier")

var speeds = []int{1, 2, 4}

// Speeds lists the supported multipliers in cycle order.
func Speeds() []int {
	return append([]int(nil), speeds...)
}

func validSpeed(m int) bool {
	for _, s := range speeds {
		if s == m {
			return true
		}
	}
	return false
}

// Config sizes a run. See New for how zero values are treated.
type Config struct {
	MaxEpochs  int
	TimeBudget int
	Speed      int
}

// DefaultConfig is 100 epochs over a 30 minute budget at speed 1.
func DefaultConfig() Config {
	return Config{MaxEpochs: DefaultMaxEpochs, TimeBudget: DefaultTimeBudget, Speed: 1}
}

// Simulator holds one training run. It is not safe for concurrent use.
type Simulator struct {
	maxEpochs  int
	timeBudget int
	rng        Source

	runID         string
	epoch         int
	running       bool
	speed         int
	timeRemaining int
	accuracy      []Point
	loss          []Point
	confusion     Matrix

	listeners []func(Event)
}

// New builds a simulator in the seed state. Zero or invalid config fields
// fall back to the defaults; a nil source is replaced by a time-seeded one.
func New(cfg Config, src Source) *Simulator {
	if cfg.MaxEpochs < 1 {
		cfg.MaxEpochs = DefaultMaxEpochs
	}
	if cfg.TimeBudget < 1 {
		cfg.TimeBudget = DefaultTimeBudget
	}
	if !validSpeed(cfg.Speed) {
		cfg.Speed = 1
	}
	if src == nil {
		src = NewSource(0)
	}
	s := &Simulator{
		maxEpochs:  cfg.MaxEpochs,
		timeBudget: cfg.TimeBudget,
		rng:        src,
		speed:      cfg.Speed,
		confusion:  DefaultMatrix(),
	}
	s.seed()
	return s
}

// Subscribe registers fn to receive every event, synchronously and in order.
// Listeners must not call back into the simulator.
func (s *Simulator) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Simulator) emit(kind EventKind) {
	ev := Event{Kind: kind, RunID: s.runID, Epoch: s.epoch, Speed: s.speed}
	for _, fn := range s.listeners {
		fn(ev)
	}
}

func (s *Simulator) seed() {
	s.runID = uuid.NewString()
	s.epoch = 0
	s.timeRemaining = s.timeBudget
	s.accuracy = seedAccuracy()
	s.loss = seedLoss()
}

// Accessors for the live state; State returns a detached copy of all of it.
func (s *Simulator) Running() bool   { return s.running }
func (s *Simulator) Epoch() int      { return s.epoch }
func (s *Simulator) MaxEpochs() int  { return s.maxEpochs }
func (s *Simulator) Speed() int      { return s.speed }
func (s *Simulator) RunID() string   { return s.runID }
func (s *Simulator) Completed() bool { return s.epoch >= s.maxEpochs }

// Status is running, completed or idle, in that order of precedence.
func (s *Simulator) Status() Status {
	switch {
	case s.running:
		return StatusRunning
	case s.Completed():
		return StatusCompleted
	default:
		return StatusIdle
	}
}

// Interval is the wall-clock period between ticks at the current speed.
func (s *Simulator) Interval() time.Duration {
	return BaseInterval / time.Duration(s.speed)
}

// Start begins a run. A completed run is re-seeded first; starting a running
// simulator does nothing.
func (s *Simulator) Start() {
	if s.running {
		return
	}
	if s.Completed() {
		s.seed()
	}
	s.running = true
	s.emit(EventStarted)
}

func (s *Simulator) Pause() {
	if !s.running {
		return
	}
	s.running = false
	s.emit(EventPaused)
}

// Toggle pauses a running simulator and starts an idle or completed one.
func (s *Simulator) Toggle() {
	if s.running {
		s.Pause()
		return
	}
	s.Start()
}

// Reset stops the run and restores the seed series, epoch and countdown.
// Speed and the confusion matrix carry over.
func (s *Simulator) Reset() {
	s.running = false
	s.seed()
	s.emit(EventReset)
}

func (s *Simulator) SetSpeed(m int) error {
	if !validSpeed(m) {
		return fmt.Errorf("%w: %d", ErrUnsupportedSpeed, m)
	}
	s.speed = m
	s.emit(EventSpeedChanged)
	return nil
}

// CycleSpeed moves to the next multiplier (1, 2, 4, 1, ...) and returns it.
func (s *Simulator) CycleSpeed() int {
	next := speeds[0]
	for i, sp := range speeds {
		if sp == s.speed {
			next = speeds[(i+1)%len(speeds)]
			break
		}
	}
	s.speed = next
	s.emit(EventSpeedChanged)
	return next
}

// Tick advances one epoch. It reports false without touching state when the
// simulator is not running.
func (s *Simulator) Tick() bool {
	if !s.running {
		return false
	}
	if s.epoch < s.maxEpochs {
		s.epoch++
	}
	progress := float64(s.epoch) / float64(s.maxEpochs)

	trainAcc := math.Min(0.5+progress*0.45+s.rng.Float64()*0.05, 0.99)
	valAcc := trainAcc - s.rng.Float64()*0.05
	trainLoss := math.Max(0.5-progress*0.45, 0.05) + s.rng.Float64()*0.03
	valLoss := trainLoss + s.rng.Float64()*0.05

	label := fmt.Sprintf("E%d", s.epoch)
	s.accuracy = append(s.accuracy, Point{Label: label, Training: trainAcc * 100, Validation: valAcc * 100})
	s.loss = append(s.loss, Point{Label: label, Training: trainLoss, Validation: valLoss})

	s.timeRemaining -= s.speed
	if s.timeRemaining < 0 {
		s.timeRemaining = 0
	}

	if s.epoch%perturbEvery == 0 {
		s.perturb()
	}

	if s.epoch >= s.maxEpochs {
		s.running = false
		s.emit(EventCompleted)
	}
	return true
}

// perturb nudges one random cell: correct predictions drift up, confusions
// drift down. Rows are deliberately not renormalized.
func (s *Simulator) perturb() {
	row := s.rng.Intn(Classes)
	col := s.rng.Intn(Classes)
	v := s.confusion[row][col]
	if row == col {
		v += s.rng.Intn(3)
	} else {
		v -= s.rng.Intn(2)
	}
	s.confusion[row][col] = clampPercent(v)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Simulator) State() State {
	return State{
		RunID:         s.runID,
		Epoch:         s.epoch,
		MaxEpochs:     s.maxEpochs,
		Running:       s.running,
		Speed:         s.speed,
		TimeRemaining: s.timeRemaining,
		TimeBudget:    s.timeBudget,
		Accuracy:      append([]Point(nil), s.accuracy...),
		Loss:          append([]Point(nil), s.loss...),
		Confusion:     s.confusion,
	}
}
