package sim

import (
	"context"
	"time"
)

// Scheduler paces a Simulator against a Clock. Every control operation that
// can change whether or how fast the run ticks re-arms a single deadline, so
// at most one tick is ever pending.
type Scheduler struct {
	sim   *Simulator
	clock Clock
	next  time.Time
	armed bool

	afterTick []func(due time.Time, st State)
	afterStep []func(n int)
}

// NewScheduler pairs s with c; a nil clock means SystemClock.
func NewScheduler(s *Simulator, c Clock) *Scheduler {
	if c == nil {
		c = SystemClock{}
	}
	return &Scheduler{sim: s, clock: c}
}

func (sc *Scheduler) Simulator() *Simulator { return sc.sim }

func (sc *Scheduler) rearm() {
	if !sc.sim.Running() {
		sc.armed = false
		return
	}
	sc.next = sc.clock.Now().Add(sc.sim.Interval())
	sc.armed = true
}

// Start begins or resumes the run and arms the first tick one interval out.
func (sc *Scheduler) Start() {
	wasRunning := sc.sim.Running()
	sc.sim.Start()
	if !wasRunning {
		sc.rearm()
	}
}

// Pause stops the run and drops the pending tick.
func (sc *Scheduler) Pause() {
	sc.sim.Pause()
	sc.armed = false
}

// Toggle pauses a running simulator and starts any other.
func (sc *Scheduler) Toggle() {
	if sc.sim.Running() {
		sc.Pause()
		return
	}
	sc.Start()
}

// Reset restores the seed state and disarms.
func (sc *Scheduler) Reset() {
	sc.sim.Reset()
	sc.armed = false
}

// SetSpeed changes the multiplier and re-arms from now at the new interval.
func (sc *Scheduler) SetSpeed(m int) error {
	if err := sc.sim.SetSpeed(m); err != nil {
		return err
	}
	sc.rearm()
	return nil
}

// CycleSpeed advances to the next multiplier and re-arms like SetSpeed.
func (sc *Scheduler) CycleSpeed() int {
	sp := sc.sim.CycleSpeed()
	sc.rearm()
	return sp
}

// OnTick registers fn to run after every single tick, including each tick of
// a catch-up batch, with the time that tick was due and the resulting state.
func (sc *Scheduler) OnTick(fn func(due time.Time, st State)) {
	sc.afterTick = append(sc.afterTick, fn)
}

// OnStep registers fn to run after every Step that executed at least one
// tick, with the number of ticks it ran.
func (sc *Scheduler) OnStep(fn func(n int)) {
	sc.afterStep = append(sc.afterStep, fn)
}

// NextDue reports when the pending tick fires, if one is pending.
func (sc *Scheduler) NextDue() (time.Time, bool) {
	return sc.next, sc.armed
}

// Step runs every tick that has come due by the clock's current time and
// returns how many ran. Ticks fire one interval apart; a run that completes
// disarms the scheduler.
func (sc *Scheduler) Step() int {
	if !sc.armed {
		return 0
	}
	now := sc.clock.Now()
	n := 0
	for sc.armed && !now.Before(sc.next) {
		due := sc.next
		sc.sim.Tick()
		n++
		if len(sc.afterTick) > 0 {
			st := sc.sim.State()
			for _, fn := range sc.afterTick {
				fn(due, st)
			}
		}
		if !sc.sim.Running() {
			sc.armed = false
			break
		}
		sc.next = sc.next.Add(sc.sim.Interval())
	}
	if n > 0 {
		for _, fn := range sc.afterStep {
			fn(n)
		}
	}
	return n
}

// Run starts the simulator and drives it on real timers until the run
// completes or ctx is cancelled. Cancellation pauses the run and discards the
// pending tick.
func (sc *Scheduler) Run(ctx context.Context) error {
	sc.Start()
	for {
		due, ok := sc.NextDue()
		if !ok {
			return nil
		}
		wait := due.Sub(sc.clock.Now())
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			sc.Pause()
			return ctx.Err()
		case <-timer.C:
		}
		sc.Step()
	}
}
