package sim

import (
	"context"
	"errors"
	"testing"
	"time"
)

var epoch0 = time.Date(2024, 4, 5, 8, 30, 0, 0, time.UTC)

func newTestScheduler(cfg Config) (*Scheduler, *ManualClock) {
	clk := NewManualClock(epoch0)
	return NewScheduler(New(cfg, NewSource(42)), clk), clk
}

func TestSchedulerIdleDoesNotTick(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	clk.Advance(10 * time.Second)
	if n := sc.Step(); n != 0 {
		t.Fatalf("idle scheduler ran %d ticks", n)
	}
	if _, ok := sc.NextDue(); ok {
		t.Fatal("idle scheduler should not be armed")
	}
}

func TestSchedulerRunsToCompletion(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	completed := 0
	sc.Simulator().Subscribe(func(ev Event) {
		if ev.Kind == EventCompleted {
			completed++
		}
	})
	sc.Start()
	for i := 0; i < 100; i++ {
		clk.Advance(time.Second)
		if n := sc.Step(); n != 1 {
			t.Fatalf("step %d ran %d ticks", i, n)
		}
	}
	s := sc.Simulator()
	if s.Epoch() != 100 || s.Running() {
		t.Fatalf("epoch=%d running=%t", s.Epoch(), s.Running())
	}
	if completed != 1 {
		t.Fatalf("completion fired %d times", completed)
	}
	if _, ok := sc.NextDue(); ok {
		t.Fatal("completed run should disarm the scheduler")
	}
	clk.Advance(time.Minute)
	if n := sc.Step(); n != 0 {
		t.Fatalf("completed scheduler ran %d ticks", n)
	}
}

func TestSchedulerDoesNotTickEarly(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	sc.Start()
	clk.Advance(999 * time.Millisecond)
	if n := sc.Step(); n != 0 {
		t.Fatalf("ticked %d times before the interval elapsed", n)
	}
	clk.Advance(time.Millisecond)
	if n := sc.Step(); n != 1 {
		t.Fatalf("ticked %d times at the deadline", n)
	}
}

func TestSchedulerCatchesUpOneIntervalApart(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	sc.Start()
	clk.Advance(3500 * time.Millisecond)
	if n := sc.Step(); n != 3 {
		t.Fatalf("ran %d ticks, want 3", n)
	}
	due, ok := sc.NextDue()
	if !ok || !due.Equal(epoch0.Add(4*time.Second)) {
		t.Fatalf("next due = %s armed=%t", due, ok)
	}
}

func TestSchedulerSpeedChangeHalvesInterval(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	sc.Start()
	clk.Advance(time.Second)
	sc.Step()
	before := sc.Simulator().State()

	if sp := sc.CycleSpeed(); sp != 2 {
		t.Fatalf("speed = %d", sp)
	}
	clk.Advance(499 * time.Millisecond)
	if n := sc.Step(); n != 0 {
		t.Fatalf("ticked %d times before the new interval", n)
	}
	clk.Advance(time.Millisecond)
	if n := sc.Step(); n != 1 {
		t.Fatalf("ran %d ticks after 500ms at 2x", n)
	}
	after := sc.Simulator().State()
	if after.Epoch != before.Epoch+1 {
		t.Errorf("epoch delta = %d", after.Epoch-before.Epoch)
	}
	if after.TimeRemaining != before.TimeRemaining-2 {
		t.Errorf("time delta = %d", before.TimeRemaining-after.TimeRemaining)
	}
	if len(after.Accuracy) != len(before.Accuracy)+1 {
		t.Errorf("series grew by %d", len(after.Accuracy)-len(before.Accuracy))
	}
}

func TestSchedulerSpeedChangeWhileIdleStaysDisarmed(t *testing.T) {
	t.Parallel()
	sc, _ := newTestScheduler(DefaultConfig())
	if err := sc.SetSpeed(4); err != nil {
		t.Fatal(err)
	}
	if _, ok := sc.NextDue(); ok {
		t.Fatal("speed change armed an idle scheduler")
	}
	if err := sc.SetSpeed(5); !errors.Is(err, ErrUnsupportedSpeed) {
		t.Fatalf("SetSpeed(5) err = %v", err)
	}
}

func TestSchedulerPauseAndResetDiscardPendingTick(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	sc.Start()
	clk.Advance(900 * time.Millisecond)
	sc.Pause()
	clk.Advance(5 * time.Second)
	if n := sc.Step(); n != 0 {
		t.Fatalf("paused scheduler ran %d ticks", n)
	}

	sc.Toggle()
	clk.Advance(time.Second)
	if n := sc.Step(); n != 1 {
		t.Fatalf("resumed scheduler ran %d ticks", n)
	}
	sc.Reset()
	clk.Advance(5 * time.Second)
	if n := sc.Step(); n != 0 {
		t.Fatalf("reset scheduler ran %d ticks", n)
	}
	if sc.Simulator().Epoch() != 0 {
		t.Fatalf("epoch after reset = %d", sc.Simulator().Epoch())
	}
}

func TestSchedulerStartWhileRunningKeepsDeadline(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	sc.Start()
	first, _ := sc.NextDue()
	clk.Advance(600 * time.Millisecond)
	sc.Start()
	again, _ := sc.NextDue()
	if !first.Equal(again) {
		t.Fatalf("redundant start moved the deadline from %s to %s", first, again)
	}
}

func TestRunCompletes(t *testing.T) {
	t.Parallel()
	sc := NewScheduler(New(Config{MaxEpochs: 3, TimeBudget: 60, Speed: 4}, NewSource(1)), SystemClock{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sc.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	st := sc.Simulator().State()
	if st.Epoch != 3 || st.Running {
		t.Fatalf("epoch=%d running=%t", st.Epoch, st.Running)
	}
	if st.TimeRemaining != 48 {
		t.Fatalf("time remaining = %d", st.TimeRemaining)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	sc := NewScheduler(New(DefaultConfig(), NewSource(1)), SystemClock{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := sc.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run err = %v", err)
	}
	if sc.Simulator().Running() {
		t.Fatal("cancelled run should be paused")
	}
	if _, ok := sc.NextDue(); ok {
		t.Fatal("cancelled run left a pending tick")
	}
}

func TestSchedulerOnStepReportsTickCount(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	var got []int
	sc.OnStep(func(n int) { got = append(got, n) })
	sc.Start()
	sc.Step()
	clk.Advance(2500 * time.Millisecond)
	sc.Step()
	clk.Advance(time.Second)
	sc.Step()
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("OnStep calls = %v, want [2 1]", got)
	}
}

func TestSchedulerOnTickSeesEveryCatchUpTick(t *testing.T) {
	t.Parallel()
	sc, clk := newTestScheduler(DefaultConfig())
	start := clk.Now()
	var dues []time.Time
	var epochs, remaining []int
	sc.OnTick(func(due time.Time, st State) {
		dues = append(dues, due)
		epochs = append(epochs, st.Epoch)
		remaining = append(remaining, st.TimeRemaining)
	})
	sc.Start()
	clk.Advance(3 * time.Second)
	if n := sc.Step(); n != 3 {
		t.Fatalf("Step ran %d ticks, want 3", n)
	}
	if len(epochs) != 3 {
		t.Fatalf("OnTick calls = %d, want 3", len(epochs))
	}
	for i := range epochs {
		if epochs[i] != i+1 {
			t.Errorf("tick %d epoch = %d", i, epochs[i])
		}
		if remaining[i] != DefaultTimeBudget-(i+1) {
			t.Errorf("tick %d remaining = %d", i, remaining[i])
		}
		if want := start.Add(time.Duration(i+1) * time.Second); !dues[i].Equal(want) {
			t.Errorf("tick %d due = %v, want %v", i, dues[i], want)
		}
	}
}
